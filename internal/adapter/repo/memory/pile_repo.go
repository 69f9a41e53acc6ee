package memory

import (
	"context"
	"sort"

	"mulchworks/internal/app/ports"
)

type PileRepo struct {
	store *Store
}

func NewPileRepo(store *Store) PileRepo {
	return PileRepo{store: store}
}

func (r PileRepo) GetByPileID(_ context.Context, pileID string) (ports.PileRecord, error) {
	record, ok := r.store.piles[pileID]
	if !ok {
		return ports.PileRecord{}, ports.ErrNotFound
	}
	return record, nil
}

func (r PileRepo) SaveWithVersion(_ context.Context, record ports.PileRecord, expectedVersion int64) error {
	current, ok := r.store.piles[record.PileID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.piles[record.PileID] = record
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.piles[record.PileID] = record
	return nil
}

func (r PileRepo) ListPileIDs(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(r.store.piles))
	for id := range r.store.piles {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
