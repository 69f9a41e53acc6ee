package memory

import (
	"context"

	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, pileID string, events []compost.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	r.store.events[pileID] = append(r.store.events[pileID], events...)
	return nil
}

func (r EventRepo) ListByPileID(_ context.Context, pileID string, limit int) ([]compost.DomainEvent, error) {
	stored := r.store.events[pileID]
	if len(stored) == 0 {
		return nil, ports.ErrNotFound
	}
	// Newest first, like the persistent repo.
	out := make([]compost.DomainEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
