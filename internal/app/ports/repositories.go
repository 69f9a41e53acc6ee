package ports

import (
	"context"
	"time"

	"mulchworks/internal/domain/compost"
)

// PileRecord is one pile as persisted: the engine's flat simulation state
// plus the deposited material counts the inventory side owns.
type PileRecord struct {
	PileID     string
	State      compost.PileState
	GreenCount int
	BrownCount int
	Version    int64
	UpdatedAt  time.Time
}

type PileRepository interface {
	GetByPileID(ctx context.Context, pileID string) (PileRecord, error)
	SaveWithVersion(ctx context.Context, record PileRecord, expectedVersion int64) error
	ListPileIDs(ctx context.Context) ([]string, error)
}

type EventRepository interface {
	Append(ctx context.Context, pileID string, events []compost.DomainEvent) error
	ListByPileID(ctx context.Context, pileID string, limit int) ([]compost.DomainEvent, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
