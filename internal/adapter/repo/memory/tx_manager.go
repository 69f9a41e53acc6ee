package memory

import "context"

// TxManager serializes units of work by holding the store lock for the
// duration of fn. The repositories do not lock on their own; concurrent
// commands against the same pile are ordered here instead of surfacing
// as spurious version conflicts.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(ctx)
}
