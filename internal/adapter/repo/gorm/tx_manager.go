package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// TxManager wraps each pile command in a database transaction. The open
// transaction is stashed in the context, so every repository call inside fn
// sees the same uncommitted state and the version check in SaveWithVersion
// stays atomic with the event append.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
