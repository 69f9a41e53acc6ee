package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// The active transaction travels through the context so the pile and event
// repositories join the unit of work opened by TxManager without holding a
// reference to it.
type txKeyType struct{}

var txKey = txKeyType{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// sessionFrom returns the transaction carried by ctx, or base when the call
// runs outside a unit of work (status reads, the ticker's pile listing).
func sessionFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if v := ctx.Value(txKey); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return base
}
