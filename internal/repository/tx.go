package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner provides the shared transaction boundary for multi-step writes.
// Any error returned by fn rolls the whole transaction back and is re-raised;
// success commits. Repositories join the transaction via WithTx.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner returns a transaction runner backed by GORM transactions.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}
