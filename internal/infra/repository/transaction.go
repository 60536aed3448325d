package repository

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key carrying an in-flight transaction.
type txKey struct{}

// TxManager runs callbacks inside a database transaction, adapting
// record.Transactor for the record-submission pipeline (and any other
// service that needs multi-statement atomicity).
type TxManager struct {
	db *gorm.DB
}

// NewTxManager constructs a TxManager over db.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction implements record.Transactor.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transaction carried by ctx, or db.WithContext(ctx)
// when no transaction is in flight.
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
