package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor задаёт границу атомарной операции над хранилищем
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor создаёт Transactor поверх GORM
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// WithinTransaction выполняет fn в транзакции; активная транзакция
// передаётся через контекст, вложенные вызовы присоединяются через savepoint
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFrom(ctx, t.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom возвращает активную транзакцию из контекста или базовое подключение
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
