package repository

import (
	"context"
	"errors"

	"github.com/org-hierarchy-api/internal/closure"
	"gorm.io/gorm"
)

// ClosureStore — универсальное GORM-хранилище closure-записей.
// Параметризуется closure-моделью M и моделью узла N и создаётся
// по одному экземпляру на вид сущности; фабрика собирает конкретные
// строки из универсальных записей движка.
type ClosureStore[M closure.Model, N any] struct {
	db      *gorm.DB
	factory closure.Factory[M]
}

// NewClosureStore создаёт хранилище closure-записей для конкретного вида сущности
func NewClosureStore[M closure.Model, N any](db *gorm.DB, factory closure.Factory[M]) *ClosureStore[M, N] {
	return &ClosureStore[M, N]{db: db, factory: factory}
}

func (s *ClosureStore[M, N]) InsertClosure(ctx context.Context, rec closure.Record) error {
	row := s.factory.New(rec.AncestorID, rec.DescendantID, rec.Level)
	err := dbFrom(ctx, s.db).WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return closure.ErrDuplicateClosure
	}
	return err
}

func (s *ClosureStore[M, N]) DeleteClosure(ctx context.Context, ancestorID, descendantID int64) error {
	var row M
	return dbFrom(ctx, s.db).WithContext(ctx).
		Where("ancestor_id = ? AND descendant_id = ?", ancestorID, descendantID).
		Delete(&row).Error
}

func (s *ClosureStore[M, N]) DeleteClosuresForDescendant(ctx context.Context, nodeID int64) error {
	var row M
	return dbFrom(ctx, s.db).WithContext(ctx).
		Where("descendant_id = ?", nodeID).
		Delete(&row).Error
}

func (s *ClosureStore[M, N]) FindAncestors(ctx context.Context, nodeID int64, maxLevel int) ([]closure.Record, error) {
	query := dbFrom(ctx, s.db).WithContext(ctx).
		Where("descendant_id = ?", nodeID).
		Order("level ASC, ancestor_id ASC")
	if maxLevel != closure.Unbounded {
		query = query.Where("level <= ?", maxLevel)
	}

	var rows []M
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (s *ClosureStore[M, N]) FindDescendants(ctx context.Context, nodeID int64, maxLevel int) ([]closure.Record, error) {
	query := dbFrom(ctx, s.db).WithContext(ctx).
		Where("ancestor_id = ?", nodeID).
		Order("level ASC, descendant_id ASC")
	if maxLevel != closure.Unbounded {
		query = query.Where("level <= ?", maxLevel)
	}

	var rows []M
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (s *ClosureStore[M, N]) FindChildren(ctx context.Context, nodeID int64) ([]closure.Record, error) {
	var rows []M
	err := dbFrom(ctx, s.db).WithContext(ctx).
		Where("ancestor_id = ? AND level = 1", nodeID).
		Order("descendant_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (s *ClosureStore[M, N]) NodeExists(ctx context.Context, nodeID int64) (bool, error) {
	var count int64
	err := dbFrom(ctx, s.db).WithContext(ctx).
		Model(new(N)).
		Where("id = ?", nodeID).
		Count(&count).Error
	return count > 0, err
}

func (s *ClosureStore[M, N]) DeleteNodes(ctx context.Context, nodeIDs []int64) error {
	if len(nodeIDs) == 0 {
		return nil
	}
	return dbFrom(ctx, s.db).WithContext(ctx).Delete(new(N), nodeIDs).Error
}

// Transaction выполняет fn как одну атомарную операцию;
// вложенные вызовы присоединяются к активной транзакции
func (s *ClosureStore[M, N]) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFrom(ctx, s.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func toRecords[M closure.Model](rows []M) []closure.Record {
	recs := make([]closure.Record, len(rows))
	for i, row := range rows {
		recs[i] = row.Closure()
	}
	return recs
}
