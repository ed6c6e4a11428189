package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/org-hierarchy-api/internal/closure"
	"github.com/org-hierarchy-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Одно соединение, иначе каждое получит свою пустую in-memory базу
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Department{},
		&domain.Employee{},
		&domain.DepartmentClosure{},
	))

	return db
}

func newDeptStore(db *gorm.DB) *ClosureStore[domain.DepartmentClosure, domain.Department] {
	return NewClosureStore[domain.DepartmentClosure, domain.Department](db, domain.DepartmentClosureFactory{})
}

func createDepartment(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	dept := domain.Department{Name: name}
	require.NoError(t, db.Create(&dept).Error)
	return dept.ID
}

func TestClosureStore_InsertDuplicate(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	ctx := context.Background()

	rec := closure.Record{AncestorID: 1, DescendantID: 1, Level: 0}
	require.NoError(t, store.InsertClosure(ctx, rec))

	err := store.InsertClosure(ctx, rec)
	require.ErrorIs(t, err, closure.ErrDuplicateClosure)
}

func TestClosureStore_FindAncestors(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	ctx := context.Background()

	for _, rec := range []closure.Record{
		{AncestorID: 3, DescendantID: 3, Level: 0},
		{AncestorID: 2, DescendantID: 3, Level: 1},
		{AncestorID: 1, DescendantID: 3, Level: 2},
		{AncestorID: 1, DescendantID: 1, Level: 0},
	} {
		require.NoError(t, store.InsertClosure(ctx, rec))
	}

	recs, err := store.FindAncestors(ctx, 3, closure.Unbounded)
	require.NoError(t, err)
	require.Equal(t, []closure.Record{
		{AncestorID: 3, DescendantID: 3, Level: 0},
		{AncestorID: 2, DescendantID: 3, Level: 1},
		{AncestorID: 1, DescendantID: 3, Level: 2},
	}, recs)

	recs, err = store.FindAncestors(ctx, 3, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestClosureStore_FindDescendantsAndChildren(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	ctx := context.Background()

	for _, rec := range []closure.Record{
		{AncestorID: 1, DescendantID: 1, Level: 0},
		{AncestorID: 1, DescendantID: 2, Level: 1},
		{AncestorID: 1, DescendantID: 4, Level: 1},
		{AncestorID: 1, DescendantID: 3, Level: 2},
	} {
		require.NoError(t, store.InsertClosure(ctx, rec))
	}

	recs, err := store.FindDescendants(ctx, 1, closure.Unbounded)
	require.NoError(t, err)
	require.Equal(t, []closure.Record{
		{AncestorID: 1, DescendantID: 1, Level: 0},
		{AncestorID: 1, DescendantID: 2, Level: 1},
		{AncestorID: 1, DescendantID: 4, Level: 1},
		{AncestorID: 1, DescendantID: 3, Level: 2},
	}, recs)

	children, err := store.FindChildren(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []closure.Record{
		{AncestorID: 1, DescendantID: 2, Level: 1},
		{AncestorID: 1, DescendantID: 4, Level: 1},
	}, children)
}

func TestClosureStore_Delete(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	ctx := context.Background()

	for _, rec := range []closure.Record{
		{AncestorID: 1, DescendantID: 2, Level: 1},
		{AncestorID: 2, DescendantID: 2, Level: 0},
		{AncestorID: 2, DescendantID: 3, Level: 1},
	} {
		require.NoError(t, store.InsertClosure(ctx, rec))
	}

	require.NoError(t, store.DeleteClosure(ctx, 1, 2))
	recs, err := store.FindAncestors(ctx, 2, closure.Unbounded)
	require.NoError(t, err)
	require.Equal(t, []closure.Record{{AncestorID: 2, DescendantID: 2, Level: 0}}, recs)

	require.NoError(t, store.DeleteClosuresForDescendant(ctx, 2))
	recs, err = store.FindAncestors(ctx, 2, closure.Unbounded)
	require.NoError(t, err)
	require.Empty(t, recs)

	// Записи других потомков не тронуты
	recs, err = store.FindAncestors(ctx, 3, closure.Unbounded)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestClosureStore_NodeExistsAndDeleteNodes(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	ctx := context.Background()

	id := createDepartment(t, db, "Engineering")

	exists, err := store.NodeExists(ctx, id)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = store.NodeExists(ctx, id+100)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.DeleteNodes(ctx, []int64{id}))
	exists, err = store.NodeExists(ctx, id)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClosureStore_TransactionRollback(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(ctx context.Context) error {
		if err := store.InsertClosure(ctx, closure.Record{AncestorID: 1, DescendantID: 1, Level: 0}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	recs, err := store.FindAncestors(ctx, 1, closure.Unbounded)
	require.NoError(t, err)
	require.Empty(t, recs)
}

// Движок поверх реального хранилища: вставка, перенос и каскадное удаление
func TestEngineOverClosureStore(t *testing.T) {
	db := setupDB(t)
	store := newDeptStore(db)
	engine := closure.NewEngine(store)
	ctx := context.Background()

	root := createDepartment(t, db, "Root")
	eng := createDepartment(t, db, "Engineering")
	backend := createDepartment(t, db, "Backend")
	ops := createDepartment(t, db, "Operations")

	require.NoError(t, engine.InsertNode(ctx, root, nil))
	require.NoError(t, engine.InsertNode(ctx, eng, &root))
	require.NoError(t, engine.InsertNode(ctx, backend, &eng))
	require.NoError(t, engine.InsertNode(ctx, ops, &root))

	// Перенос Engineering (с Backend) под Operations
	require.NoError(t, engine.MoveSubtree(ctx, eng, &ops))

	recs, err := engine.Ancestors(ctx, backend, closure.Unbounded)
	require.NoError(t, err)
	require.Equal(t, []closure.Record{
		{AncestorID: backend, DescendantID: backend, Level: 0},
		{AncestorID: eng, DescendantID: backend, Level: 1},
		{AncestorID: ops, DescendantID: backend, Level: 2},
		{AncestorID: root, DescendantID: backend, Level: 3},
	}, recs)

	// Каскадное удаление поддерева вместе со строками узлов
	require.NoError(t, engine.DeleteSubtree(ctx, eng))

	exists, err := store.NodeExists(ctx, backend)
	require.NoError(t, err)
	require.False(t, exists)

	recs, err = engine.Descendants(ctx, root, closure.Unbounded)
	require.NoError(t, err)
	require.Equal(t, []closure.Record{
		{AncestorID: root, DescendantID: root, Level: 0},
		{AncestorID: root, DescendantID: ops, Level: 1},
	}, recs)
}
