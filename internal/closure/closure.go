package closure

import (
	"context"
)

// Unbounded снимает ограничение глубины при выборке предков и потомков.
const Unbounded = -1

// Record описывает факт "предок находится на расстоянии Level над потомком".
// Запись с Level = 0 — обязательная self-closure каждого узла иерархии.
type Record struct {
	AncestorID   int64
	DescendantID int64
	Level        int
}

// Model — персистентная closure-запись конкретного вида сущности
type Model interface {
	Closure() Record
}

// Factory создаёт closure-записи конкретного вида сущности.
// Чистый конструктор без побочных эффектов и валидации:
// семантическую корректность проверяет Engine.
type Factory[M Model] interface {
	New(ancestorID, descendantID int64, level int) M
}

// Store определяет операции хранилища, необходимые Engine.
// На каждый вид сущности создаётся отдельное хранилище.
type Store interface {
	// InsertClosure сохраняет одну closure-запись.
	// Возвращает ErrDuplicateClosure, если пара (предок, потомок) уже существует.
	InsertClosure(ctx context.Context, rec Record) error

	// DeleteClosure удаляет запись для конкретной пары (предок, потомок)
	DeleteClosure(ctx context.Context, ancestorID, descendantID int64) error

	// DeleteClosuresForDescendant удаляет все записи, где узел является потомком
	DeleteClosuresForDescendant(ctx context.Context, nodeID int64) error

	// FindAncestors возвращает записи, где узел является потомком,
	// с level <= maxLevel (Unbounded — без ограничения), по возрастанию level
	FindAncestors(ctx context.Context, nodeID int64, maxLevel int) ([]Record, error)

	// FindDescendants возвращает записи, где узел является предком,
	// с level <= maxLevel (Unbounded — без ограничения), по возрастанию level
	FindDescendants(ctx context.Context, nodeID int64, maxLevel int) ([]Record, error)

	// FindChildren возвращает записи прямых детей узла (level = 1)
	FindChildren(ctx context.Context, nodeID int64) ([]Record, error)

	// NodeExists проверяет существование строки узла в таблице сущностей
	NodeExists(ctx context.Context, nodeID int64) (bool, error)

	// DeleteNodes удаляет строки узлов; используется при каскадном удалении поддерева
	DeleteNodes(ctx context.Context, nodeIDs []int64) error

	// Transaction выполняет fn как одну атомарную операцию над хранилищем.
	// Вложенные вызовы присоединяются к активной транзакции.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
