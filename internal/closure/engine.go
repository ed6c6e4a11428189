package closure

import (
	"context"
	"errors"
	"fmt"
)

// Engine реализует операции над иерархией, представленной closure-таблицей.
// Пишется один раз и инстанцируется на каждый вид сущности со своим Store.
// Записи между вызовами не кэшируются: хранилище — единственный источник истины.
type Engine struct {
	store Store
}

// NewEngine создаёт новый экземпляр движка поверх хранилища
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// InsertNode включает узел в иерархию: создаёт self-closure и копирует
// всю цепочку предков родителя со смещением уровня на единицу.
// При parentID == nil узел становится корнем.
func (e *Engine) InsertNode(ctx context.Context, nodeID int64, parentID *int64) error {
	if parentID != nil && *parentID == nodeID {
		return ErrSelfParent
	}

	// Наличие self-closure означает, что узел уже в иерархии
	self, err := e.store.FindAncestors(ctx, nodeID, 0)
	if err != nil {
		return storeFail("find self closure", err)
	}
	if len(self) > 0 {
		return ErrDuplicateNode
	}

	var parentAncestors []Record
	if parentID != nil {
		exists, err := e.store.NodeExists(ctx, *parentID)
		if err != nil {
			return storeFail("check parent", err)
		}
		if !exists {
			return ErrParentNotFound
		}

		parentAncestors, err = e.store.FindAncestors(ctx, *parentID, Unbounded)
		if err != nil {
			return storeFail("find parent ancestors", err)
		}
		if len(parentAncestors) == 0 {
			return ErrParentNotFound
		}
	}

	return e.store.Transaction(ctx, func(ctx context.Context) error {
		if err := e.store.InsertClosure(ctx, Record{AncestorID: nodeID, DescendantID: nodeID, Level: 0}); err != nil {
			return storeFail("insert self closure", err)
		}

		for _, anc := range parentAncestors {
			rec := Record{AncestorID: anc.AncestorID, DescendantID: nodeID, Level: anc.Level + 1}
			if err := e.store.InsertClosure(ctx, rec); err != nil {
				return storeFail("insert ancestor closure", err)
			}
		}

		return nil
	})
}

// MoveSubtree перевешивает узел со всеми потомками под нового родителя.
// Внутренние связи поддерева не затрагиваются, меняются только связи
// с внешними предками. При newParentID == nil поддерево отцепляется в корень.
func (e *Engine) MoveSubtree(ctx context.Context, nodeID int64, newParentID *int64) error {
	if newParentID != nil && *newParentID == nodeID {
		return ErrSelfParent
	}

	if err := e.mustExist(ctx, nodeID); err != nil {
		return err
	}

	subtree, err := e.store.FindDescendants(ctx, nodeID, Unbounded)
	if err != nil {
		return storeFail("find subtree", err)
	}
	if len(subtree) == 0 {
		return ErrNodeNotFound
	}

	var newAncestors []Record
	if newParentID != nil {
		exists, err := e.store.NodeExists(ctx, *newParentID)
		if err != nil {
			return storeFail("check new parent", err)
		}
		if !exists {
			return ErrParentNotFound
		}

		// Перенос под собственного потомка создал бы цикл
		for _, member := range subtree {
			if member.DescendantID == *newParentID {
				return ErrCycle
			}
		}

		newAncestors, err = e.store.FindAncestors(ctx, *newParentID, Unbounded)
		if err != nil {
			return storeFail("find new parent ancestors", err)
		}
		if len(newAncestors) == 0 {
			return ErrParentNotFound
		}
	}

	oldAncestors, err := e.store.FindAncestors(ctx, nodeID, Unbounded)
	if err != nil {
		return storeFail("find old ancestors", err)
	}

	return e.store.Transaction(ctx, func(ctx context.Context) error {
		// Отцепляем поддерево от старой цепочки предков
		for _, anc := range oldAncestors {
			if anc.Level == 0 {
				continue
			}
			for _, member := range subtree {
				if err := e.store.DeleteClosure(ctx, anc.AncestorID, member.DescendantID); err != nil {
					return storeFail("detach subtree", err)
				}
			}
		}

		// Подвешиваем каждый узел поддерева под всех предков нового родителя
		for _, anc := range newAncestors {
			for _, member := range subtree {
				rec := Record{
					AncestorID:   anc.AncestorID,
					DescendantID: member.DescendantID,
					Level:        anc.Level + 1 + member.Level,
				}
				if err := e.store.InsertClosure(ctx, rec); err != nil {
					return storeFail("attach subtree", err)
				}
			}
		}

		return nil
	})
}

// DeleteSubtree удаляет узел и всех его потомков вместе со строками узлов.
// Частичное поддерево остаться не может: операция выполняется в одной транзакции.
func (e *Engine) DeleteSubtree(ctx context.Context, nodeID int64) error {
	if err := e.mustExist(ctx, nodeID); err != nil {
		return err
	}

	subtree, err := e.store.FindDescendants(ctx, nodeID, Unbounded)
	if err != nil {
		return storeFail("find subtree", err)
	}
	if len(subtree) == 0 {
		return ErrNodeNotFound
	}

	return e.store.Transaction(ctx, func(ctx context.Context) error {
		// Удаление descendant-строк каждого участника покрывает и его
		// ancestor-строки: потомки участника сами входят в поддерево
		ids := make([]int64, 0, len(subtree))
		for _, member := range subtree {
			if err := e.store.DeleteClosuresForDescendant(ctx, member.DescendantID); err != nil {
				return storeFail("delete closures", err)
			}
			ids = append(ids, member.DescendantID)
		}

		if err := e.store.DeleteNodes(ctx, ids); err != nil {
			return storeFail("delete nodes", err)
		}

		return nil
	})
}

// Ancestors возвращает цепочку предков узла по возрастанию уровня,
// включая self-closure. maxLevel ограничивает глубину (Unbounded — без ограничения).
func (e *Engine) Ancestors(ctx context.Context, nodeID int64, maxLevel int) ([]Record, error) {
	if err := e.mustExist(ctx, nodeID); err != nil {
		return nil, err
	}

	recs, err := e.store.FindAncestors(ctx, nodeID, maxLevel)
	if err != nil {
		return nil, storeFail("find ancestors", err)
	}
	return recs, nil
}

// Descendants возвращает всех потомков узла по возрастанию уровня,
// включая self-closure. maxLevel ограничивает глубину (Unbounded — без ограничения).
func (e *Engine) Descendants(ctx context.Context, nodeID int64, maxLevel int) ([]Record, error) {
	if err := e.mustExist(ctx, nodeID); err != nil {
		return nil, err
	}

	recs, err := e.store.FindDescendants(ctx, nodeID, maxLevel)
	if err != nil {
		return nil, storeFail("find descendants", err)
	}
	return recs, nil
}

// Children возвращает прямых детей узла
func (e *Engine) Children(ctx context.Context, nodeID int64) ([]Record, error) {
	if err := e.mustExist(ctx, nodeID); err != nil {
		return nil, err
	}

	recs, err := e.store.FindChildren(ctx, nodeID)
	if err != nil {
		return nil, storeFail("find children", err)
	}
	return recs, nil
}

func (e *Engine) mustExist(ctx context.Context, nodeID int64) error {
	exists, err := e.store.NodeExists(ctx, nodeID)
	if err != nil {
		return storeFail("check node", err)
	}
	if !exists {
		return ErrNodeNotFound
	}
	return nil
}

// storeFail оборачивает ошибку хранилища в ErrStore, не маскируя причину.
// Ошибки таксономии движка пропускаются как есть.
func storeFail(op string, err error) error {
	if errors.Is(err, ErrDuplicateClosure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
