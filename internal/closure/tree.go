package closure

import (
	"context"
	"sort"
)

// Tree — поддерево, восстановленное из плоского списка closure-записей.
// Level отсчитывается от корня запрошенного поддерева.
type Tree struct {
	NodeID   int64
	Level    int
	Children []*Tree
}

// Subtree возвращает поддерево узла глубиной до maxLevel (Unbounded — целиком).
// Прямого родителя внутри выборки определяет closure-запись уровня 1.
func (e *Engine) Subtree(ctx context.Context, nodeID int64, maxLevel int) (*Tree, error) {
	if err := e.mustExist(ctx, nodeID); err != nil {
		return nil, err
	}

	recs, err := e.store.FindDescendants(ctx, nodeID, maxLevel)
	if err != nil {
		return nil, storeFail("find descendants", err)
	}
	if len(recs) == 0 {
		return nil, ErrNodeNotFound
	}

	nodes := make(map[int64]*Tree, len(recs))
	for _, rec := range recs {
		nodes[rec.DescendantID] = &Tree{NodeID: rec.DescendantID, Level: rec.Level}
	}

	for _, rec := range recs {
		if rec.Level == 0 {
			continue
		}
		parents, err := e.store.FindAncestors(ctx, rec.DescendantID, 1)
		if err != nil {
			return nil, storeFail("find parent", err)
		}
		for _, p := range parents {
			if p.Level != 1 {
				continue
			}
			if parent, ok := nodes[p.AncestorID]; ok {
				parent.Children = append(parent.Children, nodes[rec.DescendantID])
			}
		}
	}

	root := nodes[nodeID]
	sortTree(root)
	return root, nil
}

func sortTree(t *Tree) {
	sort.Slice(t.Children, func(i, j int) bool {
		return t.Children[i].NodeID < t.Children[j].NodeID
	})
	for _, child := range t.Children {
		sortTree(child)
	}
}
