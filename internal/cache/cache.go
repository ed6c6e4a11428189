package cache

import (
	"context"

	"github.com/org-hierarchy-api/internal/dto"
)

// Provider кэширует собранное дерево подразделений.
// Кэш сбрасывается целиком при любой мутации иерархии.
type Provider interface {
	// GetTree возвращает дерево из кэша и признак попадания
	GetTree(ctx context.Context) ([]dto.DepartmentTreeNode, bool)

	// SetTree сохраняет дерево в кэш
	SetTree(ctx context.Context, tree []dto.DepartmentTreeNode)

	// Invalidate удаляет дерево из кэша
	Invalidate(ctx context.Context)
}
