package service

import (
	"context"
	"errors"
	"strings"

	"github.com/org-hierarchy-api/internal/cache"
	"github.com/org-hierarchy-api/internal/closure"
	"github.com/org-hierarchy-api/internal/domain"
	"github.com/org-hierarchy-api/internal/dto"
	"github.com/org-hierarchy-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для подразделений
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	GetByID(ctx context.Context, id int64, query *dto.GetDepartmentQuery) (*dto.DepartmentResponse, error)
	GetAncestors(ctx context.Context, id int64) ([]dto.AncestorResponse, error)
	GetChildren(ctx context.Context, id int64) ([]dto.DepartmentResponse, error)
	GetTree(ctx context.Context) ([]dto.DepartmentTreeNode, error)
	Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error)
	Delete(ctx context.Context, id int64, query *dto.DeleteDepartmentQuery) error
}

type departmentService struct {
	deptRepo  repository.DepartmentRepository
	empRepo   repository.EmployeeRepository
	engine    *closure.Engine
	tx        repository.Transactor
	treeCache cache.Provider
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(
	deptRepo repository.DepartmentRepository,
	empRepo repository.EmployeeRepository,
	engine *closure.Engine,
	tx repository.Transactor,
	treeCache cache.Provider,
) DepartmentService {
	return &departmentService{
		deptRepo:  deptRepo,
		empRepo:   empRepo,
		engine:    engine,
		tx:        tx,
		treeCache: treeCache,
	}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	name := strings.TrimSpace(req.Name)

	// Проверяем уникальность имени в пределах родителя;
	// существование родителя проверит движок
	exists, err := s.deptRepo.ExistsByNameAndParent(ctx, name, req.ParentID, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateDepartmentName
	}

	dept := &domain.Department{
		Name:     name,
		ParentID: req.ParentID,
	}

	// Строка узла и его closure-записи появляются атомарно
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.deptRepo.Create(ctx, dept); err != nil {
			return err
		}
		return s.engine.InsertNode(ctx, dept.ID, req.ParentID)
	})
	if err != nil {
		return nil, err
	}

	s.treeCache.Invalidate(ctx)
	return dept, nil
}

func (s *departmentService) GetByID(ctx context.Context, id int64, query *dto.GetDepartmentQuery) (*dto.DepartmentResponse, error) {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	tree, err := s.engine.Subtree(ctx, id, query.Depth)
	if err != nil {
		return nil, err
	}

	ids := collectTreeIDs(tree)
	depts, err := s.departmentsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	var empsByDept map[int64][]domain.Employee
	if query.IncludeEmployees {
		employees, err := s.empRepo.GetByDepartmentIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		empsByDept = make(map[int64][]domain.Employee)
		for _, emp := range employees {
			empsByDept[emp.DepartmentID] = append(empsByDept[emp.DepartmentID], emp)
		}
	}

	resp := s.buildResponse(tree, depts, empsByDept)
	return &resp, nil
}

func (s *departmentService) GetAncestors(ctx context.Context, id int64) ([]dto.AncestorResponse, error) {
	recs, err := s.engine.Ancestors(ctx, id, closure.Unbounded)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(recs))
	for i, rec := range recs {
		ids[i] = rec.AncestorID
	}

	depts, err := s.departmentsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AncestorResponse, len(recs))
	for i, rec := range recs {
		result[i] = dto.AncestorResponse{
			ID:    rec.AncestorID,
			Name:  depts[rec.AncestorID].Name,
			Level: rec.Level,
		}
	}
	return result, nil
}

func (s *departmentService) GetChildren(ctx context.Context, id int64) ([]dto.DepartmentResponse, error) {
	recs, err := s.engine.Children(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(recs))
	for i, rec := range recs {
		ids[i] = rec.DescendantID
	}

	depts, err := s.departmentsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(recs))
	for _, rec := range recs {
		dept := depts[rec.DescendantID]
		result = append(result, dto.DepartmentResponse{
			ID:        dept.ID,
			Name:      dept.Name,
			ParentID:  dept.ParentID,
			CreatedAt: dept.CreatedAt,
		})
	}
	return result, nil
}

func (s *departmentService) GetTree(ctx context.Context) ([]dto.DepartmentTreeNode, error) {
	if tree, ok := s.treeCache.GetTree(ctx); ok {
		return tree, nil
	}

	roots, err := s.deptRepo.ListRoots(ctx)
	if err != nil {
		return nil, err
	}

	forest := make([]dto.DepartmentTreeNode, 0, len(roots))
	for _, root := range roots {
		subtree, err := s.engine.Subtree(ctx, root.ID, closure.Unbounded)
		if err != nil {
			return nil, err
		}

		depts, err := s.departmentsByID(ctx, collectTreeIDs(subtree))
		if err != nil {
			return nil, err
		}
		forest = append(forest, buildTreeNode(subtree, depts))
	}

	s.treeCache.SetTree(ctx, forest)
	return forest, nil
}

func (s *departmentService) Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Целевой родитель после обновления
	targetParent := dept.ParentID
	moving := false
	if req.DetachToRoot {
		targetParent = nil
		moving = true
	} else if req.ParentID != nil {
		targetParent = req.ParentID
		moving = true
	}

	// Проверяем уникальность имени в пределах целевого родителя
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		exists, err := s.deptRepo.ExistsByNameAndParent(ctx, name, targetParent, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateDepartmentName
		}
		dept.Name = name
	} else if moving {
		exists, err := s.deptRepo.ExistsByNameAndParent(ctx, dept.Name, targetParent, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateDepartmentName
		}
	}

	// Самоссылку, цикл и отсутствие нового родителя проверяет движок
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if moving {
			if err := s.engine.MoveSubtree(ctx, id, targetParent); err != nil {
				return err
			}
			dept.ParentID = targetParent
		}
		return s.deptRepo.Update(ctx, dept)
	})
	if err != nil {
		return nil, err
	}

	s.treeCache.Invalidate(ctx)
	return dept, nil
}

func (s *departmentService) Delete(ctx context.Context, id int64, query *dto.DeleteDepartmentQuery) error {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return err
	}

	switch query.Mode {
	case "cascade":
		// Сотрудники удаляются каскадом по внешнему ключу
		if err := s.engine.DeleteSubtree(ctx, id); err != nil {
			return err
		}

	case "reassign":
		if query.ReassignToDepartmentID == nil {
			return domain.ErrReassignTargetRequired
		}

		targetID := *query.ReassignToDepartmentID
		if targetID == id {
			return domain.ErrCannotReassignToSelf
		}

		if _, err := s.deptRepo.GetByID(ctx, targetID); err != nil {
			if errors.Is(err, domain.ErrDepartmentNotFound) {
				return domain.ErrReassignTargetNotFound
			}
			return err
		}

		members, err := s.engine.Descendants(ctx, id, closure.Unbounded)
		if err != nil {
			return err
		}

		// Целевой узел не должен входить в удаляемое поддерево
		for _, member := range members {
			if member.DescendantID == targetID {
				return domain.ErrCannotReassignToSelf
			}
		}

		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			for _, member := range members {
				if err := s.empRepo.ReassignToDepartment(ctx, member.DescendantID, targetID); err != nil {
					return err
				}
			}
			return s.engine.DeleteSubtree(ctx, id)
		})
		if err != nil {
			return err
		}

	default:
		return domain.ErrInvalidDeleteMode
	}

	s.treeCache.Invalidate(ctx)
	return nil
}

func (s *departmentService) departmentsByID(ctx context.Context, ids []int64) (map[int64]domain.Department, error) {
	depts, err := s.deptRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Department, len(depts))
	for _, dept := range depts {
		byID[dept.ID] = dept
	}
	return byID, nil
}

func (s *departmentService) buildResponse(t *closure.Tree, depts map[int64]domain.Department, empsByDept map[int64][]domain.Employee) dto.DepartmentResponse {
	dept := depts[t.NodeID]
	resp := dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		ParentID:  dept.ParentID,
		CreatedAt: dept.CreatedAt,
	}

	for _, emp := range empsByDept[t.NodeID] {
		resp.Employees = append(resp.Employees, employeeResponse(&emp))
	}

	for _, child := range t.Children {
		resp.Children = append(resp.Children, s.buildResponse(child, depts, empsByDept))
	}

	return resp
}

func buildTreeNode(t *closure.Tree, depts map[int64]domain.Department) dto.DepartmentTreeNode {
	node := dto.DepartmentTreeNode{
		ID:   t.NodeID,
		Name: depts[t.NodeID].Name,
	}
	for _, child := range t.Children {
		node.Children = append(node.Children, buildTreeNode(child, depts))
	}
	return node
}

func collectTreeIDs(t *closure.Tree) []int64 {
	ids := []int64{t.NodeID}
	for _, child := range t.Children {
		ids = append(ids, collectTreeIDs(child)...)
	}
	return ids
}

func employeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:           emp.ID,
		DepartmentID: emp.DepartmentID,
		FullName:     emp.FullName,
		Position:     emp.Position,
		CreatedAt:    emp.CreatedAt,
	}
	if emp.HiredAt != nil {
		hiredAt := emp.HiredAt.Format("2006-01-02")
		resp.HiredAt = &hiredAt
	}
	return resp
}
