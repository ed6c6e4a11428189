package repository

import (
	"context"

	"github.com/org-hierarchy-api/internal/domain"
	"gorm.io/gorm"
)

// DepartmentRepository определяет интерфейс для работы с атрибутами подразделений.
// Обход иерархии — ответственность closure-движка, не репозитория.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Department, error)
	ListRoots(ctx context.Context) ([]domain.Department, error)
	Update(ctx context.Context, dept *domain.Department) error
	ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(dept).Error
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&dept, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var depts []domain.Department
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) ListRoots(ctx context.Context) ([]domain.Department, error) {
	var depts []domain.Department
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("parent_id IS NULL").
		Order("id ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(dept).Error
}

func (r *departmentRepository) ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error) {
	var count int64
	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&domain.Department{}).Where("name = ?", name)

	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}
