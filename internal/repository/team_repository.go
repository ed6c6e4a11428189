package repository

import (
	"context"

	"github.com/org-hierarchy-api/internal/domain"
	"gorm.io/gorm"
)

// TeamRepository определяет интерфейс для работы с атрибутами команд
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id int64) (*domain.Team, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository создаёт новый экземпляр репозитория
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	var team domain.Team
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&team, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teams []domain.Team
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&teams).Error
	return teams, err
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(team).Error
}

func (r *teamRepository) ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error) {
	var count int64
	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&domain.Team{}).Where("name = ?", name)

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
