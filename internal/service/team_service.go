package service

import (
	"context"
	"strings"

	"github.com/org-hierarchy-api/internal/closure"
	"github.com/org-hierarchy-api/internal/domain"
	"github.com/org-hierarchy-api/internal/dto"
	"github.com/org-hierarchy-api/internal/repository"
)

// TeamService определяет интерфейс бизнес-логики для команд.
// Работает с тем же движком иерархии, что и подразделения,
// но через собственные фабрику и хранилище closure-записей.
type TeamService interface {
	Create(ctx context.Context, req *dto.CreateTeamRequest) (*domain.Team, error)
	GetByID(ctx context.Context, id int64, query *dto.GetTeamQuery) (*dto.TeamResponse, error)
	GetAncestors(ctx context.Context, id int64) ([]dto.AncestorResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTeamRequest) (*domain.Team, error)
	Delete(ctx context.Context, id int64) error
}

type teamService struct {
	teamRepo repository.TeamRepository
	engine   *closure.Engine
	tx       repository.Transactor
}

// NewTeamService создаёт новый экземпляр сервиса
func NewTeamService(teamRepo repository.TeamRepository, engine *closure.Engine, tx repository.Transactor) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		engine:   engine,
		tx:       tx,
	}
}

func (s *teamService) Create(ctx context.Context, req *dto.CreateTeamRequest) (*domain.Team, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.teamRepo.ExistsByNameAndParent(ctx, name, req.ParentID, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateTeamName
	}

	team := &domain.Team{
		Name:     name,
		Lead:     strings.TrimSpace(req.Lead),
		ParentID: req.ParentID,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.teamRepo.Create(ctx, team); err != nil {
			return err
		}
		return s.engine.InsertNode(ctx, team.ID, req.ParentID)
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int64, query *dto.GetTeamQuery) (*dto.TeamResponse, error) {
	if _, err := s.teamRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	tree, err := s.engine.Subtree(ctx, id, query.Depth)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamsByID(ctx, collectTreeIDs(tree))
	if err != nil {
		return nil, err
	}

	resp := buildTeamResponse(tree, teams)
	return &resp, nil
}

func (s *teamService) GetAncestors(ctx context.Context, id int64) ([]dto.AncestorResponse, error) {
	recs, err := s.engine.Ancestors(ctx, id, closure.Unbounded)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(recs))
	for i, rec := range recs {
		ids[i] = rec.AncestorID
	}

	teams, err := s.teamsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AncestorResponse, len(recs))
	for i, rec := range recs {
		result[i] = dto.AncestorResponse{
			ID:    rec.AncestorID,
			Name:  teams[rec.AncestorID].Name,
			Level: rec.Level,
		}
	}
	return result, nil
}

func (s *teamService) Update(ctx context.Context, id int64, req *dto.UpdateTeamRequest) (*domain.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	targetParent := team.ParentID
	moving := false
	if req.DetachToRoot {
		targetParent = nil
		moving = true
	} else if req.ParentID != nil {
		targetParent = req.ParentID
		moving = true
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		exists, err := s.teamRepo.ExistsByNameAndParent(ctx, name, targetParent, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateTeamName
		}
		team.Name = name
	} else if moving {
		exists, err := s.teamRepo.ExistsByNameAndParent(ctx, team.Name, targetParent, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateTeamName
		}
	}

	if req.Lead != nil {
		team.Lead = strings.TrimSpace(*req.Lead)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if moving {
			if err := s.engine.MoveSubtree(ctx, id, targetParent); err != nil {
				return err
			}
			team.ParentID = targetParent
		}
		return s.teamRepo.Update(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int64) error {
	if _, err := s.teamRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.engine.DeleteSubtree(ctx, id)
}

func (s *teamService) teamsByID(ctx context.Context, ids []int64) (map[int64]domain.Team, error) {
	teams, err := s.teamRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	return byID, nil
}

func buildTeamResponse(t *closure.Tree, teams map[int64]domain.Team) dto.TeamResponse {
	team := teams[t.NodeID]
	resp := dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		Lead:      team.Lead,
		ParentID:  team.ParentID,
		CreatedAt: team.CreatedAt,
	}
	for _, child := range t.Children {
		resp.Children = append(resp.Children, buildTeamResponse(child, teams))
	}
	return resp
}
