package budget

import (
	"context"
	"fmt"

	"github.com/budgeteer/budgeteer/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	CreatePlan(ctx context.Context, plan Plan) (Plan, error)
	GetPlanByYear(ctx context.Context, year int) (Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	DeletePlan(ctx context.Context, planId int) (bool, error)
	SetItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, itemId int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreatePlan(ctx context.Context, plan Plan) (Plan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}

	if _, err := s.repo.CreatePlan(ctx, userId, plan); err != nil {
		return Plan{}, err
	}
	return s.repo.GetPlanByYear(ctx, userId, plan.Year)
}

func (s *ServiceImpl) GetPlanByYear(ctx context.Context, year int) (Plan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetPlanByYear(ctx, userId, year)
}

func (s *ServiceImpl) ListPlans(ctx context.Context) ([]Plan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListPlans(ctx, userId)
}

func (s *ServiceImpl) DeletePlan(ctx context.Context, planId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.DeletePlan(ctx, userId, planId)
}

func (s *ServiceImpl) SetItem(ctx context.Context, item Item) (Item, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	if item.PlanId == 0 {
		return Item{}, fmt.Errorf("%w: item plan is required", ErrInvalidPlan)
	}

	id, err := s.repo.UpsertItem(ctx, userId, item)
	if err != nil {
		return Item{}, err
	}
	item.Id = id
	return item, nil
}

func (s *ServiceImpl) DeleteItem(ctx context.Context, itemId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.DeleteItem(ctx, userId, itemId)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("item not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", itemId, userId)
	}
	return deleted, nil
}
