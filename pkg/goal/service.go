package goal

import (
	"context"
	"fmt"

	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, goal Goal) (Goal, error)
	Get(ctx context.Context, id int) (Goal, error)
	GetAll(ctx context.Context) ([]Goal, error)
	Update(ctx context.Context, goal Goal) (bool, error)
	// Contribute adds the amount to the goal's saved total and returns the
	// updated goal.
	Contribute(ctx context.Context, id int, amount decimal.Decimal) (Goal, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, goal Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := goal.Validate(); err != nil {
		return Goal{}, err
	}
	goal.Uid = uuid.NewString()

	id, err := s.repo.Store(ctx, userId, goal)
	if err != nil {
		return Goal{}, err
	}
	goal.Id = id
	return goal, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

// Update edits name, target amount and target date. The saved amount only
// changes through Contribute.
func (s *ServiceImpl) Update(ctx context.Context, goal Goal) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := goal.Validate(); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, userId, goal)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("goal not updated, probably because it does not exist (%d) or the user (%d) is not the owner", goal.Id, userId)
	}
	return updated, nil
}

func (s *ServiceImpl) Contribute(ctx context.Context, id int, amount decimal.Decimal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !amount.IsPositive() {
		return Goal{}, fmt.Errorf("%w: contribution must be greater than zero", ErrInvalidGoal)
	}

	ok, err := s.repo.AddContribution(ctx, userId, id, amount)
	if err != nil {
		return Goal{}, err
	}
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}
