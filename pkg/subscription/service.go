package subscription

import (
	"context"
	"fmt"

	"github.com/budgeteer/budgeteer/internal/utils"
	"github.com/budgeteer/budgeteer/pkg/recurring"
	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, sub Subscription) (Subscription, error)
	Get(ctx context.Context, id int) (Subscription, error)
	// GetAll decorates every subscription with its next billing date.
	GetAll(ctx context.Context) ([]View, error)
	Update(ctx context.Context, sub Subscription) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, sub Subscription) (Subscription, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := sub.Validate(); err != nil {
		return Subscription{}, err
	}
	sub.Uid = uuid.NewString()

	id, err := s.repo.Store(ctx, userId, sub)
	if err != nil {
		return Subscription{}, err
	}
	sub.Id = id
	return sub, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Subscription, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]View, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	subs, err := s.repo.GetAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	today := utils.Today(s.clock)
	views := make([]View, 0, len(subs))
	for _, sub := range subs {
		view := View{Subscription: sub}
		if next, ok := recurring.NextOccurrenceOnOrAfter(sub.asRule(), today); ok {
			view.NextBilling = next
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ServiceImpl) Update(ctx context.Context, sub Subscription) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := sub.Validate(); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, userId, sub)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("subscription not updated, probably because it does not exist (%d) or the user (%d) is not the owner", sub.Id, userId)
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}
