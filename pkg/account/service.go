package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgeteer/budgeteer/pkg/user"
)

var ErrInvalidAccount = errors.New("invalid account")

type Service interface {
	Create(ctx context.Context, account Account) (Account, error)
	Get(ctx context.Context, id int) (Balance, error)
	GetAll(ctx context.Context) ([]Balance, error)
	Update(ctx context.Context, account Account) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, account Account) (Account, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(account); err != nil {
		return Account{}, err
	}

	id, err := s.repo.Store(ctx, userId, account)
	if err != nil {
		return Account{}, err
	}
	account.Id = id
	return account, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Balance, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Balance{}, fmt.Errorf("failed to get current user: %w", err)
	}
	account, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return Balance{}, err
	}
	current, err := s.repo.CurrentBalance(ctx, userId, id)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Account: account, Current: current}, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Balance, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	accounts, err := s.repo.GetAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(accounts))
	for _, account := range accounts {
		current, err := s.repo.CurrentBalance(ctx, userId, account.Id)
		if err != nil {
			return nil, err
		}
		balances = append(balances, Balance{Account: account, Current: current})
	}
	return balances, nil
}

func (s *ServiceImpl) Update(ctx context.Context, account Account) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(account); err != nil {
		return false, err
	}
	return s.repo.Update(ctx, userId, account)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}

func validate(account Account) error {
	if account.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAccount)
	}
	if !account.Kind.Valid() {
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidAccount, account.Kind)
	}
	return nil
}
