package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/google/uuid"
)

var ErrInvalidTransaction = errors.New("invalid transaction")

type Service interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	Get(ctx context.Context, id int) (Transaction, error)
	Find(ctx context.Context, filter Filter) ([]Transaction, error)
	// FindByMonth lists all entries dated within one calendar month.
	FindByMonth(ctx context.Context, year int, month time.Month) ([]Transaction, error)
	Update(ctx context.Context, tx Transaction) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return Transaction{}, err
	}
	tx.Uid = uuid.NewString()
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	id, err := s.repo.Store(ctx, userId, tx)
	if err != nil {
		return Transaction{}, err
	}
	tx.Id = id
	return tx, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Find(ctx context.Context, filter Filter) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Find(ctx, userId, filter)
}

func (s *ServiceImpl) FindByMonth(ctx context.Context, year int, month time.Month) ([]Transaction, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return s.Find(ctx, Filter{From: from, To: to})
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return false, err
	}
	return s.repo.Update(ctx, userId, tx)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}

func validate(tx Transaction) error {
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidTransaction, tx.Type)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransaction)
	}
	if tx.CategoryId == 0 {
		return fmt.Errorf("%w: category is required", ErrInvalidTransaction)
	}
	if tx.AccountId == 0 {
		return fmt.Errorf("%w: account is required", ErrInvalidTransaction)
	}
	return nil
}
