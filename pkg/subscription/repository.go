package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type Repository interface {
	Store(ctx context.Context, userId int, sub Subscription) (int, error)
	Get(ctx context.Context, userId int, subId int) (Subscription, error)
	GetAll(ctx context.Context, userId int) ([]Subscription, error)
	Update(ctx context.Context, userId int, sub Subscription) (bool, error)
	Delete(ctx context.Context, userId int, subId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const subscriptionColumns = `id, uid, provider, plan, amount, frequency, start_date, is_active, created_at`

func (r *RepositoryImpl) Store(ctx context.Context, userId int, sub Subscription) (int, error) {
	query := `INSERT INTO subscriptions (uid, provider, plan, amount, frequency, start_date, is_active, user_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		sub.Uid,
		sub.Provider,
		sub.Plan,
		sub.Amount.String(),
		sub.Frequency,
		sub.StartDate.Format("2006-01-02"),
		sub.IsActive,
		userId,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store subscription: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, subId int) (Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, subId, userId)
	sub, err := scanSubscription(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, ErrSubscriptionNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get subscription: %w", err)
		log.Error(err)
		return Subscription{}, err
	}
	return sub, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY provider`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query subscriptions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan subscription: %w", err)
			log.Error(err)
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, sub Subscription) (bool, error) {
	query := `UPDATE subscriptions SET provider = $1, plan = $2, amount = $3, frequency = $4, start_date = $5, is_active = $6
				WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(ctx, query,
		sub.Provider,
		sub.Plan,
		sub.Amount.String(),
		sub.Frequency,
		sub.StartDate.Format("2006-01-02"),
		sub.IsActive,
		sub.Id,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update subscription: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, subId int) (bool, error) {
	query := `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, subId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete subscription: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func scanSubscription(scan func(dest ...any) error) (Subscription, error) {
	var sub Subscription
	var amount string
	if err := scan(
		&sub.Id,
		&sub.Uid,
		&sub.Provider,
		&sub.Plan,
		&amount,
		&sub.Frequency,
		&sub.StartDate,
		&sub.IsActive,
		&sub.CreatedAt,
	); err != nil {
		return Subscription{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Subscription{}, fmt.Errorf("could not parse amount: %w", err)
	}
	sub.Amount = parsed
	return sub, nil
}
