package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repository interface {
	Store(ctx context.Context, userId int, goal Goal) (int, error)
	Get(ctx context.Context, userId int, goalId int) (Goal, error)
	GetAll(ctx context.Context, userId int) ([]Goal, error)
	Update(ctx context.Context, userId int, goal Goal) (bool, error)
	// AddContribution atomically increases the goal's saved amount.
	AddContribution(ctx context.Context, userId int, goalId int, amount decimal.Decimal) (bool, error)
	Delete(ctx context.Context, userId int, goalId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const goalColumns = `id, uid, name, target_amount, saved_amount, target_date, created_at`

func (r *RepositoryImpl) Store(ctx context.Context, userId int, goal Goal) (int, error) {
	query := `INSERT INTO goals (uid, name, target_amount, saved_amount, target_date, user_id)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		goal.Uid,
		goal.Name,
		goal.TargetAmount.String(),
		goal.SavedAmount.String(),
		targetDateParam(goal),
		userId,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store goal: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, goalId int) (Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, goalId, userId)
	goal, err := scanGoal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrGoalNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	return goal, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query goals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		goal, err := scanGoal(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan goal: %w", err)
			log.Error(err)
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, goal Goal) (bool, error) {
	query := `UPDATE goals SET name = $1, target_amount = $2, target_date = $3
				WHERE id = $4 AND user_id = $5`
	result, err := r.db.ExecContext(ctx, query,
		goal.Name,
		goal.TargetAmount.String(),
		targetDateParam(goal),
		goal.Id,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update goal: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) AddContribution(ctx context.Context, userId int, goalId int, amount decimal.Decimal) (bool, error) {
	query := `UPDATE goals SET saved_amount = saved_amount + $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, amount.String(), goalId, userId)
	if err != nil {
		err := fmt.Errorf("could not add contribution: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, goalId int) (bool, error) {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete goal: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func targetDateParam(goal Goal) any {
	if goal.TargetDate.IsZero() {
		return nil
	}
	return goal.TargetDate.Format("2006-01-02")
}

func scanGoal(scan func(dest ...any) error) (Goal, error) {
	var goal Goal
	var targetAmount, savedAmount string
	var targetDate sql.NullTime
	if err := scan(
		&goal.Id,
		&goal.Uid,
		&goal.Name,
		&targetAmount,
		&savedAmount,
		&targetDate,
		&goal.CreatedAt,
	); err != nil {
		return Goal{}, err
	}

	target, err := decimal.NewFromString(targetAmount)
	if err != nil {
		return Goal{}, fmt.Errorf("could not parse target amount: %w", err)
	}
	saved, err := decimal.NewFromString(savedAmount)
	if err != nil {
		return Goal{}, fmt.Errorf("could not parse saved amount: %w", err)
	}
	goal.TargetAmount = target
	goal.SavedAmount = saved
	if targetDate.Valid {
		goal.TargetDate = targetDate.Time
	}
	return goal, nil
}
