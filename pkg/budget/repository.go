package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrPlanNotFound = errors.New("budget plan not found")
var ErrPlanExists = errors.New("budget plan for this year already exists")

type Repository interface {
	CreatePlan(ctx context.Context, userId int, plan Plan) (int, error)
	GetPlanByYear(ctx context.Context, userId int, year int) (Plan, error)
	ListPlans(ctx context.Context, userId int) ([]Plan, error)
	DeletePlan(ctx context.Context, userId int, planId int) (bool, error)
	// UpsertItem stores the planned amount for the item's category, replacing
	// any previous amount within the same plan.
	UpsertItem(ctx context.Context, userId int, item Item) (int, error)
	DeleteItem(ctx context.Context, userId int, itemId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreatePlan(ctx context.Context, userId int, plan Plan) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM budget_plans WHERE user_id = $1 AND year = $2)`,
		userId, plan.Year,
	).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not check for existing plan: %w", err)
		log.Error(err)
		return 0, err
	}
	if exists {
		return 0, ErrPlanExists
	}

	var planId int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO budget_plans (year, user_id) VALUES ($1, $2) RETURNING id`,
		plan.Year, userId,
	).Scan(&planId)
	if err != nil {
		err := fmt.Errorf("could not store budget plan: %w", err)
		log.Error(err)
		return 0, err
	}

	for _, item := range plan.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budget_plan_items (plan_id, category_id, monthly_amount, user_id) VALUES ($1, $2, $3, $4)`,
			planId, item.CategoryId, item.MonthlyAmount.String(), userId,
		)
		if err != nil {
			err := fmt.Errorf("could not store budget plan item: %w", err)
			log.Error(err)
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}
	return planId, nil
}

func (r *RepositoryImpl) GetPlanByYear(ctx context.Context, userId int, year int) (Plan, error) {
	query := `SELECT plan.id,
				item.id AS item_id,
				item.category_id,
				item.monthly_amount
			   FROM budget_plans plan
			   LEFT JOIN budget_plan_items item ON plan.id = item.plan_id
			   WHERE plan.user_id = $1 AND plan.year = $2
			   ORDER BY item.category_id`
	rows, err := r.db.QueryContext(ctx, query, userId, year)
	if err != nil {
		err := fmt.Errorf("could not query budget plan: %w", err)
		log.Error(err)
		return Plan{}, err
	}
	defer rows.Close()

	plan := Plan{Year: year}
	foundPlan := false
	for rows.Next() {
		foundPlan = true
		var (
			itemId     sql.NullInt64
			categoryId sql.NullInt64
			amount     sql.NullString
		)
		if err := rows.Scan(&plan.Id, &itemId, &categoryId, &amount); err != nil {
			err := fmt.Errorf("could not scan budget plan row: %w", err)
			log.Error(err)
			return Plan{}, err
		}
		// LEFT JOIN yields a NULL item for a plan with no items yet
		if !itemId.Valid {
			continue
		}

		monthlyAmount, err := decimal.NewFromString(amount.String)
		if err != nil {
			return Plan{}, fmt.Errorf("could not parse planned amount: %w", err)
		}
		plan.Items = append(plan.Items, Item{
			Id:            int(itemId.Int64),
			PlanId:        plan.Id,
			CategoryId:    int(categoryId.Int64),
			MonthlyAmount: monthlyAmount,
		})
	}
	if err := rows.Err(); err != nil {
		return Plan{}, err
	}
	if !foundPlan {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

func (r *RepositoryImpl) ListPlans(ctx context.Context, userId int) ([]Plan, error) {
	query := `SELECT id, year FROM budget_plans WHERE user_id = $1 ORDER BY year DESC`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query budget plans: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var plan Plan
		if err := rows.Scan(&plan.Id, &plan.Year); err != nil {
			err := fmt.Errorf("could not scan budget plan: %w", err)
			log.Error(err)
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *RepositoryImpl) DeletePlan(ctx context.Context, userId int, planId int) (bool, error) {
	query := `DELETE FROM budget_plans WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, planId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete budget plan: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) UpsertItem(ctx context.Context, userId int, item Item) (int, error) {
	query := `INSERT INTO budget_plan_items (plan_id, category_id, monthly_amount, user_id)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (plan_id, category_id) DO UPDATE SET monthly_amount = EXCLUDED.monthly_amount
				RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query,
		item.PlanId,
		item.CategoryId,
		item.MonthlyAmount.String(),
		userId,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not upsert budget plan item: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) DeleteItem(ctx context.Context, userId int, itemId int) (bool, error) {
	query := `DELETE FROM budget_plan_items WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, itemId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete budget plan item: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}
