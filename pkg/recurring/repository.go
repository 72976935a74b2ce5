package recurring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrRuleNotFound = errors.New("recurring rule not found")

type Repository interface {
	Store(ctx context.Context, userId int, rule Rule) (int, error)
	Get(ctx context.Context, userId int, ruleId int) (Rule, error)
	GetAll(ctx context.Context, userId int) ([]Rule, error)
	FindActive(ctx context.Context, userId int) ([]Rule, error)
	Update(ctx context.Context, userId int, rule Rule) (bool, error)
	Delete(ctx context.Context, userId int, ruleId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const ruleColumns = `id, uid, name, type, amount, category_id, account_id, frequency, start_date, end_date, day_of_month, is_active, created_at`

func (r *RepositoryImpl) Store(ctx context.Context, userId int, rule Rule) (int, error) {
	query := `INSERT INTO recurring_rules (uid, name, type, amount, category_id, account_id, frequency, start_date, end_date, day_of_month, is_active, user_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		rule.Uid,
		rule.Name,
		rule.Type,
		rule.Amount.String(),
		rule.CategoryId,
		rule.AccountId,
		rule.Frequency,
		rule.StartDate.Format("2006-01-02"),
		endDateParam(rule),
		dayOfMonthParam(rule),
		rule.IsActive,
		userId,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store recurring rule: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, ruleId int) (Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, ruleId, userId)
	rule, err := scanRule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Rule{}, ErrRuleNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get recurring rule: %w", err)
		log.Error(err)
		return Rule{}, err
	}
	return rule, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE user_id = $1 ORDER BY name`
	return r.queryRules(ctx, query, userId)
}

func (r *RepositoryImpl) FindActive(ctx context.Context, userId int) ([]Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE user_id = $1 AND is_active ORDER BY name`
	return r.queryRules(ctx, query, userId)
}

func (r *RepositoryImpl) queryRules(ctx context.Context, query string, args ...any) ([]Rule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query recurring rules: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan recurring rule: %w", err)
			log.Error(err)
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, rule Rule) (bool, error) {
	query := `UPDATE recurring_rules SET name = $1, type = $2, amount = $3, category_id = $4, account_id = $5,
				frequency = $6, start_date = $7, end_date = $8, day_of_month = $9, is_active = $10
				WHERE id = $11 AND user_id = $12`
	result, err := r.db.ExecContext(ctx, query,
		rule.Name,
		rule.Type,
		rule.Amount.String(),
		rule.CategoryId,
		rule.AccountId,
		rule.Frequency,
		rule.StartDate.Format("2006-01-02"),
		endDateParam(rule),
		dayOfMonthParam(rule),
		rule.IsActive,
		rule.Id,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update recurring rule: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// Delete removes the rule only; transactions already materialized from it
// stay in the ledger untouched.
func (r *RepositoryImpl) Delete(ctx context.Context, userId int, ruleId int) (bool, error) {
	query := `DELETE FROM recurring_rules WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, ruleId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete recurring rule: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func endDateParam(rule Rule) any {
	if rule.EndDate.IsZero() {
		return nil
	}
	return rule.EndDate.Format("2006-01-02")
}

func dayOfMonthParam(rule Rule) any {
	if rule.DayOfMonth == 0 {
		return nil
	}
	return rule.DayOfMonth
}

func scanRule(scan func(dest ...any) error) (Rule, error) {
	var rule Rule
	var amount string
	var endDate sql.NullTime
	var dayOfMonth sql.NullInt64
	if err := scan(
		&rule.Id,
		&rule.Uid,
		&rule.Name,
		&rule.Type,
		&amount,
		&rule.CategoryId,
		&rule.AccountId,
		&rule.Frequency,
		&rule.StartDate,
		&endDate,
		&dayOfMonth,
		&rule.IsActive,
		&rule.CreatedAt,
	); err != nil {
		return Rule{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Rule{}, fmt.Errorf("could not parse amount: %w", err)
	}
	rule.Amount = parsed
	if endDate.Valid {
		rule.EndDate = endDate.Time
	}
	if dayOfMonth.Valid {
		rule.DayOfMonth = int(dayOfMonth.Int64)
	}
	return rule, nil
}
