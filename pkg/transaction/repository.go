package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type Repository interface {
	Store(ctx context.Context, userId int, tx Transaction) (int, error)
	Get(ctx context.Context, userId int, txId int) (Transaction, error)
	Find(ctx context.Context, userId int, filter Filter) ([]Transaction, error)
	Update(ctx context.Context, userId int, tx Transaction) (bool, error)
	Delete(ctx context.Context, userId int, txId int) (bool, error)
	// FindMaterialized returns the rule-generated entries for one period.
	FindMaterialized(ctx context.Context, userId int, year int, month time.Month) ([]Transaction, error)
	// InsertGenerated inserts rule-generated entries in one batch and returns
	// how many rows were actually inserted. Entries whose (rule_uid,
	// period_year, period_month) already exist are silently dropped by the
	// storage unique constraint, which keeps concurrent generation runs from
	// producing duplicates.
	InsertGenerated(ctx context.Context, userId int, entries []Transaction) (int, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectColumns = `id, uid, type, amount, category_id, account_id, description, date, rule_uid, period_year, period_month, created_at`

func (r *RepositoryImpl) Store(ctx context.Context, userId int, tx Transaction) (int, error) {
	query := `INSERT INTO transactions (uid, type, amount, category_id, account_id, description, date, user_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query,
		tx.Uid,
		tx.Type,
		tx.Amount.String(),
		tx.CategoryId,
		tx.AccountId,
		tx.Description,
		tx.Date.Format("2006-01-02"),
		userId,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, txId int) (Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, txId, userId)
	tx, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return tx, nil
}

func (r *RepositoryImpl) Find(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userId}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.CategoryId != 0 {
		args = append(args, filter.CategoryId)
		query += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if filter.AccountId != 0 {
		args = append(args, filter.AccountId)
		query += ` AND account_id = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From.Format("2006-01-02"))
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To.Format("2006-01-02"))
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	query := `UPDATE transactions SET type = $1, amount = $2, category_id = $3, account_id = $4, description = $5, date = $6
				WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(ctx, query,
		tx.Type,
		tx.Amount.String(),
		tx.CategoryId,
		tx.AccountId,
		tx.Description,
		tx.Date.Format("2006-01-02"),
		tx.Id,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, txId int) (bool, error) {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, txId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) FindMaterialized(ctx context.Context, userId int, year int, month time.Month) ([]Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions
				WHERE user_id = $1 AND rule_uid IS NOT NULL AND period_year = $2 AND period_month = $3`
	rows, err := r.db.QueryContext(ctx, query, userId, year, int(month))
	if err != nil {
		err := fmt.Errorf("could not query materialized transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *RepositoryImpl) InsertGenerated(ctx context.Context, userId int, entries []Transaction) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `INSERT INTO transactions (uid, type, amount, category_id, account_id, description, date, rule_uid, period_year, period_month, user_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				ON CONFLICT (rule_uid, period_year, period_month) WHERE rule_uid IS NOT NULL DO NOTHING`
	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, entry := range entries {
		result, err := stmt.ExecContext(ctx,
			entry.Uid,
			entry.Type,
			entry.Amount.String(),
			entry.CategoryId,
			entry.AccountId,
			entry.Description,
			entry.Date.Format("2006-01-02"),
			entry.RuleUid,
			entry.PeriodYear,
			int(entry.PeriodMonth),
			userId,
		)
		if err != nil {
			err := fmt.Errorf("could not insert generated transaction: %w", err)
			log.Error(err)
			return 0, err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("could not get rows affected: %w", err)
		}
		inserted += int(rowsAffected)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit generated transactions: %w", err)
	}
	return inserted, nil
}

func collectTransactions(rows *sql.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(scan func(dest ...any) error) (Transaction, error) {
	var tx Transaction
	var amount string
	var ruleUid sql.NullString
	var periodYear, periodMonth sql.NullInt64
	if err := scan(
		&tx.Id,
		&tx.Uid,
		&tx.Type,
		&amount,
		&tx.CategoryId,
		&tx.AccountId,
		&tx.Description,
		&tx.Date,
		&ruleUid,
		&periodYear,
		&periodMonth,
		&tx.CreatedAt,
	); err != nil {
		return Transaction{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("could not parse amount: %w", err)
	}
	tx.Amount = parsed
	if ruleUid.Valid {
		tx.RuleUid = ruleUid.String
		tx.PeriodYear = int(periodYear.Int64)
		tx.PeriodMonth = time.Month(periodMonth.Int64)
	}
	return tx, nil
}
