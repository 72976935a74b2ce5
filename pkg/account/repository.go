package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("account not found")

type Repository interface {
	Store(ctx context.Context, userId int, account Account) (int, error)
	Get(ctx context.Context, userId int, accountId int) (Account, error)
	GetAll(ctx context.Context, userId int) ([]Account, error)
	Update(ctx context.Context, userId int, account Account) (bool, error)
	Delete(ctx context.Context, userId int, accountId int) (bool, error)
	// CurrentBalance sums the account's transactions (income positive,
	// expense negative) on top of the opening balance.
	CurrentBalance(ctx context.Context, userId int, accountId int) (decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, account Account) (int, error) {
	query := `INSERT INTO accounts (name, kind, opening_balance, user_id) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query, account.Name, account.Kind, account.OpeningBalance.String(), userId).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store account: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, accountId int) (Account, error) {
	query := `SELECT id, name, kind, opening_balance FROM accounts WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, accountId, userId)

	account, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get account: %w", err)
		log.Error(err)
		return Account{}, err
	}
	return account, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, userId int) ([]Account, error) {
	query := `SELECT id, name, kind, opening_balance FROM accounts WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query accounts: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan account: %w", err)
			log.Error(err)
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, account Account) (bool, error) {
	query := `UPDATE accounts SET name = $1, kind = $2, opening_balance = $3 WHERE id = $4 AND user_id = $5`
	result, err := r.db.ExecContext(ctx, query, account.Name, account.Kind, account.OpeningBalance.String(), account.Id, userId)
	if err != nil {
		err := fmt.Errorf("could not update account: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, accountId int) (bool, error) {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, accountId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete account: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) CurrentBalance(ctx context.Context, userId int, accountId int) (decimal.Decimal, error) {
	query := `SELECT a.opening_balance + COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE -t.amount END), 0)
				FROM accounts a
				LEFT JOIN transactions t ON t.account_id = a.id AND t.user_id = a.user_id
				WHERE a.id = $1 AND a.user_id = $2
				GROUP BY a.opening_balance`
	var balanceString string
	err := r.db.QueryRowContext(ctx, query, accountId, userId).Scan(&balanceString)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrAccountNotFound
	} else if err != nil {
		err := fmt.Errorf("could not compute account balance: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	balance, err := decimal.NewFromString(balanceString)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not parse account balance: %w", err)
	}
	return balance, nil
}

func scanAccount(scan func(dest ...any) error) (Account, error) {
	var account Account
	var openingBalance string
	if err := scan(&account.Id, &account.Name, &account.Kind, &openingBalance); err != nil {
		return Account{}, err
	}
	balance, err := decimal.NewFromString(openingBalance)
	if err != nil {
		return Account{}, fmt.Errorf("could not parse opening balance: %w", err)
	}
	account.OpeningBalance = balance
	return account, nil
}
