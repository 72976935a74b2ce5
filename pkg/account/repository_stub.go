package account

import (
	"context"

	"github.com/shopspring/decimal"
)

type StubRepository struct {
	nextId   int
	data     map[int]Account
	owners   map[int]int
	balances map[int]decimal.Decimal // accountId -> transaction sum
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		data:     map[int]Account{},
		owners:   map[int]int{},
		balances: map[int]decimal.Decimal{},
	}
}

func (s *StubRepository) Store(ctx context.Context, userId int, account Account) (int, error) {
	s.nextId++
	account.Id = s.nextId
	s.data[account.Id] = account
	s.owners[account.Id] = userId
	return account.Id, nil
}

func (s *StubRepository) Get(ctx context.Context, userId int, accountId int) (Account, error) {
	account, ok := s.data[accountId]
	if !ok || s.owners[accountId] != userId {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (s *StubRepository) GetAll(ctx context.Context, userId int) ([]Account, error) {
	var accounts []Account
	for id, account := range s.data {
		if s.owners[id] == userId {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (s *StubRepository) Update(ctx context.Context, userId int, account Account) (bool, error) {
	if _, ok := s.data[account.Id]; !ok || s.owners[account.Id] != userId {
		return false, nil
	}
	s.data[account.Id] = account
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, userId int, accountId int) (bool, error) {
	if _, ok := s.data[accountId]; !ok || s.owners[accountId] != userId {
		return false, nil
	}
	delete(s.data, accountId)
	delete(s.owners, accountId)
	return true, nil
}

func (s *StubRepository) CurrentBalance(ctx context.Context, userId int, accountId int) (decimal.Decimal, error) {
	account, ok := s.data[accountId]
	if !ok || s.owners[accountId] != userId {
		return decimal.Zero, ErrAccountNotFound
	}
	return account.OpeningBalance.Add(s.balances[accountId]), nil
}

// SetTransactionSum seeds the simulated transaction total for an account.
func (s *StubRepository) SetTransactionSum(accountId int, sum decimal.Decimal) {
	s.balances[accountId] = sum
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Account{}
	s.owners = map[int]int{}
	s.balances = map[int]decimal.Decimal{}
	s.nextId = 0
}
