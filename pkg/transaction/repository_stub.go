package transaction

import (
	"context"
	"sort"
	"time"
)

type StubRepository struct {
	nextId int
	data   map[int]Transaction
	owners map[int]int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]Transaction{}, owners: map[int]int{}}
}

func (s *StubRepository) Store(ctx context.Context, userId int, tx Transaction) (int, error) {
	s.nextId++
	tx.Id = s.nextId
	tx.CreatedAt = time.Now()
	s.data[tx.Id] = tx
	s.owners[tx.Id] = userId
	return tx.Id, nil
}

func (s *StubRepository) Get(ctx context.Context, userId int, txId int) (Transaction, error) {
	tx, ok := s.data[txId]
	if !ok || s.owners[txId] != userId {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *StubRepository) Find(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	var transactions []Transaction
	for id, tx := range s.data {
		if s.owners[id] != userId {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.CategoryId != 0 && tx.CategoryId != filter.CategoryId {
			continue
		}
		if filter.AccountId != 0 && tx.AccountId != filter.AccountId {
			continue
		}
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && tx.Date.After(filter.To) {
			continue
		}
		transactions = append(transactions, tx)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions, nil
}

func (s *StubRepository) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	existing, ok := s.data[tx.Id]
	if !ok || s.owners[tx.Id] != userId {
		return false, nil
	}
	tx.Uid = existing.Uid
	tx.RuleUid = existing.RuleUid
	tx.PeriodYear = existing.PeriodYear
	tx.PeriodMonth = existing.PeriodMonth
	s.data[tx.Id] = tx
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, userId int, txId int) (bool, error) {
	if _, ok := s.data[txId]; !ok || s.owners[txId] != userId {
		return false, nil
	}
	delete(s.data, txId)
	delete(s.owners, txId)
	return true, nil
}

func (s *StubRepository) FindMaterialized(ctx context.Context, userId int, year int, month time.Month) ([]Transaction, error) {
	var transactions []Transaction
	for id, tx := range s.data {
		if s.owners[id] != userId || !tx.FromRule() {
			continue
		}
		if tx.PeriodYear == year && tx.PeriodMonth == month {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func (s *StubRepository) InsertGenerated(ctx context.Context, userId int, entries []Transaction) (int, error) {
	inserted := 0
	for _, entry := range entries {
		if s.hasMaterialized(userId, entry.RuleUid, entry.PeriodYear, entry.PeriodMonth) {
			continue
		}
		s.nextId++
		entry.Id = s.nextId
		entry.CreatedAt = time.Now()
		s.data[entry.Id] = entry
		s.owners[entry.Id] = userId
		inserted++
	}
	return inserted, nil
}

func (s *StubRepository) hasMaterialized(userId int, ruleUid string, year int, month time.Month) bool {
	for id, tx := range s.data {
		if s.owners[id] != userId {
			continue
		}
		if tx.RuleUid == ruleUid && tx.PeriodYear == year && tx.PeriodMonth == month {
			return true
		}
	}
	return false
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Transaction{}
	s.owners = map[int]int{}
	s.nextId = 0
}
