package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is one dated ledger entry. Entries materialized from a
// recurring rule additionally carry the source rule's uid and the
// (year, month) period they were generated for; at most one entry may
// exist per (rule, period).
type Transaction struct {
	Id          int
	Uid         string
	Type        EntryType
	Amount      decimal.Decimal
	CategoryId  int
	AccountId   int
	Description string
	Date        time.Time
	RuleUid     string // empty for manually entered transactions
	PeriodYear  int
	PeriodMonth time.Month
	CreatedAt   time.Time
}

// FromRule reports whether the transaction was materialized from a recurring rule.
func (t Transaction) FromRule() bool {
	return t.RuleUid != ""
}

type Filter struct {
	Type       EntryType // empty matches both
	CategoryId int
	AccountId  int
	From       time.Time
	To         time.Time
}
