package account

import "github.com/shopspring/decimal"

type Kind string

const (
	KindChecking Kind = "checking"
	KindSavings  Kind = "savings"
	KindCash     Kind = "cash"
	KindCredit   Kind = "credit"
)

func (k Kind) Valid() bool {
	switch k {
	case KindChecking, KindSavings, KindCash, KindCredit:
		return true
	}
	return false
}

type Account struct {
	Id             int
	Name           string
	Kind           Kind
	OpeningBalance decimal.Decimal
}

// Balance is an Account decorated with its current balance:
// opening balance plus all income minus all expenses booked against it.
type Balance struct {
	Account
	Current decimal.Decimal
}
