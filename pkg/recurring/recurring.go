package recurring

import (
	"errors"
	"fmt"
	"time"

	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

var ErrInvalidRule = errors.New("invalid recurring rule")

// Rule is a template for a repeating financial event. StartDate anchors the
// schedule; a zero EndDate means the rule runs forever. DayOfMonth (monthly
// rules only) overrides the day occurrences fall on, clamped to the length
// of each month. Editing a rule never touches transactions already
// materialized from it, and deleting it leaves them in the ledger.
type Rule struct {
	Id         int
	Uid        string
	Name       string
	Type       transaction.EntryType
	Amount     decimal.Decimal
	CategoryId int
	AccountId  int
	Frequency  Frequency
	StartDate  time.Time
	EndDate    time.Time // zero when open-ended
	DayOfMonth int       // 0 when unset; 1-31 otherwise, monthly only
	IsActive   bool
	CreatedAt  time.Time
}

func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidRule, r.Type)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidRule)
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("%w: unsupported frequency %q", ErrInvalidRule, r.Frequency)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRule)
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidRule)
	}
	if r.DayOfMonth != 0 {
		if r.Frequency != FrequencyMonthly {
			return fmt.Errorf("%w: day of month is only supported for monthly rules", ErrInvalidRule)
		}
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return fmt.Errorf("%w: day of month must be between 1 and 31", ErrInvalidRule)
		}
	}
	return nil
}
