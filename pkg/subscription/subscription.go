package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/budgeteer/budgeteer/pkg/recurring"
	"github.com/shopspring/decimal"
)

var ErrInvalidSubscription = errors.New("invalid subscription")

// Subscription is a paid service the user wants to keep an eye on. It shares
// the recurrence vocabulary with recurring rules but is display-only: nothing
// is ever materialized from a subscription.
type Subscription struct {
	Id        int
	Uid       string
	Provider  string
	Plan      string
	Amount    decimal.Decimal
	Frequency recurring.Frequency
	StartDate time.Time
	IsActive  bool
	CreatedAt time.Time
}

// View is a subscription decorated with its next billing date. NextBilling is
// zero when the subscription is inactive.
type View struct {
	Subscription
	NextBilling time.Time
}

func (s Subscription) Validate() error {
	if s.Provider == "" {
		return fmt.Errorf("%w: provider is required", ErrInvalidSubscription)
	}
	if !s.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidSubscription)
	}
	if !s.Frequency.Valid() {
		return fmt.Errorf("%w: unsupported frequency %q", ErrInvalidSubscription, s.Frequency)
	}
	if s.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidSubscription)
	}
	return nil
}

// asRule maps the subscription onto the occurrence engine's rule shape so the
// next billing date falls out of the same calendar arithmetic.
func (s Subscription) asRule() recurring.Rule {
	return recurring.Rule{
		Uid:       s.Uid,
		Name:      s.Provider,
		Frequency: s.Frequency,
		StartDate: s.StartDate,
		IsActive:  s.IsActive,
	}
}
