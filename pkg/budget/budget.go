package budget

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidPlan = errors.New("invalid budget plan")

// Plan is the annual budget: one per user per year, holding a planned
// monthly amount per category.
type Plan struct {
	Id    int
	Year  int
	Items []Item
}

// Item is the planned monthly amount for one category within a plan.
type Item struct {
	Id            int
	PlanId        int
	CategoryId    int
	MonthlyAmount decimal.Decimal
}

func (p Plan) Validate() error {
	if p.Year < 1 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidPlan, p.Year)
	}
	for _, item := range p.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (i Item) Validate() error {
	if i.CategoryId == 0 {
		return fmt.Errorf("%w: item category is required", ErrInvalidPlan)
	}
	if i.MonthlyAmount.IsNegative() {
		return fmt.Errorf("%w: item amount cannot be negative", ErrInvalidPlan)
	}
	return nil
}

// PlannedByCategory flattens the plan's items into a category lookup.
func (p Plan) PlannedByCategory() map[int]decimal.Decimal {
	planned := make(map[int]decimal.Decimal, len(p.Items))
	for _, item := range p.Items {
		planned[item.CategoryId] = item.MonthlyAmount
	}
	return planned
}
