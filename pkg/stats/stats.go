package stats

import (
	"time"

	"github.com/budgeteer/budgeteer/pkg/category"
	"github.com/shopspring/decimal"
)

type CategoryStats struct {
	Category category.Category
	Planned  decimal.Decimal
	Actual   decimal.Decimal
	// Remaining is Planned minus Actual; negative when the category is
	// over budget.
	Remaining decimal.Decimal
}

type MonthlySummary struct {
	Year           int
	Month          time.Month
	Income         decimal.Decimal
	Expenses       decimal.Decimal
	Net            decimal.Decimal
	Categories     []CategoryStats
	TotalPlanned   decimal.Decimal
	TotalRemaining decimal.Decimal
}
