package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budgeteer/budgeteer/pkg/budget"
	"github.com/budgeteer/budgeteer/pkg/category"
	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/budgeteer/budgeteer/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidPeriod = errors.New("invalid period")

type StatsService interface {
	// GetMonthlySummary aggregates the month's ledger into totals and a
	// planned-versus-actual breakdown per category.
	GetMonthlySummary(ctx context.Context, year int, month time.Month) (MonthlySummary, error)
}

type StatsServiceImpl struct {
	ledger       transaction.Repository
	categoryRepo category.Repository
	budgetRepo   budget.Repository
}

func NewStatsService(
	ledger transaction.Repository,
	categoryRepo category.Repository,
	budgetRepo budget.Repository,
) *StatsServiceImpl {
	return &StatsServiceImpl{
		ledger:       ledger,
		categoryRepo: categoryRepo,
		budgetRepo:   budgetRepo,
	}
}

func (s *StatsServiceImpl) GetMonthlySummary(ctx context.Context, year int, month time.Month) (MonthlySummary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if month < time.January || month > time.December {
		return MonthlySummary{}, fmt.Errorf("%w: month %d is out of range", ErrInvalidPeriod, month)
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	transactions, err := s.ledger.Find(ctx, userId, transaction.Filter{From: from, To: to})
	if err != nil {
		return MonthlySummary{}, err
	}

	categories, err := s.categoryRepo.GetAll(ctx, userId)
	if err != nil {
		return MonthlySummary{}, err
	}

	planned := map[int]decimal.Decimal{}
	plan, err := s.budgetRepo.GetPlanByYear(ctx, userId, year)
	if err != nil && !errors.Is(err, budget.ErrPlanNotFound) {
		return MonthlySummary{}, err
	}
	if err == nil {
		planned = plan.PlannedByCategory()
	} else {
		log.Debugf("no budget plan for user %d, year %d, reporting actuals only", userId, year)
	}

	summary := MonthlySummary{Year: year, Month: month}
	actualByCategory := map[int]decimal.Decimal{}
	for _, tx := range transactions {
		switch tx.Type {
		case transaction.TypeIncome:
			summary.Income = summary.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			summary.Expenses = summary.Expenses.Add(tx.Amount)
		}
		actualByCategory[tx.CategoryId] = actualByCategory[tx.CategoryId].Add(tx.Amount)
	}
	summary.Net = summary.Income.Sub(summary.Expenses)

	summary.Categories = make([]CategoryStats, 0, len(categories))
	for _, cat := range categories {
		stats := CategoryStats{
			Category: cat,
			Planned:  planned[cat.Id],
			Actual:   actualByCategory[cat.Id],
		}
		stats.Remaining = stats.Planned.Sub(stats.Actual)
		summary.Categories = append(summary.Categories, stats)

		if cat.Kind == category.KindExpense {
			summary.TotalPlanned = summary.TotalPlanned.Add(stats.Planned)
			summary.TotalRemaining = summary.TotalRemaining.Add(stats.Remaining)
		}
	}

	return summary, nil
}
