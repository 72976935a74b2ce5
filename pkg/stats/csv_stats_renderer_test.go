package stats

import (
	"testing"
	"time"

	"github.com/budgeteer/budgeteer/pkg/category"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvStatsRendererImpl_RenderSummary(t *testing.T) {
	renderer := NewCsvStatsRenderer()

	summary := MonthlySummary{
		Year:  2025,
		Month: time.March,
		Categories: []CategoryStats{
			{
				Category:  category.Category{Id: 1, Name: "Groceries", Kind: category.KindExpense},
				Planned:   decimal.NewFromInt(500),
				Actual:    decimal.NewFromInt(450),
				Remaining: decimal.NewFromInt(50),
			},
			{
				Category: category.Category{Id: 2, Name: "Salary", Kind: category.KindIncome},
				Actual:   decimal.NewFromInt(3000),
			},
		},
		Income:         decimal.NewFromInt(3000),
		Expenses:       decimal.NewFromInt(450),
		Net:            decimal.NewFromInt(2550),
		TotalPlanned:   decimal.NewFromInt(500),
		TotalRemaining: decimal.NewFromInt(50),
	}

	csv, err := renderer.RenderSummary(summary)

	require.NoError(t, err)
	expected := "Category,Kind,Planned,Actual,Remaining\n" +
		"Groceries,expense,500.00,450.00,50.00\n" +
		"Salary,income,0.00,3000.00,0.00\n" +
		"TOTAL PLANNED,,500.00,,50.00\n" +
		"Income,,,3000.00,\n" +
		"Expenses,,,450.00,\n" +
		"Net,,,2550.00,\n" +
		"Period,2025-03,,,\n"
	assert.Equal(t, expected, csv)
}
