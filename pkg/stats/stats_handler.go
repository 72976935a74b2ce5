package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/budgeteer/budgeteer/internal/rest"
	"github.com/shopspring/decimal"
)

type CategoryStatsDTO struct {
	CategoryId int             `json:"categoryId"`
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Color      string          `json:"color,omitempty"`
	Planned    decimal.Decimal `json:"planned"`
	Actual     decimal.Decimal `json:"actual"`
	Remaining  decimal.Decimal `json:"remaining"`
}

type MonthlySummaryDTO struct {
	Year           int                `json:"year"`
	Month          int                `json:"month"`
	Income         decimal.Decimal    `json:"income"`
	Expenses       decimal.Decimal    `json:"expenses"`
	Net            decimal.Decimal    `json:"net"`
	Categories     []CategoryStatsDTO `json:"categories"`
	TotalPlanned   decimal.Decimal    `json:"totalPlanned"`
	TotalRemaining decimal.Decimal    `json:"totalRemaining"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

func (handler *StatsHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid year",
			Details: "year must be an integer",
		})
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid month",
			Details: "month must be an integer between 1 and 12",
		})
		return
	}

	summary, err := handler.statsService.GetMonthlySummary(r.Context(), year, time.Month(month))
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := handler.csvStatsRenderer.RenderSummary(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func summaryToDTO(summary MonthlySummary) MonthlySummaryDTO {
	categories := make([]CategoryStatsDTO, 0, len(summary.Categories))
	for _, stats := range summary.Categories {
		categories = append(categories, CategoryStatsDTO{
			CategoryId: stats.Category.Id,
			Name:       stats.Category.Name,
			Kind:       string(stats.Category.Kind),
			Color:      stats.Category.Color,
			Planned:    stats.Planned,
			Actual:     stats.Actual,
			Remaining:  stats.Remaining,
		})
	}
	return MonthlySummaryDTO{
		Year:           summary.Year,
		Month:          int(summary.Month),
		Income:         summary.Income,
		Expenses:       summary.Expenses,
		Net:            summary.Net,
		Categories:     categories,
		TotalPlanned:   summary.TotalPlanned,
		TotalRemaining: summary.TotalRemaining,
	}
}
