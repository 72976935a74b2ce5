package recurring

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/budgeteer/budgeteer/pkg/transaction"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RuleDTO struct {
	Id         int             `json:"id"`
	Uid        string          `json:"uid,omitempty"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryId int             `json:"categoryId"`
	AccountId  int             `json:"accountId"`
	Frequency  string          `json:"frequency"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate,omitempty"`
	DayOfMonth int             `json:"dayOfMonth,omitempty"`
	IsActive   bool            `json:"isActive"`
}

type GenerationResultDTO struct {
	GeneratedCount           int `json:"generatedCount"`
	SkippedCount             int `json:"skippedCount"`
	AlreadyMaterializedCount int `json:"alreadyMaterializedCount"`
	NotDueCount              int `json:"notDueCount"`
}

type UpcomingPaymentDTO struct {
	RuleId  int             `json:"ruleId"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"dueDate"`
}

const dateLayout = "2006-01-02"

// defaultUpcomingDays bounds the upcoming-payments view when the caller does
// not pass an explicit horizon.
const defaultUpcomingDays = 30

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new recurring rule")
	w.Header().Set("Content-Type", "application/json")

	var dto RuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rule, err := dtoToRule(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), rule)
	if err != nil {
		if errors.Is(err, ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ruleToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rules, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]RuleDTO, 0, len(rules))
	for _, rule := range rules {
		dtos = append(dtos, ruleToDTO(rule))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	ruleId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto RuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id == 0 || dto.Id != ruleId {
		http.Error(w, "Invalid rule id in request body", http.StatusBadRequest)
		return
	}
	rule, err := dtoToRule(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Update(r.Context(), rule)
	if err != nil {
		if errors.Is(err, ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Rule not found", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ruleId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), ruleId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Rule not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate godoc
// @Summary Materialize recurring transactions for a month
// @Description Generate concrete ledger entries for every active recurring rule due in the given period. Idempotent per rule and period.
// @Tags Recurring
// @Produce json
// @Param year query int true "Target year"
// @Param month query int true "Target month (1-12)"
// @Success 200 {object} GenerationResultDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid period"
// @Router /api/recurring/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "year is required", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "month is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.GenerateForPeriod(r.Context(), year, time.Month(month))
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := GenerationResultDTO{
		GeneratedCount:           result.Generated,
		SkippedCount:             result.Skipped(),
		AlreadyMaterializedCount: result.AlreadyMaterialized,
		NotDueCount:              result.NotDue,
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	days := defaultUpcomingDays
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	payments, err := h.service.UpcomingPayments(r.Context(), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]UpcomingPaymentDTO, 0, len(payments))
	for _, payment := range payments {
		dtos = append(dtos, UpcomingPaymentDTO{
			RuleId:  payment.Rule.Id,
			Name:    payment.Rule.Name,
			Type:    string(payment.Rule.Type),
			Amount:  payment.Rule.Amount,
			DueDate: payment.DueDate.Format(dateLayout),
		})
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func ruleToDTO(rule Rule) RuleDTO {
	dto := RuleDTO{
		Id:         rule.Id,
		Uid:        rule.Uid,
		Name:       rule.Name,
		Type:       string(rule.Type),
		Amount:     rule.Amount,
		CategoryId: rule.CategoryId,
		AccountId:  rule.AccountId,
		Frequency:  string(rule.Frequency),
		StartDate:  rule.StartDate.Format(dateLayout),
		DayOfMonth: rule.DayOfMonth,
		IsActive:   rule.IsActive,
	}
	if !rule.EndDate.IsZero() {
		dto.EndDate = rule.EndDate.Format(dateLayout)
	}
	return dto
}

func dtoToRule(dto RuleDTO) (Rule, error) {
	var startDate, endDate time.Time
	if dto.StartDate != "" {
		parsed, err := time.Parse(dateLayout, dto.StartDate)
		if err != nil {
			return Rule{}, err
		}
		startDate = parsed
	}
	if dto.EndDate != "" {
		parsed, err := time.Parse(dateLayout, dto.EndDate)
		if err != nil {
			return Rule{}, err
		}
		endDate = parsed
	}
	return Rule{
		Id:         dto.Id,
		Uid:        dto.Uid,
		Name:       dto.Name,
		Type:       transaction.EntryType(dto.Type),
		Amount:     dto.Amount,
		CategoryId: dto.CategoryId,
		AccountId:  dto.AccountId,
		Frequency:  Frequency(dto.Frequency),
		StartDate:  startDate,
		EndDate:    endDate,
		DayOfMonth: dto.DayOfMonth,
		IsActive:   dto.IsActive,
	}, nil
}
