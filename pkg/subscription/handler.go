package subscription

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/budgeteer/budgeteer/pkg/recurring"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type SubscriptionDTO struct {
	Id          int             `json:"id"`
	Uid         string          `json:"uid,omitempty"`
	Provider    string          `json:"provider"`
	Plan        string          `json:"plan,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"startDate"`
	IsActive    bool            `json:"isActive"`
	NextBilling string          `json:"nextBilling,omitempty"`
}

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new subscription")
	w.Header().Set("Content-Type", "application/json")

	var dto SubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub, err := dtoToSubscription(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), sub)
	if err != nil {
		if errors.Is(err, ErrInvalidSubscription) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(subscriptionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	views, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SubscriptionDTO, 0, len(views))
	for _, view := range views {
		dto := subscriptionToDTO(view.Subscription)
		if !view.NextBilling.IsZero() {
			dto.NextBilling = view.NextBilling.Format(dateLayout)
		}
		dtos = append(dtos, dto)
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	subId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto SubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id == 0 || dto.Id != subId {
		http.Error(w, "Invalid subscription id in request body", http.StatusBadRequest)
		return
	}
	sub, err := dtoToSubscription(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Update(r.Context(), sub)
	if err != nil {
		if errors.Is(err, ErrInvalidSubscription) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Subscription not found", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), subId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Subscription not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func subscriptionToDTO(sub Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		Id:        sub.Id,
		Uid:       sub.Uid,
		Provider:  sub.Provider,
		Plan:      sub.Plan,
		Amount:    sub.Amount,
		Frequency: string(sub.Frequency),
		StartDate: sub.StartDate.Format(dateLayout),
		IsActive:  sub.IsActive,
	}
}

func dtoToSubscription(dto SubscriptionDTO) (Subscription, error) {
	var startDate time.Time
	if dto.StartDate != "" {
		parsed, err := time.Parse(dateLayout, dto.StartDate)
		if err != nil {
			return Subscription{}, err
		}
		startDate = parsed
	}
	return Subscription{
		Id:        dto.Id,
		Uid:       dto.Uid,
		Provider:  dto.Provider,
		Plan:      dto.Plan,
		Amount:    dto.Amount,
		Frequency: recurring.Frequency(dto.Frequency),
		StartDate: startDate,
		IsActive:  dto.IsActive,
	}, nil
}
