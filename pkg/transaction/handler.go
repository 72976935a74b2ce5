package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Id          int             `json:"id"`
	Uid         string          `json:"uid,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryId  int             `json:"categoryId"`
	AccountId   int             `json:"accountId"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date"`
	RuleUid     string          `json:"ruleUid,omitempty"`
}

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := dtoToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), tx)
	if err != nil {
		if errors.Is(err, ErrInvalidTransaction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.service.Find(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, transactionToDTO(tx))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	txId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id == 0 || dto.Id != txId {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}
	tx, err := dtoToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Update(r.Context(), tx)
	if err != nil {
		if errors.Is(err, ErrInvalidTransaction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	txId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), txId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	query := r.URL.Query()

	if t := query.Get("type"); t != "" {
		entryType := EntryType(t)
		if !entryType.Valid() {
			return Filter{}, errors.New("unsupported type filter")
		}
		filter.Type = entryType
	}
	if c := query.Get("categoryId"); c != "" {
		categoryId, err := strconv.Atoi(c)
		if err != nil {
			return Filter{}, err
		}
		filter.CategoryId = categoryId
	}
	if a := query.Get("accountId"); a != "" {
		accountId, err := strconv.Atoi(a)
		if err != nil {
			return Filter{}, err
		}
		filter.AccountId = accountId
	}
	if f := query.Get("from"); f != "" {
		from, err := time.Parse(dateLayout, f)
		if err != nil {
			return Filter{}, err
		}
		filter.From = from
	}
	if t := query.Get("to"); t != "" {
		to, err := time.Parse(dateLayout, t)
		if err != nil {
			return Filter{}, err
		}
		filter.To = to
	}
	return filter, nil
}

func transactionToDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		Id:          tx.Id,
		Uid:         tx.Uid,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		CategoryId:  tx.CategoryId,
		AccountId:   tx.AccountId,
		Description: tx.Description,
		Date:        tx.Date.Format(dateLayout),
		RuleUid:     tx.RuleUid,
	}
}

func dtoToTransaction(dto TransactionDTO) (Transaction, error) {
	var date time.Time
	if dto.Date != "" {
		parsed, err := time.Parse(dateLayout, dto.Date)
		if err != nil {
			return Transaction{}, err
		}
		date = parsed
	}
	return Transaction{
		Id:          dto.Id,
		Uid:         dto.Uid,
		Type:        EntryType(dto.Type),
		Amount:      dto.Amount,
		CategoryId:  dto.CategoryId,
		AccountId:   dto.AccountId,
		Description: dto.Description,
		Date:        date,
	}, nil
}
