package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/shopspring/decimal"
)

// periodFromQuery reads ?month=&year=, defaulting each to the current month.
func (s *Server) periodFromQuery(r *http.Request) (model.Period, error) {
	now := s.now().UTC()
	month, year := int(now.Month()), now.Year()

	q := r.URL.Query()
	if raw := q.Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Period{}, fmt.Errorf("%w: month %q is not a number", model.ErrInvalidPeriod, raw)
		}
		month = v
	}
	if raw := q.Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Period{}, fmt.Errorf("%w: year %q is not a number", model.ErrInvalidPeriod, raw)
		}
		year = v
	}
	return model.MonthPeriod(month, year)
}

// handleDashboard handles GET /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period, err := s.periodFromQuery(r)
	if err != nil {
		writeErr(w, r, err, "parse period")
		return
	}

	dashboard, err := s.reports.Dashboard(r.Context(), period)
	if err != nil {
		writeErr(w, r, err, "build dashboard")
		return
	}
	WriteData(w, http.StatusOK, dashboard)
}

// handleMonthlyWrap handles GET /api/wraps/monthly
func (s *Server) handleMonthlyWrap(w http.ResponseWriter, r *http.Request) {
	period, err := s.periodFromQuery(r)
	if err != nil {
		writeErr(w, r, err, "parse period")
		return
	}

	wrap, err := s.reports.MonthlyWrap(r.Context(), period)
	if err != nil {
		writeErr(w, r, err, "build monthly wrap")
		return
	}
	WriteData(w, http.StatusOK, wrap)
}

// handleListAccounts handles GET /api/accounts
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.GetAccounts(r.Context())
	if err != nil {
		writeErr(w, r, err, "list accounts")
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	WriteData(w, http.StatusOK, accounts)
}

type createAccountRequest struct {
	Balance  *decimal.Decimal `json:"balance"`
	Name     string           `json:"name"`
	Currency string           `json:"currency"`
}

// handleCreateAccount handles POST /api/accounts
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	account := &model.Account{
		Name:     strings.TrimSpace(req.Name),
		Currency: req.Currency,
		Balance:  req.Balance,
	}
	if err := s.store.CreateAccount(r.Context(), account); err != nil {
		writeErr(w, r, err, "create account")
		return
	}
	WriteData(w, http.StatusCreated, account)
}

// handleListRecurring handles GET /api/recurring-transactions
func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.GetRecurringTransactions(r.Context())
	if err != nil {
		writeErr(w, r, err, "list recurring transactions")
		return
	}
	if items == nil {
		items = []model.RecurringTransaction{}
	}
	WriteData(w, http.StatusOK, items)
}

type createRecurringRequest struct {
	AutoGenerate   *bool              `json:"auto_generate"`
	IsSubscription *bool              `json:"is_subscription"`
	Amount         decimal.Decimal    `json:"amount"`
	AccountID      string             `json:"account_id"`
	CategoryID     string             `json:"category_id"`
	Frequency      model.Frequency    `json:"frequency"`
	NextOccurrence string             `json:"next_occurrence"`
	BillingCycle   model.BillingCycle `json:"billing_cycle"`
	VendorName     string             `json:"vendor_name"`
	LogoURL        string             `json:"logo_url"`
}

// toModel applies the defaults: auto-generate on, not a subscription.
func (req *createRecurringRequest) toModel() (*model.RecurringTransaction, error) {
	rt := &model.RecurringTransaction{
		Amount:         req.Amount,
		AccountID:      req.AccountID,
		CategoryID:     req.CategoryID,
		Frequency:      req.Frequency,
		BillingCycle:   req.BillingCycle,
		VendorName:     req.VendorName,
		LogoURL:        req.LogoURL,
		AutoGenerate:   true,
		IsSubscription: false,
	}
	if req.AutoGenerate != nil {
		rt.AutoGenerate = *req.AutoGenerate
	}
	if req.IsSubscription != nil {
		rt.IsSubscription = *req.IsSubscription
	}
	if req.NextOccurrence != "" {
		next, err := time.Parse(time.DateOnly, req.NextOccurrence)
		if err != nil {
			return nil, fmt.Errorf("next_occurrence %q must be YYYY-MM-DD", req.NextOccurrence)
		}
		rt.NextOccurrence = next
	}
	return rt, nil
}

// handleCreateRecurring handles POST /api/recurring-transactions
func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt, err := req.toModel()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rt.AccountID == "" {
		WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	if _, err := s.store.GetAccountByID(r.Context(), rt.AccountID); err != nil {
		if statusFor(err) == http.StatusNotFound {
			WriteError(w, http.StatusBadRequest, "unknown account_id "+rt.AccountID)
			return
		}
		writeErr(w, r, err, "look up account")
		return
	}

	if err := s.store.CreateRecurringTransaction(r.Context(), rt); err != nil {
		writeErr(w, r, err, "create recurring transaction")
		return
	}
	WriteData(w, http.StatusCreated, rt)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}
