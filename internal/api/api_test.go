package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/report"
	"github.com/Veraticus/finpulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func fixedClock() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

type apiFixture struct {
	db       *testutil.TestDB
	server   *Server
	checking string
	food     string
}

func newFixture(t *testing.T) apiFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := apiFixture{
		db:       db,
		checking: db.Account("Checking"),
		food:     db.Category("Food"),
	}
	db.Income(f.checking, "3000", testutil.Date(2024, 6, 1))
	db.Expense(f.checking, f.food, "250", testutil.Date(2024, 6, 12))
	db.Expense(f.checking, f.food, "200", testutil.Date(2024, 5, 20))
	db.Budget(f.food, "500", 6, 2024)
	db.Goal("Trip", "2000")
	db.Subscription(f.checking, "Netflix", "15.49")

	reports := report.New(db.Storage, copywriting.NewSeededWriter(nil, 1), report.Options{})
	f.server = NewServer(db.Storage, reports, WithClock(fixedClock), WithLogger(quietLogger))
	return f
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodGet, "/api/dashboard?month=6&year=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Period string `json:"period"`
		Score  struct {
			Tier     string   `json:"tier"`
			Insights []string `json:"insights"`
			Score    int      `json:"score"`
		} `json:"score"`
		Stats report.Stats `json:"stats"`
	}
	decodeData(t, rec, &got)

	assert.Equal(t, "2024-06", got.Period)
	assert.Equal(t, 71, got.Score.Score)
	assert.Equal(t, "stable", got.Score.Tier)
	assert.Equal(t, []string{"SPENDING_TRENDING_UP"}, got.Score.Insights)
	assert.Equal(t, 3000.0, got.Stats.TotalIncome)
	assert.Equal(t, 1, got.Stats.SubscriptionCount)
}

func TestMonthlyWrap_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodGet, "/api/wraps/monthly", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var wrap report.Wrap
	decodeData(t, rec, &wrap)

	assert.Equal(t, 6, wrap.Month)
	assert.Equal(t, 2024, wrap.Year)
	assert.Equal(t, 250.0, wrap.TotalExpenses)
	assert.Equal(t, 2750.0, wrap.NetSavings)
	assert.Equal(t, 15.49, wrap.SubscriptionTotal)
	assert.Equal(t, 50, wrap.PerformanceScore)
	require.NotNil(t, wrap.TopCategory)
	assert.Equal(t, "Food", wrap.TopCategory.Name)
}

func TestMonthlyWrap_OtherMonthHasNoBudgets(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodGet, "/api/wraps/monthly?month=5&year=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var wrap report.Wrap
	decodeData(t, rec, &wrap)
	assert.Equal(t, 200.0, wrap.TotalExpenses)
	assert.Equal(t, 50, wrap.PerformanceScore)
}

func TestPeriodQuery_Invalid(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{
		"/api/wraps/monthly?month=13",
		"/api/wraps/monthly?month=0&year=2024",
		"/api/wraps/monthly?month=june",
		"/api/wraps/monthly?year=24",
		"/api/dashboard?year=abc",
	} {
		t.Run(target, func(t *testing.T) {
			rec := do(t, f.server, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), "invalid period")
		})
	}
}

func TestAccounts(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodPost, "/api/accounts", `{"name":"  Savings ","balance":"1200.50"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Account
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Savings", created.Name)
	assert.Equal(t, model.DefaultCurrency, created.Currency)
	require.NotNil(t, created.Balance)
	assert.Equal(t, "1200.5", created.Balance.String())

	rec = do(t, f.server, http.MethodPost, "/api/accounts", `{"name":"Euro","currency":"eur"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, f.server, http.MethodGet, "/api/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []model.Account
	decodeData(t, rec, &accounts)
	require.Len(t, accounts, 3)
	assert.Equal(t, []string{"Checking", "Euro", "Savings"}, []string{accounts[0].Name, accounts[1].Name, accounts[2].Name})
	assert.Equal(t, "EUR", accounts[1].Currency)
}

func TestCreateAccount_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"name":`},
		{name: "missing name", body: `{"currency":"USD"}`},
		{name: "blank name", body: `{"name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.server, http.MethodPost, "/api/accounts", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}

func TestRecurringTransactions_Defaults(t *testing.T) {
	f := newFixture(t)

	body := `{"account_id":"` + f.checking + `","amount":"9.99","frequency":"monthly","billing_cycle":"monthly","vendor_name":"Spotify","next_occurrence":"2024-07-01"}`
	rec := do(t, f.server, http.MethodPost, "/api/recurring-transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.RecurringTransaction
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.AutoGenerate)
	assert.False(t, created.IsSubscription)
	assert.Equal(t, testutil.Date(2024, 7, 1), created.NextOccurrence)

	body = `{"account_id":"` + f.checking + `","amount":"120","frequency":"yearly","billing_cycle":"yearly","vendor_name":"Domain","auto_generate":false,"is_subscription":true}`
	rec = do(t, f.server, http.MethodPost, "/api/recurring-transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, f.server, http.MethodGet, "/api/recurring-transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.RecurringTransaction
	decodeData(t, rec, &items)
	require.Len(t, items, 3)
	// Ordered by vendor name.
	assert.Equal(t, "Domain", items[0].VendorName)
	assert.False(t, items[0].AutoGenerate)
	assert.True(t, items[0].IsSubscription)
	assert.Equal(t, "Netflix", items[1].VendorName)
	assert.Equal(t, "Spotify", items[2].VendorName)
}

func TestCreateRecurring_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed", body: `[`, want: "Invalid request body"},
		{name: "missing account", body: `{"amount":"5","frequency":"monthly"}`, want: "account_id is required"},
		{name: "unknown account", body: `{"account_id":"nope","amount":"5","frequency":"monthly"}`, want: "unknown account_id"},
		{name: "bad frequency", body: `{"account_id":"` + f.checking + `","amount":"5","frequency":"hourly"}`, want: "invalid frequency"},
		{name: "bad cycle", body: `{"account_id":"` + f.checking + `","amount":"5","frequency":"monthly","billing_cycle":"weekly"}`, want: "invalid billing cycle"},
		{name: "negative amount", body: `{"account_id":"` + f.checking + `","amount":"-5","frequency":"monthly"}`, want: "invalid amount"},
		{name: "bad date", body: `{"account_id":"` + f.checking + `","amount":"5","frequency":"monthly","next_occurrence":"07/01/2024"}`, want: "YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.server, http.MethodPost, "/api/recurring-transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.want)
		})
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2024-06-15T12:00:00Z", body["time"])
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodDelete, "/api/accounts", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.server, http.MethodOptions, "/api/accounts", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	h := Recovery(quietLogger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, rec))
}

type failingReports struct{}

func (failingReports) Dashboard(context.Context, model.Period) (*report.DashboardReport, error) {
	return nil, errors.New("disk on fire")
}

func (failingReports) MonthlyWrap(context.Context, model.Period) (*report.Wrap, error) {
	return nil, errors.New("disk on fire")
}

func TestReportErrors_HideDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	server := NewServer(db.Storage, failingReports{}, WithClock(fixedClock), WithLogger(quietLogger))

	rec := do(t, server, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to build dashboard", errorMessage(t, rec))

	rec = do(t, server, http.MethodGet, "/api/wraps/monthly", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to build monthly wrap", errorMessage(t, rec))
}

func TestEmptyListsAreArrays(t *testing.T) {
	db := testutil.SetupTestDB(t)
	server := NewServer(db.Storage, failingReports{}, WithLogger(quietLogger))

	for _, target := range []string{"/api/accounts", "/api/recurring-transactions"} {
		rec := do(t, server, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
	}
}
