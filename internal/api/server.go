// Package api serves the dashboard, monthly wrap, accounts and recurring
// transactions as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/report"
)

// Store is the storage the API reads and writes.
type Store interface {
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	CreateAccount(ctx context.Context, account *model.Account) error
	GetRecurringTransactions(ctx context.Context) ([]model.RecurringTransaction, error)
	CreateRecurringTransaction(ctx context.Context, rt *model.RecurringTransaction) error
}

// Reports builds the score-backed views.
type Reports interface {
	Dashboard(ctx context.Context, period model.Period) (*report.DashboardReport, error)
	MonthlyWrap(ctx context.Context, period model.Period) (*report.Wrap, error)
}

// Server routes API requests.
type Server struct {
	store   Store
	reports Reports
	logger  *slog.Logger
	now     func() time.Time
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for the default period.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the request logger. The default logger is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer builds the routes and middleware stack.
func NewServer(store Store, reports Reports, opts ...Option) *Server {
	s := &Server{
		store:   store,
		reports: reports,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/wraps/monthly", s.handleMonthlyWrap)
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/recurring-transactions", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring-transactions", s.handleCreateRecurring)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.handler = Chain(mux,
		Recovery(s.logger),
		RequestID,
		Logger(s.logger),
		CORS,
	)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
