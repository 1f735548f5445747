// Package http exposes the JSON API over the computation core and stores.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finbook/internal/cache"
	"finbook/internal/core"
	"finbook/internal/middleware/trace"
	"finbook/internal/services"
	"finbook/internal/store"
)

type Server struct {
	http.Server
	transactions *services.TransactionService
	goals        *services.GoalService
	budgets      store.BudgetStore
	rateLimiter  *rateLimiter
	tracer       *trace.Middleware

	// Derived views are cached and purged whenever transactions change.
	summaryCache *cache.LRUCache[core.Summary]
	accountCache *cache.LRUCache[core.AccountSummary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
	startedAt        time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, txns *services.TransactionService, goals *services.GoalService, budgets store.BudgetStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		transactions:     txns,
		goals:            goals,
		budgets:          budgets,
		rateLimiter:      newRateLimiter(),
		tracer:           trace.NewMiddleware(clientIP),
		summaryCache:     cache.NewLRUCache[core.Summary](10, 5*time.Minute),
		accountCache:     cache.NewLRUCache[core.AccountSummary](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
		startedAt:        time.Now(),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(mux),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("POST /api/transactions/import", s.wrap(s.handleImportTransactions))
	mux.HandleFunc("GET /api/transactions/export", s.wrap(s.handleExportTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.wrap(s.handleGetTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/dashboard", s.wrap(s.handleDashboard))
	mux.HandleFunc("GET /api/accounts", s.wrap(s.handleListAccounts))
	mux.HandleFunc("GET /api/accounts/{name}", s.wrap(s.handleAccountSummary))

	mux.HandleFunc("GET /api/budgets/{month}", s.wrap(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budgets/{month}", s.wrap(s.handleSetBudget))
	mux.HandleFunc("GET /api/budgets/{month}/report", s.wrap(s.handleBudgetReport))

	mux.HandleFunc("GET /api/projection", s.wrap(s.handleProjection))

	mux.HandleFunc("GET /api/goals", s.wrap(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.wrap(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals/{id}", s.wrap(s.handleGetGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.wrap(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/complete", s.wrap(s.handleCompleteGoal))

	return s
}

// wrap applies security headers and rate limiting to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		// Rate limit mutating requests only.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(ip) {
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// invalidateDerived drops cached aggregates after any transaction change.
func (s *Server) invalidateDerived() {
	s.summaryCache.Purge()
	s.accountCache.Purge()
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.summaryCache.CleanExpired()
			s.accountCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background cleanup routines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.tracer.GetMetrics()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime":         time.Since(s.startedAt).String(),
		"total_requests": metrics.TotalRequests,
	})
}
