package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"finbook/internal/core"
)

const summaryCacheKey = "summary"

// maxProjectionYears bounds the unauthenticated projection endpoint; the
// simulation runs one iteration per month, so the horizon must stay small.
const maxProjectionYears = 100

// dashboardResponse extends the overall summary with the per-category
// expense breakdown restricted to the requested year.
type dashboardResponse struct {
	core.Summary
	Year           int                   `json:"year"`
	ByCategoryYear map[string]core.Money `json:"byCategoryYear"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().Year())

	txns, err := s.transactions.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	summary, ok := s.summaryCache.Get(summaryCacheKey)
	if !ok {
		summary = core.Aggregate(txns)
		s.summaryCache.Set(summaryCacheKey, summary)
	}

	respondJSON(w, http.StatusOK, dashboardResponse{
		Summary:        summary,
		Year:           year,
		ByCategoryYear: core.CategoryTotalsForYear(txns, year),
	})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	txns, err := s.transactions.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	names := core.AccountNames(txns)
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, names)
}

func (s *Server) handleAccountSummary(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	key := strings.ToLower(name)

	if summary, ok := s.accountCache.Get(key); ok {
		respondJSON(w, http.StatusOK, summary)
		return
	}

	txns, err := s.transactions.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	summary := core.AggregateByAccount(txns, name)
	s.accountCache.Set(key, summary)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	initial := core.Money{Cents: core.CentsFromFloat(queryFloat(r, "initial", 0))}
	monthly := core.Money{Cents: core.CentsFromFloat(queryFloat(r, "monthly", 0))}
	years := queryInt(r, "years", 10)
	if years > maxProjectionYears {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("years must be at most %d", maxProjectionYears))
		return
	}
	rate := queryFloat(r, "rate", core.DefaultAnnualRate)

	projection := core.Project(initial, monthly, years, rate)
	respondJSON(w, http.StatusOK, projection)
}
