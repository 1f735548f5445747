package http

import (
	"encoding/json"
	"net/http"

	"finbook/internal/core"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	monthKey, ok := parseMonthKey(r.PathValue("month"))
	if !ok {
		respondError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	plan, found, err := s.budgets.GetBudget(r.Context(), monthKey)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "no budget for "+monthKey)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	monthKey, ok := parseMonthKey(r.PathValue("month"))
	if !ok {
		respondError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	var plan core.BudgetPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.budgets.SetBudget(r.Context(), monthKey, plan); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	monthKey, ok := parseMonthKey(r.PathValue("month"))
	if !ok {
		respondError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	// A month without a saved plan still gets a report: zeroed expected
	// figures next to the month's actuals, so clients can render the
	// "no budget set" state from the same shape.
	plan, _, err := s.budgets.GetBudget(r.Context(), monthKey)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	txns, err := s.transactions.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	report := core.EvaluateBudget(plan, monthKey, txns)
	respondJSON(w, http.StatusOK, report)
}
