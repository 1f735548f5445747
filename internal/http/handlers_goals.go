package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finbook/internal/core"
)

type createGoalRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	respondJSON(w, http.StatusOK, goals)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	goal, err := s.goals.Create(r.Context(), sanitizeInput(req.Text))
	if err != nil {
		if errors.Is(err, core.ErrEmptyText) {
			respondError(w, http.StatusBadRequest, "goal text is required")
			return
		}
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goals.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
