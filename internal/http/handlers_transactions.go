package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"finbook/internal/core"
	"finbook/internal/importer"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.transactions.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var raw core.RawTransaction
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	raw.Title = sanitizeInput(raw.Title)
	raw.Category = sanitizeInput(raw.Category)
	raw.Account = sanitizeInput(raw.Account)
	raw.Notes = sanitizeInput(raw.Notes)

	t, err := s.transactions.Add(r.Context(), raw)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondStoreError(w, err)
		return
	}

	s.invalidateDerived()
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	var raw []core.RawTransaction
	var err error
	switch {
	case strings.Contains(contentType, "csv"):
		raw, err = importer.ParseCSV(r.Body)
	case contentType == "" || strings.Contains(contentType, "json"):
		raw, err = importer.ParseJSON(r.Body)
	default:
		respondError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported content type %q", contentType))
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.transactions.Import(r.Context(), raw)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	s.invalidateDerived()
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.transactions.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if err := importer.WriteCSV(w, txns); err != nil {
			respondStoreError(w, err)
		}
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
		if txns == nil {
			txns = []core.Transaction{}
		}
		if err := importer.WriteJSON(w, txns); err != nil {
			respondStoreError(w, err)
		}
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrEmptyAccount)
}
