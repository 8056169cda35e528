package main

import (
	"errors"
	"net/http"

	"github.com/Simplici0/diamond-courier/internal/pricing"
	"github.com/Simplici0/diamond-courier/internal/service"
	"github.com/Simplici0/diamond-courier/internal/store"
)

// handleEstimate prices the form as it is being filled in. It never rejects
// field values; an unpriceable form returns diamonds: null.
func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.log)
		return
	}

	writeJSON(w, http.StatusOK, service.EstimateFields(pricing.FormFields(fields)), s.log)
}

func (s *server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.log)
		return
	}

	sub, err := s.requests.Submit(r.Context(), clientIDFrom(r.Context()), fields)
	if err != nil {
		if writeSubmitError(w, err, s.log) {
			return
		}
		s.log.Error("failed to submit service request", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", s.log)
		return
	}

	writeJSON(w, http.StatusCreated, sub, s.log)
}

// Draft reads and writes never fail the request: a broken slot reads as
// no draft and a failed save is only logged.
func (s *server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFrom(r.Context())

	d, err := s.state.Draft(r.Context(), clientID)
	if err != nil {
		if !errors.Is(err, store.ErrEmpty) {
			s.log.Warn("failed to read draft", "client_id", clientID, "error", err)
		}
		d = nil
	}

	writeJSON(w, http.StatusOK, map[string]any{"draft": d}, s.log)
}

func (s *server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	var d store.Draft
	if err := decodeJSON(w, r, &d); err != nil || d == nil {
		writeError(w, http.StatusBadRequest, "Draft must be a JSON object", s.log)
		return
	}

	clientID := clientIDFrom(r.Context())
	if err := s.state.SaveDraft(r.Context(), clientID, d); err != nil {
		s.log.Warn("failed to save draft", "client_id", clientID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFrom(r.Context())
	if err := s.state.ClearDraft(r.Context(), clientID); err != nil {
		s.log.Warn("failed to clear draft", "client_id", clientID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
