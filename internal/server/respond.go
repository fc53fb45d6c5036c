package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitledger/splitledger/internal/ledger"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses: validation problems are
// 400, missing records 404, ledger inconsistencies 409, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrParticipantNotFound),
		errors.Is(err, ledger.ErrGroupNotFound),
		errors.Is(err, ledger.ErrExpenseNotFound),
		errors.Is(err, ledger.ErrSettlementNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case ledger.IsConsistency(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		slog.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decode parses a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ledger.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}
