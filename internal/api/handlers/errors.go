package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// ErrorResponse is the envelope every error route returns.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// writeErrorResponse maps err to its taxonomy code and HTTP status via
// errors.Is — never substring matching — and writes the envelope.
func writeErrorResponse(w http.ResponseWriter, err error, message string) {
	code, status := classify(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
		Details:   err.Error(),
	})
}

func classify(err error) (code string, status int) {
	switch {
	case errors.Is(err, aggregator.ErrValidation):
		return "validation_error", http.StatusBadRequest
	case errors.Is(err, aggregator.ErrInvalidSignature):
		return "invalid_signature", http.StatusUnauthorized
	case errors.Is(err, aggregator.ErrDuplicate):
		return "duplicate", http.StatusConflict
	case errors.Is(err, aggregator.ErrNoProofs):
		return "no_proofs", http.StatusNotFound
	case errors.Is(err, aggregator.ErrRetrieval):
		return "retrieval_error", http.StatusInternalServerError
	case errors.Is(err, aggregator.ErrPersistence):
		return "persistence_error", http.StatusInternalServerError
	case errors.Is(err, aggregator.ErrMerkle):
		return "merkle_error", http.StatusInternalServerError
	case errors.Is(err, ErrSealingDisabled):
		return "sealing_disabled", http.StatusServiceUnavailable
	default:
		return "internal_error", http.StatusInternalServerError
	}
}
