package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// ProofHandler serves the most recently generated proof.
type ProofHandler struct {
	service aggregator.Service
	logger  lgr.L
}

// NewProofHandler creates a new proof handler.
func NewProofHandler(service aggregator.Service, logger lgr.L) *ProofHandler {
	return &ProofHandler{service: service, logger: logger}
}

// HandleLatestProof returns the most recently emitted proof.
// @Summary Latest proof
// @Description Returns the most recently generated aggregation proof
// @Tags proofs
// @Produce json
// @Success 200 {object} aggregator.ProofData
// @Failure 404 {object} ErrorResponse "No proof has been generated yet"
// @Router /api/v1/proofs/latest [get]
func (h *ProofHandler) HandleLatestProof(w http.ResponseWriter, r *http.Request) {
	proof, err := h.service.GetLatestProof(r.Context())
	if err != nil {
		if errors.Is(err, aggregator.ErrNoProofs) {
			writeErrorResponse(w, err, "no proofs available")
			return
		}
		h.logger.Logf("ERROR failed to read latest proof: %v", err)
		writeErrorResponse(w, err, "failed to read latest proof")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(proof)
}
