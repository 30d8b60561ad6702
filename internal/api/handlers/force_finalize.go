package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// ForceFinalizeHandler closes the open window on demand, regardless of
// expiry.
type ForceFinalizeHandler struct {
	service aggregator.Service
	logger  lgr.L
}

// NewForceFinalizeHandler creates a new force-finalize handler.
func NewForceFinalizeHandler(service aggregator.Service, logger lgr.L) *ForceFinalizeHandler {
	return &ForceFinalizeHandler{service: service, logger: logger}
}

// HandleForceFinalize closes the currently open window immediately.
// @Summary Force-finalize the open window
// @Description Closes the currently open window immediately, regardless of its scheduled end
// @Tags ingest
// @Produce json
// @Success 200 {object} aggregator.ProofData "Proof generated from the closed window"
// @Success 204 "Window was empty or fully outlier-filtered; no proof generated"
// @Router /api/v1/force-finalize [post]
func (h *ForceFinalizeHandler) HandleForceFinalize(w http.ResponseWriter, r *http.Request) {
	proof, err := h.service.ForceFinalize(r.Context())
	if err != nil {
		h.logger.Logf("ERROR force finalize failed: %v", err)
		writeErrorResponse(w, err, "failed to finalize window")
		return
	}

	if proof == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(proof)
}
