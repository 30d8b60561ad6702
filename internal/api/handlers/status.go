package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// StatusHandler reports the aggregator's running state.
type StatusHandler struct {
	service aggregator.Service
	config  configSnapshot
	logger  lgr.L
}

// configSnapshot is the subset of the running configuration surfaced
// alongside status, so operators can confirm what a deployed instance is
// actually tuned to without shelling in.
type configSnapshot struct {
	WindowDurationSec          int     `json:"window_duration_sec"`
	MaxRecordsPerWindow        int     `json:"max_records_per_window"`
	OutlierThresholdMultiplier float64 `json:"outlier_threshold_multiplier"`
	SignatureVerificationOn    bool    `json:"signature_verification_enabled"`
}

// NewStatusHandler creates a new status handler. windowDurationSec,
// maxRecordsPerWindow, outlierThresholdMultiplier, and
// signatureVerificationOn are echoed back verbatim in every response's
// configuration block.
func NewStatusHandler(service aggregator.Service, logger lgr.L, windowDurationSec, maxRecordsPerWindow int, outlierThresholdMultiplier float64, signatureVerificationOn bool) *StatusHandler {
	return &StatusHandler{
		service: service,
		config: configSnapshot{
			WindowDurationSec:          windowDurationSec,
			MaxRecordsPerWindow:        maxRecordsPerWindow,
			OutlierThresholdMultiplier: outlierThresholdMultiplier,
			SignatureVerificationOn:    signatureVerificationOn,
		},
		logger: logger,
	}
}

type statusResponse struct {
	Status                string                   `json:"status"`
	CurrentWindow         *aggregator.WindowStatus `json:"current_window,omitempty"`
	TotalRecordsProcessed uint64                   `json:"total_records_processed"`
	TotalProofsGenerated  uint64                   `json:"total_proofs_generated"`
	LastProofGeneratedAt  *time.Time               `json:"last_proof_generated,omitempty"`
	Configuration         configSnapshot           `json:"configuration"`
}

// HandleStatus reports whether a window is open and the running counters.
// @Summary Service status
// @Description Reports the current window, if any, and the running admission counters
// @Tags status
// @Produce json
// @Success 200 {object} statusResponse
// @Router /api/v1/status [get]
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	window := h.service.GetWindowStatus()
	stats := h.service.GetStats()

	status := "idle"
	if window != nil {
		status = "open"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(statusResponse{
		Status:                status,
		CurrentWindow:         window,
		TotalRecordsProcessed: stats.TotalRecordsProcessed,
		TotalProofsGenerated:  stats.TotalProofsGenerated,
		LastProofGeneratedAt:  stats.LastProofGeneratedAt,
		Configuration:         h.config,
	})
}
