package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// IngestHandler handles meter record submissions.
type IngestHandler struct {
	service aggregator.Service
	logger  lgr.L
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(service aggregator.Service, logger lgr.L) *IngestHandler {
	return &IngestHandler{service: service, logger: logger}
}

// ingestRequest is the envelope a meter submits: the record plus its
// recoverable signature over the record's canonical encoding.
type ingestRequest struct {
	Record    aggregator.MeterRecord `json:"record"`
	Signature string                 `json:"sig"`
}

type ingestResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ReceiptID string    `json:"receipt_id,omitempty"`
}

// HandleIngest admits a signed meter reading into the currently open window.
// @Summary Ingest a meter reading
// @Description Validates, verifies, and admits a signed (meter_id, timestamp, kwh_delta, nonce) record
// @Tags ingest
// @Accept json
// @Produce json
// @Param body body ingestRequest true "Record and its recoverable ECDSA signature"
// @Success 200 {object} ingestResponse "Record admitted"
// @Failure 400 {object} ErrorResponse "Validation failure"
// @Failure 401 {object} ErrorResponse "Signature verification failed"
// @Failure 409 {object} ErrorResponse "Duplicate (meter_id, nonce) in the open window"
// @Router /api/v1/ingest [post]
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, aggregator.ErrValidation, "malformed request body")
		return
	}

	receiptID, err := h.service.Ingest(r.Context(), req.Record, req.Signature)
	if err != nil {
		h.logger.Logf("WARN ingest rejected for meter %s: %v", req.Record.MeterID, err)
		writeErrorResponse(w, err, "record rejected")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ingestResponse{
		Success:   true,
		Message:   "record admitted",
		Timestamp: time.Now(),
		ReceiptID: receiptID,
	})
}
