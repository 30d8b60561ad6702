package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
	"github.com/greenshare/meter-aggregator/internal/sealing"
)

// ErrSealingDisabled is returned when no sealing gateway endpoint was
// configured at startup.
var ErrSealingDisabled = errors.New("sealing gateway is not configured")

// uploader is the subset of sealing.Client this handler depends on.
type uploader interface {
	Upload(ctx context.Context, proof *aggregator.ProofData) (*sealing.Result, error)
}

// SealHandler submits a proof to the external sealing gateway on demand.
// The gateway may be nil, in which case every call fails with
// ErrSealingDisabled.
type SealHandler struct {
	service aggregator.Service
	gateway uploader
	logger  lgr.L
}

// NewSealHandler creates a new seal handler. gateway may be nil.
func NewSealHandler(service aggregator.Service, gateway uploader, logger lgr.L) *SealHandler {
	return &SealHandler{service: service, gateway: gateway, logger: logger}
}

type sealRequest struct {
	ProofID     string `json:"proof_id"`
	ForceLatest bool   `json:"force_latest"`
}

type sealResponse struct {
	BlobID   string `json:"blob_id"`
	Cost     uint64 `json:"cost"`
	TxDigest string `json:"tx_digest"`
}

// HandleSeal uploads the latest proof to the sealing gateway. A proof_id,
// when given, must name the latest proof; any other id yields 404.
// @Summary Seal a proof
// @Description Submits the latest proof to the external content-addressed sealing gateway; a proof_id that does not name the latest proof yields 404
// @Tags proofs
// @Accept json
// @Produce json
// @Param body body sealRequest true "Either proof_id or force_latest must be set"
// @Success 200 {object} sealResponse
// @Failure 400 {object} ErrorResponse "Neither proof_id nor force_latest given"
// @Failure 404 {object} ErrorResponse "Nothing to seal"
// @Router /api/v1/seal [post]
func (h *SealHandler) HandleSeal(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		writeErrorResponse(w, ErrSealingDisabled, "sealing is not configured")
		return
	}

	var req sealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, aggregator.ErrValidation, "malformed request body")
		return
	}
	if req.ProofID == "" && !req.ForceLatest {
		writeErrorResponse(w, aggregator.ErrValidation, "either proof_id or force_latest is required")
		return
	}

	proof, err := h.service.GetLatestProof(r.Context())
	if err != nil {
		writeErrorResponse(w, err, "failed to locate proof to seal")
		return
	}
	if req.ProofID != "" && req.ProofID != proof.ProofID {
		writeErrorResponse(w, aggregator.ErrNoProofs, "requested proof is not the latest and cannot be located")
		return
	}

	result, err := h.gateway.Upload(r.Context(), proof)
	if err != nil {
		h.logger.Logf("ERROR failed to seal proof %s: %v", proof.ProofID, err)
		writeErrorResponse(w, err, "failed to seal proof")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(sealResponse{
		BlobID:   result.BlobID,
		Cost:     result.Cost,
		TxDigest: result.TxDigest,
	})
}
