// Package sealing submits finalised proofs to an optional external
// content-addressed storage gateway. The gateway is a collaborator, not a
// dependency: its absence or failure never fails a finalisation.
package sealing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

const requestTimeout = 60 * time.Second

// uploadRequest is the PUT body the gateway expects.
type uploadRequest struct {
	Data      string `json:"data"`
	Epochs    int    `json:"epochs"`
	Deletable bool   `json:"deletable"`
}

// sealEvent mirrors the gateway's on-chain-anchoring receipt.
type sealEvent struct {
	TxDigest string `json:"tx_digest"`
	EventSeq uint64 `json:"event_seq"`
}

// uploadResponse is the gateway's PUT response.
type uploadResponse struct {
	BlobID string    `json:"blob_id"`
	Cost   uint64    `json:"cost"`
	Event  sealEvent `json:"event"`
}

// Result is what Seal returns on success.
type Result struct {
	BlobID   string
	Cost     uint64
	TxDigest string
	EventSeq uint64
}

// proofEnvelope is the base64-then-JSON-encoded payload, carrying the
// proof alongside descriptive metadata for the gateway's indexers.
type proofEnvelope struct {
	ProofData aggregator.ProofData `json:"proof_data"`
	Metadata  map[string]string    `json:"metadata"`
}

// Client PUTs proofs to a configured gateway endpoint.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	defaultEpochs int
}

// New returns a Client targeting endpoint (the gateway's base URL, e.g.
// "https://publisher.example.com"). defaultEpochs is the storage-epoch
// count sent on every upload.
func New(endpoint string, defaultEpochs int) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		endpoint:      endpoint,
		defaultEpochs: defaultEpochs,
	}
}

// Seal uploads proof to the gateway, satisfying aggregator.Sealer. Use
// Upload directly when the storage receipt itself is needed.
func (c *Client) Seal(ctx context.Context, proof *aggregator.ProofData) error {
	_, err := c.Upload(ctx, proof)
	return err
}

// Upload uploads proof to the gateway and returns its storage receipt.
func (c *Client) Upload(ctx context.Context, proof *aggregator.ProofData) (*Result, error) {
	envelope := proofEnvelope{
		ProofData: *proof,
		Metadata: map[string]string{
			"version":             aggregator.ProofVersion,
			"proof_type":          "aggregated_meter_data",
			"generation_timestamp": proof.GeneratedAt.Format(time.RFC3339),
			"window_duration_sec": strconv.FormatInt(int64(proof.WindowEnd.Sub(proof.WindowStart).Seconds()), 10),
			"record_count":        strconv.Itoa(proof.RecordCount),
			"total_kwh":           strconv.FormatFloat(proof.AggregateKwh, 'f', -1, 64),
		},
	}

	envelopeJSON, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal envelope: %v", ErrSealFailed, err)
	}

	reqBody := uploadRequest{
		Data:      base64.StdEncoding.EncodeToString(envelopeJSON),
		Epochs:    c.defaultEpochs,
		Deletable: false,
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrSealFailed, err)
	}

	url := c.endpoint + "/v1/store"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSealFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: gateway returned %d: %s", ErrSealFailed, resp.StatusCode, string(body))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSealFailed, err)
	}

	return &Result{
		BlobID:   uploaded.BlobID,
		Cost:     uploaded.Cost,
		TxDigest: uploaded.Event.TxDigest,
		EventSeq: uploaded.Event.EventSeq,
	}, nil
}
