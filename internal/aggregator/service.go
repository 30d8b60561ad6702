package aggregator

import "context"

//go:generate moq -out service_mock.go . Service

// Service is the Aggregator's public surface: admission, forced
// finalisation, and read-only snapshots of the latest proof, the open
// window, and the running counters.
type Service interface {
	// Ingest validates, verifies, hashes, and admits record into the
	// currently open window (rotating or opening one as needed), returning
	// a receipt identifier on success.
	Ingest(ctx context.Context, record MeterRecord, signature string) (receiptID string, err error)

	// ForceFinalize finalises the open window regardless of expiry. It
	// returns ErrNoProofs-wrapped nil-proof behavior only via
	// GetLatestProof; an empty window finalised this way produces no
	// proof and ForceFinalize returns (nil, nil).
	ForceFinalize(ctx context.Context) (*ProofData, error)

	// GetLatestProof returns the most recently emitted proof, or
	// ErrNoProofs if none has ever been generated.
	GetLatestProof(ctx context.Context) (*ProofData, error)

	// GetWindowStatus returns a snapshot of the currently open window, or
	// nil if no window is open.
	GetWindowStatus() *WindowStatus

	// GetStats returns a snapshot of the running counters.
	GetStats() AggregatorStats
}
