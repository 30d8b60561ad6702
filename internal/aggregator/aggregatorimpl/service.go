// Package aggregatorimpl implements the window-aggregation state machine
// described by the aggregator package's Service interface.
package aggregatorimpl

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
	"github.com/greenshare/meter-aggregator/internal/hashing"
	"github.com/greenshare/meter-aggregator/internal/merkletree"
	"github.com/greenshare/meter-aggregator/internal/outlier"
	"github.com/greenshare/meter-aggregator/internal/signing"
)

const (
	maxMeterIDLen = 100
	nonceHexLen   = 32
	maxKwhDelta   = 1000.0
	pastBound     = 24 * time.Hour
	futureBound   = 5 * time.Minute
)

// window is the mutable state of the currently open aggregation window.
type window struct {
	start   time.Time
	end     time.Time
	records []aggregator.VerifiedRecord
}

// Config is the set of tunables the state machine needs, sourced from the
// environment per the configuration surface.
type Config struct {
	WindowDuration              time.Duration
	MaxRecordsPerWindow         int
	OutlierThresholdMultiplier  float64
	EnableSignatureVerification bool
	PersistenceTimeout          time.Duration
}

// Service is the mutex-guarded, single-logical-writer implementation of
// aggregator.Service. The Hasher, SignatureVerifier, and OutlierDetector it
// drives are stateless package functions; the mutex guards only the open
// window and the stats counters.
type Service struct {
	mu sync.Mutex

	cfg Config

	win   *window
	stats aggregator.AggregatorStats

	sink   aggregator.Sink
	sealer aggregator.Sealer
	logger lgr.L
}

// New builds a Service. sealer may be nil — sealing is optional.
func New(cfg Config, sink aggregator.Sink, sealer aggregator.Sealer, logger lgr.L) *Service {
	return &Service{
		cfg:    cfg,
		sink:   sink,
		sealer: sealer,
		logger: logger,
	}
}

// Ingest validates the record, optionally verifies the signature, hashes
// it, rotates the window if needed, rejects duplicates, rotates on
// capacity, appends, and returns a receipt.
func (s *Service) Ingest(ctx context.Context, record aggregator.MeterRecord, signature string) (string, error) {
	if err := validate(record); err != nil {
		return "", err
	}

	if s.cfg.EnableSignatureVerification {
		hr := toHashingRecord(record)
		if !signing.Verify(hr, signature) {
			s.mu.Lock()
			s.stats.RecordsRejectedSignature++
			s.mu.Unlock()
			return "", fmt.Errorf("%w: recoverable signature check failed", aggregator.ErrInvalidSignature)
		}
	}

	recordHash, err := hashing.RecordHash(toHashingRecord(record))
	if err != nil {
		return "", fmt.Errorf("%w: %v", aggregator.ErrMerkle, err)
	}

	s.mu.Lock()

	now := time.Now()

	if s.win == nil {
		s.win = s.openWindow(now)
	} else if !now.Before(s.win.end) {
		expired := s.win
		s.win = nil
		s.mu.Unlock()
		if _, err := s.finalize(ctx, expired); err != nil {
			s.logger.Logf("WARN expired window finalisation during ingest failed: %v", err)
		}
		s.mu.Lock()
		if s.win == nil {
			s.win = s.openWindow(now)
		}
	}

	for _, existing := range s.win.records {
		if existing.Record.MeterID == record.MeterID && existing.Record.Nonce == record.Nonce {
			s.stats.RecordsRejectedDuplicate++
			s.mu.Unlock()
			return "", fmt.Errorf("%w: meter_id=%s", aggregator.ErrDuplicate, record.MeterID)
		}
	}

	if s.cfg.MaxRecordsPerWindow > 0 && len(s.win.records) >= s.cfg.MaxRecordsPerWindow {
		full := s.win
		s.win = s.openWindow(now)
		s.mu.Unlock()
		if _, err := s.finalize(ctx, full); err != nil {
			s.logger.Logf("WARN capacity-triggered finalisation failed: %v", err)
		}
		s.mu.Lock()
	}

	s.win.records = append(s.win.records, aggregator.VerifiedRecord{
		Record:     record,
		Signature:  signature,
		VerifiedAt: now,
		RecordHash: recordHash,
	})
	s.stats.TotalRecordsProcessed++
	s.mu.Unlock()

	return uuid.New().String(), nil
}

// ForceFinalize finalises the open window regardless of expiry.
func (s *Service) ForceFinalize(ctx context.Context) (*aggregator.ProofData, error) {
	s.mu.Lock()
	win := s.win
	s.win = nil
	s.mu.Unlock()

	if win == nil {
		return nil, nil
	}

	return s.finalize(ctx, win)
}

// MaybeRotate finalises the open window only if it has already expired. It
// never force-finalises a live window; the window janitor calls this on a
// ticker so a window that fills and ages out without further Ingest
// traffic still gets finalised.
func (s *Service) MaybeRotate(ctx context.Context) {
	s.mu.Lock()
	if s.win == nil || time.Now().Before(s.win.end) {
		s.mu.Unlock()
		return
	}
	expired := s.win
	s.win = nil
	s.mu.Unlock()

	if _, err := s.finalize(ctx, expired); err != nil {
		s.logger.Logf("WARN janitor finalisation failed: %v", err)
	}
}

// GetLatestProof returns the most recently persisted proof.
func (s *Service) GetLatestProof(ctx context.Context) (*aggregator.ProofData, error) {
	proof, err := s.sink.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aggregator.ErrRetrieval, err)
	}
	if proof == nil {
		return nil, aggregator.ErrNoProofs
	}
	return proof, nil
}

// GetWindowStatus returns a snapshot of the currently open window.
func (s *Service) GetWindowStatus() *aggregator.WindowStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.win == nil {
		return nil
	}

	remaining := time.Until(s.win.end)
	if remaining < 0 {
		remaining = 0
	}

	return &aggregator.WindowStatus{
		WindowStart:      s.win.start,
		WindowEnd:        s.win.end,
		RecordsCollected: len(s.win.records),
		TimeRemaining:    remaining,
	}
}

// GetStats returns a snapshot of the running counters.
func (s *Service) GetStats() aggregator.AggregatorStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// openWindow opens a new window aligned to the top of the current hour.
// This holds even when cfg.WindowDuration does not divide an hour evenly,
// and even when it exceeds an hour (in which case window_start appears to
// be in the past). Kept on purpose, not a bug.
func (s *Service) openWindow(now time.Time) *window {
	start := now.Truncate(time.Hour)
	return &window{
		start: start,
		end:   start.Add(s.cfg.WindowDuration),
	}
}

// finalize runs the proof pipeline over win and, if a proof was produced,
// persists and (best-effort) seals it, then updates stats. A window that
// contains no non-outlier records yields no proof and is not an error.
func (s *Service) finalize(ctx context.Context, win *window) (*aggregator.ProofData, error) {
	if len(win.records) == 0 {
		return nil, nil
	}

	values := make([]float64, len(win.records))
	for i, r := range win.records {
		values[i] = r.Record.KwhDelta
	}

	mask := outlier.Detect(values, s.cfg.OutlierThresholdMultiplier)

	var kept []aggregator.VerifiedRecord
	rejectedOutlier := 0
	for i, r := range win.records {
		if mask[i] {
			rejectedOutlier++
			continue
		}
		kept = append(kept, r)
	}

	s.mu.Lock()
	s.stats.RecordsRejectedOutlier += uint64(rejectedOutlier)
	s.mu.Unlock()

	if len(kept) == 0 {
		return nil, nil
	}

	aggregateKwh := 0.0
	meterSet := make(map[string]struct{}, len(kept))
	leaves := make([]string, len(kept))
	for i, r := range kept {
		aggregateKwh += r.Record.KwhDelta
		meterSet[r.Record.MeterID] = struct{}{}
		leaves[i] = r.RecordHash
	}

	meterIDs := make([]string, 0, len(meterSet))
	for id := range meterSet {
		meterIDs = append(meterIDs, id)
	}
	sort.Strings(meterIDs)

	tree, err := merkletree.Build(leaves)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aggregator.ErrMerkle, err)
	}

	proof := &aggregator.ProofData{
		ProofID:      uuid.New().String(),
		AggregateKwh: aggregateKwh,
		MerkleRoot:   tree.Root(),
		WindowStart:  win.start,
		WindowEnd:    win.end,
		RecordCount:  len(kept),
		MeterIDs:     meterIDs,
		GeneratedAt:  time.Now(),
		Version:      aggregator.ProofVersion,
	}

	saveCtx := ctx
	if s.cfg.PersistenceTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
		defer cancel()
	}
	// The sink may not observe saveCtx itself, so waiting for it is bounded
	// here; a save still running when saveCtx ends is reported as failed.
	saved := make(chan error, 1)
	go func() { saved <- s.sink.Save(saveCtx, proof) }()
	var saveErr error
	select {
	case saveErr = <-saved:
	case <-saveCtx.Done():
		saveErr = saveCtx.Err()
	}
	if saveErr != nil {
		return nil, fmt.Errorf("%w: %v", aggregator.ErrPersistence, saveErr)
	}

	s.mu.Lock()
	s.stats.TotalProofsGenerated++
	generatedAt := proof.GeneratedAt
	s.stats.LastProofGeneratedAt = &generatedAt
	s.mu.Unlock()

	if s.sealer != nil {
		if err := s.sealer.Seal(ctx, proof); err != nil {
			s.logger.Logf("WARN proof %s sealing failed: %v", proof.ProofID, err)
		}
	}

	return proof, nil
}

// validate enforces the structural admission predicates on a raw record.
func validate(record aggregator.MeterRecord) error {
	if record.MeterID == "" || len(record.MeterID) > maxMeterIDLen {
		return fmt.Errorf("%w: meter_id must be non-empty and at most %d bytes", aggregator.ErrValidation, maxMeterIDLen)
	}

	if len(record.Nonce) != nonceHexLen {
		return fmt.Errorf("%w: nonce must be exactly %d hex characters", aggregator.ErrValidation, nonceHexLen)
	}
	if _, err := hex.DecodeString(record.Nonce); err != nil {
		return fmt.Errorf("%w: nonce must be hex-encoded", aggregator.ErrValidation)
	}

	if math.IsNaN(record.KwhDelta) || math.IsInf(record.KwhDelta, 0) {
		return fmt.Errorf("%w: kwh_delta must be finite", aggregator.ErrValidation)
	}
	if record.KwhDelta <= 0 || record.KwhDelta > maxKwhDelta {
		return fmt.Errorf("%w: kwh_delta must be > 0 and <= %v", aggregator.ErrValidation, maxKwhDelta)
	}

	ts := time.UnixMilli(record.Timestamp)
	now := time.Now()
	if ts.Before(now.Add(-pastBound)) || ts.After(now.Add(futureBound)) {
		return fmt.Errorf("%w: timestamp out of bounds", aggregator.ErrValidation)
	}

	return nil
}

func toHashingRecord(r aggregator.MeterRecord) hashing.Record {
	return hashing.Record{
		MeterID:   r.MeterID,
		Timestamp: r.Timestamp,
		KwhDelta:  r.KwhDelta,
		Nonce:     r.Nonce,
	}
}
