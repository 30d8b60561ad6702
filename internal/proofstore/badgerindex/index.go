// Package badgerindex is a Badger-backed secondary index over finalised
// proofs, adapted from the snapshot-by-epoch storage pattern this service
// is grounded on: it keys proofs by window start so the latest one can be
// fetched without re-scanning the JSON output directory.
package badgerindex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

const latestKey = "proof:latest"

// Index implements aggregator.Sink as a cache/index over Badger, meant to
// be composed alongside (not in place of) the file sink.
type Index struct {
	db     *badger.DB
	logger lgr.L
}

// Open opens (creating if absent) a Badger database at dbPath.
func Open(dbPath string, logger lgr.L) (*Index, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = newBadgerLogger(logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerindex: open database: %w", err)
	}

	return &Index{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Save indexes proof by its window start and updates the latest pointer.
func (idx *Index) Save(ctx context.Context, proof *aggregator.ProofData) error {
	data, err := json.Marshal(proof)
	if err != nil {
		return fmt.Errorf("badgerindex: marshal proof: %w", err)
	}

	key := buildProofKey(proof.WindowStart)

	err = idx.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("badgerindex: save proof: %w", err)
	}

	err = idx.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(latestKey), data)
	})
	if err != nil {
		idx.logger.Logf("WARN badgerindex: failed to update latest pointer: %v", err)
	}

	idx.logger.Logf("INFO badgerindex: indexed proof %s for window %s", proof.ProofID, proof.WindowStart)
	return nil
}

// Latest returns the most recently indexed proof, or (nil, nil) if the
// index holds none yet.
func (idx *Index) Latest(ctx context.Context) (*aggregator.ProofData, error) {
	var data []byte
	err := idx.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})

	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("badgerindex: read latest pointer: %w", err)
	}

	var proof aggregator.ProofData
	if err := json.Unmarshal(data, &proof); err != nil {
		return nil, fmt.Errorf("badgerindex: unmarshal latest proof: %w", err)
	}
	return &proof, nil
}

// ByWindowStart returns the proof indexed for the window that started at
// windowStart, if any.
func (idx *Index) ByWindowStart(ctx context.Context, windowStart time.Time) (*aggregator.ProofData, error) {
	key := buildProofKey(windowStart)

	var data []byte
	err := idx.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})

	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("badgerindex: read proof: %w", err)
	}

	var proof aggregator.ProofData
	if err := json.Unmarshal(data, &proof); err != nil {
		return nil, fmt.Errorf("badgerindex: unmarshal proof: %w", err)
	}
	return &proof, nil
}

// buildProofKey zero-pads the window start's unix nanoseconds so
// lexicographic byte order matches chronological order.
func buildProofKey(windowStart time.Time) string {
	return fmt.Sprintf("proof:window:%020d", windowStart.UnixNano())
}

// badgerLogger adapts lgr.L to badger's Logger interface.
type badgerLogger struct {
	lgr lgr.L
}

func newBadgerLogger(l lgr.L) *badgerLogger {
	return &badgerLogger{lgr: l}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.lgr.Logf("ERROR "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.lgr.Logf("WARN "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.lgr.Logf("INFO "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.lgr.Logf("DEBUG "+format, args...)
}
