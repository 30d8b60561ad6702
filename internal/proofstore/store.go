// Package proofstore composes the file sink and the Badger index behind a
// single aggregator.Sink, so the Aggregator never depends on either
// concretely.
package proofstore

import (
	"context"

	"github.com/go-pkgz/lgr"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

// fileSink is the subset of filestore.Sink this package depends on.
type fileSink interface {
	Save(ctx context.Context, proof *aggregator.ProofData) error
	Latest(ctx context.Context) (*aggregator.ProofData, error)
}

// badgerIndex is the subset of badgerindex.Index this package depends on.
type badgerIndex interface {
	Save(ctx context.Context, proof *aggregator.ProofData) error
	Latest(ctx context.Context) (*aggregator.ProofData, error)
}

// Composite writes every proof to both the file sink and the Badger
// index, and reads Latest preferentially from the index, falling back to
// the file sink when the index returns an error or holds no proof (e.g.
// the first run against a pre-existing output_dir). The two are not
// compared: a proof the index does hold is returned as is.
type Composite struct {
	files  fileSink
	index  badgerIndex
	logger lgr.L
}

// New composes files and index into a single aggregator.Sink.
func New(files fileSink, index badgerIndex, logger lgr.L) *Composite {
	return &Composite{files: files, index: index, logger: logger}
}

// Save writes proof to the file sink first — the source of truth — then
// the Badger index. A file-sink failure is returned; an index failure is
// only logged, since the index is a cache.
func (c *Composite) Save(ctx context.Context, proof *aggregator.ProofData) error {
	if err := c.files.Save(ctx, proof); err != nil {
		return err
	}
	if err := c.index.Save(ctx, proof); err != nil {
		c.logger.Logf("WARN proofstore: badger index update failed for proof %s: %v", proof.ProofID, err)
	}
	return nil
}

// Latest prefers the Badger index and falls back to the file sink.
func (c *Composite) Latest(ctx context.Context) (*aggregator.ProofData, error) {
	proof, err := c.index.Latest(ctx)
	if err == nil && proof != nil {
		return proof, nil
	}
	return c.files.Latest(ctx)
}
