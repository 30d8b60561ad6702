package proofstore

import (
	"context"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

type stubSink struct {
	saved   []*aggregator.ProofData
	latest  *aggregator.ProofData
	saveErr error
}

func (s *stubSink) Save(ctx context.Context, proof *aggregator.ProofData) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, proof)
	s.latest = proof
	return nil
}

func (s *stubSink) Latest(ctx context.Context) (*aggregator.ProofData, error) {
	return s.latest, nil
}

func sampleProof() *aggregator.ProofData {
	return &aggregator.ProofData{
		ProofID:     "p1",
		WindowStart: time.Now(),
		MeterIDs:    []string{"m1"},
		Version:     aggregator.ProofVersion,
	}
}

func TestComposite_SaveWritesBothSinks(t *testing.T) {
	files := &stubSink{}
	index := &stubSink{}
	c := New(files, index, lgr.NoOp)

	proof := sampleProof()
	require.NoError(t, c.Save(context.Background(), proof))

	assert.Len(t, files.saved, 1)
	assert.Len(t, index.saved, 1)
}

func TestComposite_LatestPrefersIndex(t *testing.T) {
	files := &stubSink{latest: &aggregator.ProofData{ProofID: "from-files"}}
	index := &stubSink{latest: &aggregator.ProofData{ProofID: "from-index"}}
	c := New(files, index, lgr.NoOp)

	latest, err := c.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "from-index", latest.ProofID)
}

func TestComposite_LatestFallsBackToFiles(t *testing.T) {
	files := &stubSink{latest: &aggregator.ProofData{ProofID: "from-files"}}
	index := &stubSink{}
	c := New(files, index, lgr.NoOp)

	latest, err := c.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "from-files", latest.ProofID)
}

func TestComposite_SavePropagatesFileSinkError(t *testing.T) {
	files := &stubSink{saveErr: assert.AnError}
	index := &stubSink{}
	c := New(files, index, lgr.NoOp)

	err := c.Save(context.Background(), sampleProof())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestComposite_SaveToleratesIndexError(t *testing.T) {
	files := &stubSink{}
	index := &stubSink{saveErr: assert.AnError}
	c := New(files, index, lgr.NoOp)

	err := c.Save(context.Background(), sampleProof())
	assert.NoError(t, err)
	assert.Len(t, files.saved, 1)
}
