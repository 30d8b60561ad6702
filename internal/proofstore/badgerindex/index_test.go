package badgerindex

import (
	"context"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(t.TempDir(), lgr.NoOp)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func sampleProof(windowStart time.Time) *aggregator.ProofData {
	return &aggregator.ProofData{
		ProofID:      "p1",
		AggregateKwh: 2.5,
		MerkleRoot:   "deadbeef",
		WindowStart:  windowStart,
		WindowEnd:    windowStart.Add(time.Hour),
		RecordCount:  2,
		MeterIDs:     []string{"m1", "m2"},
		GeneratedAt:  time.Now(),
		Version:      aggregator.ProofVersion,
	}
}

func TestIndex_SaveAndLatest(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	windowStart := time.Now().Truncate(time.Hour)
	proof := sampleProof(windowStart)

	require.NoError(t, idx.Save(ctx, proof))

	latest, err := idx.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, proof.ProofID, latest.ProofID)
}

func TestIndex_LatestIsNilWhenEmpty(t *testing.T) {
	idx := openTestIndex(t)

	latest, err := idx.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestIndex_ByWindowStart(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	windowStart := time.Now().Truncate(time.Hour)
	proof := sampleProof(windowStart)
	require.NoError(t, idx.Save(ctx, proof))

	found, err := idx.ByWindowStart(ctx, windowStart)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, proof.ProofID, found.ProofID)

	missing, err := idx.ByWindowStart(ctx, windowStart.Add(-time.Hour))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIndex_LatestReflectsMostRecentSave(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	first := sampleProof(time.Now().Truncate(time.Hour).Add(-time.Hour))
	first.ProofID = "p1"
	second := sampleProof(time.Now().Truncate(time.Hour))
	second.ProofID = "p2"

	require.NoError(t, idx.Save(ctx, first))
	require.NoError(t, idx.Save(ctx, second))

	latest, err := idx.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "p2", latest.ProofID)
}
