package filestore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

func sampleProof(id string) *aggregator.ProofData {
	now := time.Now().Truncate(time.Second)
	return &aggregator.ProofData{
		ProofID:      id,
		AggregateKwh: 3.5,
		MerkleRoot:   strings.Repeat("ab", 32),
		WindowStart:  now.Add(-time.Hour),
		WindowEnd:    now,
		RecordCount:  2,
		MeterIDs:     []string{"m1", "m2"},
		GeneratedAt:  now,
		Version:      aggregator.ProofVersion,
	}
}

func TestSink_SaveAndLatest(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(dir)
	require.NoError(t, err)

	ctx := context.Background()
	proof := sampleProof("p1")

	require.NoError(t, sink.Save(ctx, proof))

	assert.FileExists(t, filepath.Join(dir, "proof_p1.json"))
	assert.FileExists(t, filepath.Join(dir, "latest.json"))

	latest, err := sink.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, proof.ProofID, latest.ProofID)
	assert.Equal(t, proof.MeterIDs, latest.MeterIDs)
}

func TestSink_LatestReturnsNilWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(dir)
	require.NoError(t, err)

	latest, err := sink.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSink_LatestReflectsMostRecentSave(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Save(ctx, sampleProof("p1")))
	require.NoError(t, sink.Save(ctx, sampleProof("p2")))

	latest, err := sink.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "p2", latest.ProofID)

	assert.FileExists(t, filepath.Join(dir, "proof_p1.json"))
	assert.FileExists(t, filepath.Join(dir, "proof_p2.json"))
}
