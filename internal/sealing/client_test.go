package sealing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

func sampleProof() *aggregator.ProofData {
	now := time.Now()
	return &aggregator.ProofData{
		ProofID:      "p1",
		AggregateKwh: 12.5,
		MerkleRoot:   "abcd",
		WindowStart:  now.Add(-time.Hour),
		WindowEnd:    now,
		RecordCount:  3,
		MeterIDs:     []string{"m1", "m2"},
		GeneratedAt:  now,
		Version:      aggregator.ProofVersion,
	}
}

func TestClient_Upload_Success(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody uploadRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(uploadResponse{
			BlobID: "blob-123",
			Cost:   42,
			Event:  sealEvent{TxDigest: "0xdead", EventSeq: 7},
		})
	}))
	defer server.Close()

	client := New(server.URL, 5)
	result, err := client.Upload(context.Background(), sampleProof())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/store", gotPath)
	assert.Equal(t, 5, gotBody.Epochs)
	assert.False(t, gotBody.Deletable)
	assert.NotEmpty(t, gotBody.Data)

	assert.Equal(t, "blob-123", result.BlobID)
	assert.Equal(t, uint64(42), result.Cost)
	assert.Equal(t, "0xdead", result.TxDigest)
	assert.Equal(t, uint64(7), result.EventSeq)
}

func TestClient_Upload_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("gateway unavailable"))
	}))
	defer server.Close()

	client := New(server.URL, 5)
	_, err := client.Upload(context.Background(), sampleProof())
	assert.ErrorIs(t, err, ErrSealFailed)
}

func TestClient_Seal_SatisfiesSealerInterface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(uploadResponse{BlobID: "blob-1"})
	}))
	defer server.Close()

	var sealer aggregator.Sealer = New(server.URL, 1)
	err := sealer.Seal(context.Background(), sampleProof())
	assert.NoError(t, err)
}
