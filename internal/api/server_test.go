package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
)

func newTestServer(mock *aggregator.ServiceMock) *Server {
	return New(mock, nil, lgr.NoOp, "0.0.0.0", 8080, StatusConfig{
		WindowDurationSec:           3600,
		MaxRecordsPerWindow:         1000,
		OutlierThresholdMultiplier:  3.0,
		EnableSignatureVerification: true,
	})
}

func TestServer_HealthCheck(t *testing.T) {
	server := newTestServer(&aggregator.ServiceMock{})
	handler := server.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_IngestRoute_BothPrefixes(t *testing.T) {
	mock := &aggregator.ServiceMock{
		IngestFunc: func(ctx context.Context, record aggregator.MeterRecord, signature string) (string, error) {
			return "receipt-1", nil
		},
	}
	server := newTestServer(mock)
	handler := server.SetupRoutes()

	body, _ := json.Marshal(map[string]any{
		"record": aggregator.MeterRecord{MeterID: "m-1", Timestamp: 1, KwhDelta: 1.0, Nonce: "abc"},
		"sig":    "deadbeef",
	})

	for _, path := range []string{"/ingest", "/api/v1/ingest"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestServer_StatusRoute(t *testing.T) {
	mock := &aggregator.ServiceMock{
		GetWindowStatusFunc: func() *aggregator.WindowStatus { return nil },
		GetStatsFunc:        func() aggregator.AggregatorStats { return aggregator.AggregatorStats{} },
	}
	server := newTestServer(mock)
	handler := server.SetupRoutes()

	for _, path := range []string{"/status", "/api/v1/status"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "idle", body["status"])
	}
}

func TestServer_LatestProofRoute_NoProofsYields404(t *testing.T) {
	mock := &aggregator.ServiceMock{
		GetLatestProofFunc: func(ctx context.Context) (*aggregator.ProofData, error) {
			return nil, aggregator.ErrNoProofs
		},
	}
	server := newTestServer(mock)
	handler := server.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/proofs/latest", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_ForceFinalizeRoute_EmptyWindowYields204(t *testing.T) {
	mock := &aggregator.ServiceMock{
		ForceFinalizeFunc: func(ctx context.Context) (*aggregator.ProofData, error) {
			return nil, nil
		},
	}
	server := newTestServer(mock)
	handler := server.SetupRoutes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/force-finalize", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestServer_SealRoute_DisabledWithoutGateway(t *testing.T) {
	server := newTestServer(&aggregator.ServiceMock{})
	handler := server.SetupRoutes()

	body, _ := json.Marshal(map[string]bool{"force_latest": true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seal", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestServer_UnknownRouteIs404(t *testing.T) {
	server := newTestServer(&aggregator.ServiceMock{})
	handler := server.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
