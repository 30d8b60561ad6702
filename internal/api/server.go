package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/greenshare/meter-aggregator/docs"
	"github.com/greenshare/meter-aggregator/internal/aggregator"
	"github.com/greenshare/meter-aggregator/internal/api/handlers"
	"github.com/greenshare/meter-aggregator/internal/api/middleware"
	"github.com/greenshare/meter-aggregator/internal/sealing"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end over the aggregation service.
type Server struct {
	service aggregator.Service
	sealer  *sealing.Client
	logger  lgr.L
	host    string
	port    int
	status  StatusConfig

	mu         sync.Mutex
	httpServer *http.Server
}

// StatusConfig is the subset of the running configuration echoed back by
// GET /status, so operators can confirm what a deployed instance is tuned
// to without shelling in.
type StatusConfig struct {
	WindowDurationSec           int
	MaxRecordsPerWindow         int
	OutlierThresholdMultiplier  float64
	EnableSignatureVerification bool
}

// New creates a new HTTP server. sealer may be nil when no sealing
// gateway endpoint was configured.
func New(service aggregator.Service, sealer *sealing.Client, logger lgr.L, host string, port int, status StatusConfig) *Server {
	return &Server{
		service: service,
		sealer:  sealer,
		logger:  logger,
		host:    host,
		port:    port,
		status:  status,
	}
}

// SetupRoutes configures all HTTP routes and middleware.
func (s *Server) SetupRoutes() http.Handler {
	healthHandler := handlers.NewHealthHandler(s.logger)
	ingestHandler := handlers.NewIngestHandler(s.service, s.logger)
	statusHandler := handlers.NewStatusHandler(s.service, s.logger, s.status.WindowDurationSec, s.status.MaxRecordsPerWindow, s.status.OutlierThresholdMultiplier, s.status.EnableSignatureVerification)
	proofHandler := handlers.NewProofHandler(s.service, s.logger)
	forceFinalizeHandler := handlers.NewForceFinalizeHandler(s.service, s.logger)

	sealHandler := newSealHandlerFor(s.service, s.sealer, s.logger)

	router := routegroup.New(http.NewServeMux())

	router.Use(rest.RealIP)
	router.Use(rest.Trace)
	router.Use(rest.SizeLimit(1024 * 1024))
	router.Use(middleware.Logging(s.logger))
	router.Use(middleware.Recovery(s.logger))
	router.Use(rest.AppInfo("meter-aggregator", "greenshare", "1.0.0"))
	router.Use(rest.Ping)

	router.HandleFunc("GET /health", healthHandler.HandleHealth)
	router.HandleFunc("GET /swagger/*", httpSwagger.Handler())

	// Legacy unprefixed routes, kept alongside the versioned ones.
	router.HandleFunc("POST /ingest", ingestHandler.HandleIngest)
	router.HandleFunc("GET /status", statusHandler.HandleStatus)
	router.HandleFunc("GET /proofs/latest", proofHandler.HandleLatestProof)
	router.HandleFunc("POST /seal", sealHandler.HandleSeal)

	router.Group().Mount("/api/v1").Route(func(v1 *routegroup.Bundle) {
		v1.HandleFunc("POST /ingest", ingestHandler.HandleIngest)
		v1.HandleFunc("GET /status", statusHandler.HandleStatus)
		v1.HandleFunc("GET /proofs/latest", proofHandler.HandleLatestProof)
		v1.HandleFunc("POST /seal", sealHandler.HandleSeal)
		v1.HandleFunc("POST /force-finalize", forceFinalizeHandler.HandleForceFinalize)
	})

	return router
}

// Start runs the HTTP server until it errors or is shut down via Stop.
func (s *Server) Start() error {
	handler := s.SetupRoutes()
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Logf("INFO starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully drains in-flight requests.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newSealHandlerFor avoids handing the handler a non-nil uploader interface
// wrapping a nil *sealing.Client when sealing is disabled.
func newSealHandlerFor(service aggregator.Service, sealer *sealing.Client, logger lgr.L) *handlers.SealHandler {
	if sealer == nil {
		return handlers.NewSealHandler(service, nil, logger)
	}
	return handlers.NewSealHandler(service, sealer, logger)
}
