// @title Meter Aggregator API
// @version 1.0
// @description Trusted aggregation service for signed energy-meter readings: admission, windowed outlier filtering, and tamper-evident proof generation
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /
// @schemes http https
// @accept json
// @produce json
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenshare/meter-aggregator/internal/aggregator"
	"github.com/greenshare/meter-aggregator/internal/aggregator/aggregatorimpl"
	"github.com/greenshare/meter-aggregator/internal/api"
	"github.com/greenshare/meter-aggregator/internal/config"
	"github.com/greenshare/meter-aggregator/internal/logging"
	"github.com/greenshare/meter-aggregator/internal/proofstore"
	"github.com/greenshare/meter-aggregator/internal/proofstore/badgerindex"
	"github.com/greenshare/meter-aggregator/internal/proofstore/filestore"
	"github.com/greenshare/meter-aggregator/internal/sealing"
	"github.com/greenshare/meter-aggregator/internal/services/scheduler"
)

const sealingDefaultEpochs = 5

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.NewWithConfig(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: "stdout"})
	if err != nil {
		log.Fatalf("invalid logging configuration: %v", err)
	}

	fileSink, err := filestore.New(cfg.OutputDir)
	if err != nil {
		log.Fatalf("failed to initialize proof file store at %s: %v", cfg.OutputDir, err)
	}

	index, err := badgerindex.Open(cfg.BadgerDir, logger)
	if err != nil {
		log.Fatalf("failed to open proof index at %s: %v", cfg.BadgerDir, err)
	}
	defer func() {
		if err := index.Close(); err != nil {
			logger.Logf("WARN failed to close proof index cleanly: %v", err)
		}
	}()

	sink := proofstore.New(fileSink, index, logger)

	var sealer *sealing.Client
	if cfg.SealEndpoint != "" {
		sealer = sealing.New(cfg.SealEndpoint, sealingDefaultEpochs)
		logger.Logf("INFO sealing to external gateway at %s", cfg.SealEndpoint)
	} else {
		logger.Logf("INFO sealing gateway not configured; proofs will only be persisted locally")
	}

	aggCfg := aggregatorimpl.Config{
		WindowDuration:              time.Duration(cfg.AggWindowSec) * time.Second,
		MaxRecordsPerWindow:         cfg.MaxRecordsPerWindow,
		OutlierThresholdMultiplier:  cfg.OutlierThresholdMultiplier,
		EnableSignatureVerification: cfg.EnableSignatureVerification,
		PersistenceTimeout:          time.Duration(cfg.PersistenceTimeoutSec) * time.Second,
	}
	// A nil *sealing.Client must reach the aggregator as a nil interface,
	// not as a non-nil Sealer wrapping a nil pointer.
	var aggSealer aggregator.Sealer
	if sealer != nil {
		aggSealer = sealer
	}
	aggregatorService := aggregatorimpl.New(aggCfg, sink, aggSealer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	janitorIntervalSec, err := cfg.JanitorIntervalSeconds()
	if err != nil {
		log.Fatalf("invalid janitor interval: %v", err)
	}
	if janitorIntervalSec > 0 {
		windowJanitor := scheduler.New(aggregatorService, time.Duration(janitorIntervalSec)*time.Second, logger)
		go windowJanitor.Start(ctx)
	} else {
		logger.Logf("INFO window janitor disabled; windows only rotate on ingest")
	}

	server := api.New(aggregatorService, sealer, logger, cfg.Host, cfg.Port, api.StatusConfig{
		WindowDurationSec:           cfg.AggWindowSec,
		MaxRecordsPerWindow:         cfg.MaxRecordsPerWindow,
		OutlierThresholdMultiplier:  cfg.OutlierThresholdMultiplier,
		EnableSignatureVerification: cfg.EnableSignatureVerification,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Logf("ERROR server failed: %v", err)
		}
	case sig := <-shutdownSignal:
		logger.Logf("INFO received signal %v, shutting down", sig)
		cancel()
		if err := server.Stop(); err != nil {
			logger.Logf("ERROR graceful shutdown failed: %v", err)
		}
	}
}
