// Package config loads the service's environment-variable configuration
// surface. Every field corresponds to a name in the external configuration
// contract; there is no config file format.
package config

import (
	"fmt"
	"os"
	"strconv"

	flags "github.com/jessevdk/go-flags"
)

// Config is the complete environment-driven configuration surface.
type Config struct {
	Host string `long:"host" env:"HOST" default:"0.0.0.0" description:"HTTP listen host"`
	Port int    `long:"port" env:"PORT" default:"8080" description:"HTTP listen port"`

	AggWindowSec int    `long:"agg-window-sec" env:"AGG_WINDOW_SEC" default:"3600" description:"aggregation window duration in seconds"`
	OutputDir    string `long:"output-dir" env:"OUTPUT_DIR" default:"./out" description:"directory proofs are written to"`
	SealEndpoint string `long:"seal-endpoint" env:"SEAL_ENDPOINT" description:"optional base URL of the content-addressed sealing gateway"`

	MaxRecordsPerWindow         int     `long:"max-records-per-window" env:"MAX_RECORDS_PER_WINDOW" default:"1000" description:"maximum records admitted per window before rotation"`
	OutlierThresholdMultiplier  float64 `long:"outlier-threshold-multiplier" env:"OUTLIER_THRESHOLD_MULTIPLIER" default:"3.0" description:"k in the mu +/- k*sigma outlier rule"`
	EnableSignatureVerification bool    `long:"enable-signature-verification" env:"ENABLE_SIGNATURE_VERIFICATION" description:"require a valid recoverable ECDSA signature on every record (default true)"`

	// JanitorIntervalSec is a string, not an int, so "unset" and "explicitly
	// 0" can be told apart: unset derives half the window duration, "0"
	// disables the janitor outright. JanitorIntervalSeconds() resolves this.
	JanitorIntervalSec    string `long:"janitor-interval-sec" env:"JANITOR_INTERVAL_SEC" description:"background interval (seconds) that finalizes an expired-but-idle window; unset derives half the window duration, \"0\" disables the janitor"`
	PersistenceTimeoutSec int    `long:"persistence-timeout-sec" env:"PERSISTENCE_TIMEOUT_SEC" default:"5" description:"timeout bounding proof persistence I/O during finalisation"`
	BadgerDir             string `long:"badger-dir" env:"BADGER_DIR" description:"directory for the badger proof index; defaults to <output-dir>/.index"`

	LogLevel  string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"trace, debug, info, warn, or error"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" description:"text or json"`
}

// Load parses the configuration exclusively from the environment, applying
// defaults for anything unset.
func Load() (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(nil); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.BadgerDir == "" {
		cfg.BadgerDir = cfg.OutputDir + "/.index"
	}

	// go-flags does not accept a default on a bool option, so the
	// enabled-by-default value is applied here when the variable is unset.
	if _, set := os.LookupEnv("ENABLE_SIGNATURE_VERIFICATION"); !set {
		cfg.EnableSignatureVerification = true
	}

	return &cfg, nil
}

// JanitorIntervalSeconds resolves JanitorIntervalSec: unset ("") derives
// half the aggregation window; "0" disables the janitor; anything else is
// parsed as an integer number of seconds (the caller only starts the
// janitor for a value above zero).
func (c *Config) JanitorIntervalSeconds() (int, error) {
	if c.JanitorIntervalSec == "" {
		return c.AggWindowSec / 2, nil
	}

	seconds, err := strconv.Atoi(c.JanitorIntervalSec)
	if err != nil {
		return 0, fmt.Errorf("invalid JANITOR_INTERVAL_SEC %q: %w", c.JanitorIntervalSec, err)
	}
	return seconds, nil
}
