// Package logging builds an lgr.L logger from the service's LOG_LEVEL /
// LOG_FORMAT configuration knobs.
package logging

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/go-pkgz/lgr"
)

const (
	levelTrace = "trace"
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"

	formatJSON = "json"
	formatText = "text"
)

// Config controls logger construction.
type Config struct {
	Level  string
	Format string
	Output string
}

// NewWithConfig builds a logger from an explicit Config. Format "json"
// routes through an slog.JSONHandler; anything else (including "") gets
// lgr's own text formatting.
func NewWithConfig(cfg Config) (lgr.L, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	var options []lgr.Option
	options = append(options, lgr.Msec)

	switch strings.ToLower(cfg.Level) {
	case levelTrace:
		options = append(options, lgr.Trace)
	case levelDebug:
		options = append(options, lgr.Debug)
	}

	output := outputWriter(cfg.Output)

	if strings.ToLower(cfg.Format) == formatJSON {
		options = append(options, lgr.SlogHandler(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: slogLevel(cfg.Level)})))
	} else {
		options = append(options, lgr.LevelBraces, lgr.Out(output))

		level := strings.ToLower(cfg.Level)
		if level == levelTrace || level == levelDebug {
			options = append(options, lgr.CallerFile, lgr.CallerFunc)
		}
		if strings.ToLower(cfg.Output) != "stderr" {
			options = append(options, lgr.Err(os.Stderr))
		}
	}

	return lgr.New(options...), nil
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case levelTrace, levelDebug:
		return slog.LevelDebug
	case levelWarn:
		return slog.LevelWarn
	case levelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validateConfig(cfg Config) error {
	level := strings.ToLower(cfg.Level)
	validLevels := []string{levelTrace, levelDebug, levelInfo, levelWarn, levelError}
	if level != "" && !contains(validLevels, level) {
		return errors.New("invalid log level: " + cfg.Level + ", must be one of: trace, debug, info, warn, error")
	}

	format := strings.ToLower(cfg.Format)
	validFormats := []string{formatText, formatJSON}
	if format != "" && !contains(validFormats, format) {
		return errors.New("invalid log format: " + cfg.Format + ", must be one of: text, json")
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func outputWriter(output string) *os.File {
	if strings.ToLower(output) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
