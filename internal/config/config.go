// Package config loads the pipeline configuration from the Lambda environment.
//
// Environment variables:
//   - DOCUMENT_BUCKET: bucket uploads land in (default: cc-documents-bucket)
//   - AUDIO_BUCKET: bucket audio artifacts are published to (default: cc-audio-bucket)
//   - LOG_TABLE: DynamoDB table for audit entries (default: Logs)
//   - LINE_SEPARATOR_MODE: "space" or "none" (default: space)
//   - CALL_TIMEOUT_SECONDS: per external call timeout (default: 30)
//   - STAGING_DIR: local directory for synthesized audio (default: os.TempDir())
//   - LOG_LEVEL: zerolog level (default: info)
//   - ENVIRONMENT: deployment stage (default: dev)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfidenceThreshold is the minimum extraction confidence for a line to be kept.
const ConfidenceThreshold = 80.0

const (
	defaultDocumentBucket = "cc-documents-bucket"
	defaultAudioBucket    = "cc-audio-bucket"
	defaultLogTable       = "Logs"
	defaultCallTimeout    = 30 * time.Second
)

// Separator modes for joining extracted lines.
const (
	SeparatorSpace = "space"
	SeparatorNone  = "none"
)

// Config holds everything an invocation needs besides the AWS clients.
type Config struct {
	DocumentBucket      string
	AudioBucket         string
	LogTable            string
	ConfidenceThreshold float64
	LineSeparator       string
	CallTimeout         time.Duration
	StagingDir          string
	LogLevel            string
	Environment         string
	Languages           *Languages
}

// Load reads the configuration once at cold start.
func Load() (*Config, error) {
	langs, err := DefaultLanguages()
	if err != nil {
		return nil, fmt.Errorf("failed to build language table: %w", err)
	}

	sep, err := separatorFor(getEnv("LINE_SEPARATOR_MODE", SeparatorSpace))
	if err != nil {
		return nil, err
	}

	timeout := defaultCallTimeout
	if raw := os.Getenv("CALL_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("CALL_TIMEOUT_SECONDS must be a positive integer, got %q", raw)
		}
		timeout = time.Duration(secs) * time.Second
	}

	cfg := &Config{
		DocumentBucket:      getEnv("DOCUMENT_BUCKET", defaultDocumentBucket),
		AudioBucket:         getEnv("AUDIO_BUCKET", defaultAudioBucket),
		LogTable:            getEnv("LOG_TABLE", defaultLogTable),
		ConfidenceThreshold: ConfidenceThreshold,
		LineSeparator:       sep,
		CallTimeout:         timeout,
		StagingDir:          getEnv("STAGING_DIR", os.TempDir()),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Environment:         getEnv("ENVIRONMENT", "dev"),
		Languages:           langs,
	}

	if cfg.DocumentBucket == cfg.AudioBucket {
		return nil, fmt.Errorf("DOCUMENT_BUCKET and AUDIO_BUCKET must be different")
	}

	return cfg, nil
}

func separatorFor(mode string) (string, error) {
	switch mode {
	case SeparatorSpace:
		return " ", nil
	case SeparatorNone:
		return "", nil
	default:
		return "", fmt.Errorf("LINE_SEPARATOR_MODE must be %q or %q, got %q", SeparatorSpace, SeparatorNone, mode)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
