// Package observability sets up structured logging, OpenTelemetry tracing
// and metrics for git-blame-stats runs.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// AppMode identifies how the binary was launched.
type AppMode string

// ModeCLI is one command-line invocation.
const ModeCLI AppMode = "cli"

const (
	defaultServiceName        = "git-blame-stats"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// LogOutput receives log records. Nil means os.Stderr.
	LogOutput io.Writer

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporters.
	OTLPHeaders map[string]string

	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables OTLP export.
	OTLPEndpoint string

	// SampleRatio is the root trace sampling ratio. Zero samples everything.
	SampleRatio float64

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// ShutdownTimeoutSec bounds the flush on shutdown.
	ShutdownTimeoutSec int

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// LogJSON selects the JSON handler instead of the text handler.
	LogJSON bool

	// Prometheus attaches a Prometheus reader to the meter provider and
	// exposes its scrape handler in Providers.MetricsHandler.
	Prometheus bool
}

// DefaultConfig returns a Config for a zero-config CLI run.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s))))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}
