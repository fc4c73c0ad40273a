package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drafnel/git-blame-stats/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "git-blame-stats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""), nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRevision, cfg.Analysis.Revision)
	assert.Equal(t, config.DefaultWorkers, cfg.Analysis.Workers)
	assert.Equal(t, config.DefaultIdentity, cfg.Analysis.Identity)
	assert.Empty(t, cfg.Analysis.Exclude)
	assert.False(t, cfg.Analysis.ExcludeVendor)
	assert.Equal(t, config.DefaultBlameBinary, cfg.Blame.Binary)
	assert.True(t, cfg.Blame.DetectCopies)
	assert.True(t, cfg.Blame.IgnoreWhitespace)
	assert.Equal(t, config.DefaultFormat, cfg.Report.Format)
	assert.Equal(t, config.DefaultView, cfg.Report.View)
	assert.Zero(t, cfg.Report.Limit)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.InDelta(t, config.DefaultSampleRatio, cfg.Observability.SampleRatio, 0.0001)
	assert.Empty(t, cfg.Observability.MetricsAddr)
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `analysis:
  revision: v1.2.0
  workers: 6
  exclude: '\.lock$'
  exclude_vendor: true
  identity: email
blame:
  binary: /usr/local/bin/git
  detect_copies: false
report:
  format: json
  view: files
  limit: 20
logging:
  level: debug
  json: true
observability:
  otlp_endpoint: localhost:4317
  sample_ratio: 0.25
  metrics_addr: ":9090"
`)

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "v1.2.0", cfg.Analysis.Revision)
	assert.Equal(t, 6, cfg.Analysis.Workers)
	assert.Equal(t, `\.lock$`, cfg.Analysis.Exclude)
	assert.True(t, cfg.Analysis.ExcludeVendor)
	assert.Equal(t, "email", cfg.Analysis.Identity)
	assert.Equal(t, "/usr/local/bin/git", cfg.Blame.Binary)
	assert.False(t, cfg.Blame.DetectCopies)
	assert.True(t, cfg.Blame.IgnoreWhitespace)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, "files", cfg.Report.View)
	assert.Equal(t, 20, cfg.Report.Limit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.InDelta(t, 0.25, cfg.Observability.SampleRatio, 0.0001)
	assert.Equal(t, ":9090", cfg.Observability.MetricsAddr)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `analysis:
  workers: 2
  revision: from-file
report:
  format: yaml
`)

	t.Setenv("GBS_ANALYSIS_WORKERS", "4")
	t.Setenv("GBS_REPORT_VIEW", "matrix")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", config.DefaultWorkers, "")
	flags.String("rev", config.DefaultRevision, "")
	flags.String("format", config.DefaultFormat, "")
	require.NoError(t, flags.Parse([]string{"--workers=8"}))

	cfg, err := config.LoadConfig(path, flags)
	require.NoError(t, err)

	// flag > env > file > default
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, "matrix", cfg.Report.View)
	assert.Equal(t, "from-file", cfg.Analysis.Revision)
	assert.Equal(t, "yaml", cfg.Report.Format)
	assert.Equal(t, config.DefaultLimit, cfg.Report.Limit)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"negative_workers", "analysis:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"identity", "analysis:\n  identity: login\n", config.ErrInvalidIdentity},
		{"format", "report:\n  format: xml\n", config.ErrInvalidFormat},
		{"view", "report:\n  view: commits\n", config.ErrInvalidView},
		{"limit", "report:\n  limit: -3\n", config.ErrInvalidLimit},
		{"log_level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"sample_ratio", "observability:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content), nil)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_AcceptsEveryEnumeratedValue(t *testing.T) {
	t.Parallel()

	base := config.Config{
		Analysis: config.AnalysisConfig{Identity: config.DefaultIdentity},
		Report:   config.ReportConfig{Format: config.DefaultFormat, View: config.DefaultView},
		Logging:  config.LoggingConfig{Level: config.DefaultLogLevel},
	}

	for _, format := range config.Formats {
		cfg := base
		cfg.Report.Format = format
		require.NoError(t, config.Validate(&cfg), format)
	}

	for _, view := range config.Views {
		cfg := base
		cfg.Report.View = view
		require.NoError(t, config.Validate(&cfg), view)
	}

	for _, level := range config.LogLevels {
		cfg := base
		cfg.Logging.Level = level
		require.NoError(t, config.Validate(&cfg), level)
	}

	cfg := base
	cfg.Logging.Level = "WARN"
	require.NoError(t, config.Validate(&cfg))
}
