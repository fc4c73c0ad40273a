// Package config loads git-blame-stats settings from defaults, an optional
// YAML file, GBS_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("worker count must not be negative")
	ErrInvalidFormat      = errors.New("invalid report format")
	ErrInvalidView        = errors.New("invalid report view")
	ErrInvalidIdentity    = errors.New("invalid identity mode")
	ErrInvalidLimit       = errors.New("report limit must not be negative")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

const (
	envPrefix  = "GBS"
	configName = "git-blame-stats"
)

// Config holds all git-blame-stats settings.
type Config struct {
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	Blame         BlameConfig         `mapstructure:"blame"`
	Report        ReportConfig        `mapstructure:"report"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AnalysisConfig selects what is attributed.
type AnalysisConfig struct {
	Revision      string `mapstructure:"revision"`
	Exclude       string `mapstructure:"exclude"`
	Identity      string `mapstructure:"identity"`
	Workers       int    `mapstructure:"workers"`
	ExcludeVendor bool   `mapstructure:"exclude_vendor"`
}

// BlameConfig controls the git blame invocation.
type BlameConfig struct {
	Binary           string `mapstructure:"binary"`
	DetectCopies     bool   `mapstructure:"detect_copies"`
	IgnoreWhitespace bool   `mapstructure:"ignore_whitespace"`
}

// ReportConfig controls rendering.
type ReportConfig struct {
	Format  string `mapstructure:"format"`
	View    string `mapstructure:"view"`
	Limit   int    `mapstructure:"limit"`
	NoColor bool   `mapstructure:"no_color"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ObservabilityConfig controls tracing and metrics export.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"rev":            "analysis.revision",
	"workers":        "analysis.workers",
	"exclude":        "analysis.exclude",
	"exclude-vendor": "analysis.exclude_vendor",
	"identity":       "analysis.identity",
	"git":            "blame.binary",
	"format":         "report.format",
	"view":           "report.view",
	"limit":          "report.limit",
	"no-color":       "report.no_color",
	"log-level":      "logging.level",
	"log-json":       "logging.json",
	"metrics-addr":   "observability.metrics_addr",
}

// LoadConfig reads configuration. configPath names an explicit file; when
// empty, git-blame-stats.yaml is searched in ., ./config and
// $HOME/.config/git-blame-stats, and a missing file is not an error.
// Flags in flags that appear in FlagKeys override every other source when
// set on the command line. flags may be nil.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/" + configName)
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		bindErr := bindFlags(viperCfg, flags)
		if bindErr != nil {
			return nil, bindErr
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func bindFlags(viperCfg *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		err := viperCfg.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.revision", DefaultRevision)
	viperCfg.SetDefault("analysis.workers", DefaultWorkers)
	viperCfg.SetDefault("analysis.exclude", DefaultExclude)
	viperCfg.SetDefault("analysis.exclude_vendor", DefaultExcludeVendor)
	viperCfg.SetDefault("analysis.identity", DefaultIdentity)

	viperCfg.SetDefault("blame.binary", DefaultBlameBinary)
	viperCfg.SetDefault("blame.detect_copies", DefaultDetectCopies)
	viperCfg.SetDefault("blame.ignore_whitespace", DefaultIgnoreWhitespace)

	viperCfg.SetDefault("report.format", DefaultFormat)
	viperCfg.SetDefault("report.view", DefaultView)
	viperCfg.SetDefault("report.limit", DefaultLimit)
	viperCfg.SetDefault("report.no_color", DefaultNoColor)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)

	viperCfg.SetDefault("observability.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("observability.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("observability.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("observability.metrics_addr", DefaultMetricsAddr)
}

// Validate checks every field with a restricted domain.
func Validate(config *Config) error {
	if config.Analysis.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Analysis.Workers)
	}

	if !slices.Contains(Identities, config.Analysis.Identity) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentity, config.Analysis.Identity)
	}

	if !slices.Contains(Formats, config.Report.Format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, config.Report.Format, strings.Join(Formats, ", "))
	}

	if !slices.Contains(Views, config.Report.View) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidView, config.Report.View, strings.Join(Views, ", "))
	}

	if config.Report.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, config.Report.Limit)
	}

	if !slices.Contains(LogLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	ratio := config.Observability.SampleRatio
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, ratio)
	}

	return nil
}
