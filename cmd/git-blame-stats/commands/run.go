// Package commands implements the git-blame-stats CLI commands.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drafnel/git-blame-stats/pkg/blame"
	"github.com/drafnel/git-blame-stats/pkg/config"
	"github.com/drafnel/git-blame-stats/pkg/gitlib"
	"github.com/drafnel/git-blame-stats/pkg/observability"
	"github.com/drafnel/git-blame-stats/pkg/ownership"
	"github.com/drafnel/git-blame-stats/pkg/report"
	"github.com/drafnel/git-blame-stats/pkg/terminal"
	"github.com/drafnel/git-blame-stats/pkg/version"
)

// ErrTooManyRepositories is returned when more than one repository path
// precedes the "--" separator.
var ErrTooManyRepositories = errors.New("at most one repository path may be given")

const defaultRepoPath = "."

// Runner executes one attribution run.
type Runner interface {
	Run(ctx context.Context) (ownership.AuthorMap, ownership.Stats, error)
}

// runnerFactory builds the Runner for a repository.
type runnerFactory func(repoPath string, cfg *config.Config, poolCfg ownership.PoolConfig) (Runner, error)

// RunCommand holds configuration and dependencies for the run command.
type RunCommand struct {
	configPath string
	newRunner  runnerFactory
	term       func() terminal.Config
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return newRunCommandWithDeps(newPoolRunner, terminal.NewConfig)
}

func newRunCommandWithDeps(newRunner runnerFactory, term func() terminal.Config) *cobra.Command {
	rc := &RunCommand{newRunner: newRunner, term: term}

	cmd := &cobra.Command{
		Use:   "run [repo-path] [-- path...]",
		Short: "Attribute every line of a revision to its author",
		Long: `Attribute every line of every tracked file at a revision to the author who
last touched it and print ownership statistics.

Paths after "--" restrict the run to those files or directories.`,
		Args: cobra.ArbitraryArgs,
		RunE: rc.run,
	}

	flags := cmd.Flags()
	flags.StringVar(&rc.configPath, "config", "", "Config file (default: git-blame-stats.yaml in ., ./config, ~/.config/git-blame-stats)")
	flags.String("rev", config.DefaultRevision, "Revision to attribute")
	flags.IntP("workers", "j", config.DefaultWorkers, "Number of parallel blame workers (0 = use CPU count)")
	flags.StringP("exclude", "x", config.DefaultExclude, "Regular expression of paths to skip")
	flags.Bool("exclude-vendor", config.DefaultExcludeVendor, "Skip vendored and generated dependency paths")
	flags.String("identity", config.DefaultIdentity, "Owner key: name or email")
	flags.String("git", config.DefaultBlameBinary, "git executable")
	flags.StringP("format", "f", config.DefaultFormat, "Output format: text, table, json, yaml, plot")
	flags.String("view", config.DefaultView, "Report view: authors, files, matrix, languages")
	flags.Int("limit", config.DefaultLimit, "Maximum report rows (0 = all)")
	flags.Bool("no-color", config.DefaultNoColor, "Disable colored text output")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	flags.Bool("log-json", config.DefaultLogJSON, "Write logs as JSON")
	flags.String("metrics-addr", config.DefaultMetricsAddr, "Serve Prometheus metrics on this address during the run")

	return cmd
}

// splitArgs separates the repository path from the path scope after "--".
func splitArgs(cmd *cobra.Command, args []string) (string, []string, error) {
	positional, scope := args, []string(nil)

	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		positional, scope = args[:dash], args[dash:]
	}

	switch len(positional) {
	case 0:
		return defaultRepoPath, scope, nil
	case 1:
		return positional[0], scope, nil
	default:
		return "", nil, fmt.Errorf("%w: %v", ErrTooManyRepositories, positional)
	}
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	repoPath, scope, err := splitArgs(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(rc.configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	providers, err := initObservability(cfg, cmd)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	logger := providers.Logger.With("run_id", uuid.NewString())

	if providers.MetricsHandler != nil {
		srv, srvErr := observability.StartMetricsServer(cfg.Observability.MetricsAddr, providers.MetricsHandler, logger)
		if srvErr != nil {
			return fmt.Errorf("start metrics server: %w", srvErr)
		}

		defer func() {
			shutdownErr := srv.Shutdown(context.Background())
			if shutdownErr != nil {
				logger.Warn("metrics server shutdown failed", "error", shutdownErr)
			}
		}()
	}

	poolCfg, err := buildPoolConfig(cfg, scope, providers, logger)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	view, err := report.ParseView(cfg.Report.View)
	if err != nil {
		return err
	}

	runner, err := rc.newRunner(repoPath, cfg, poolCfg)
	if err != nil {
		return err
	}

	runMetrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create run metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("starting run", "repo", repoPath, "revision", cfg.Analysis.Revision, "scope", scope)

	start := time.Now()
	authors, stats, err := runner.Run(ctx)

	runMetrics.RecordRun(ctx, observability.RunStats{
		PerWorker: stats.PerWorker,
		Duration:  time.Since(start),
		Files:     stats.Attributed,
		Excluded:  stats.Excluded,
		Records:   stats.Records,
		Lines:     ownership.GrandTotal(authors),
		Failed:    err != nil,
	})

	if err != nil {
		logger.Error("run failed", "error", err)

		return fmt.Errorf("attribute %s: %w", repoPath, err)
	}

	if stats.Attributed == 0 && stats.Excluded > 0 {
		logger.Warn("every path was excluded", "excluded", stats.Excluded, "filter", poolCfg.Filter.String())
	}

	logger.Info("run completed",
		"files", stats.Attributed, "excluded", stats.Excluded, "records", stats.Records,
		"authors", len(authors), "duration", stats.Duration)

	return rc.render(cmd, cfg, authors, format, view)
}

func (rc *RunCommand) render(
	cmd *cobra.Command, cfg *config.Config, authors ownership.AuthorMap, format report.Format, view report.View,
) error {
	rep := report.Build(authors, report.Options{
		Revision: cfg.Analysis.Revision,
		View:     view,
		Limit:    cfg.Report.Limit,
	})

	term := rc.term()
	if cfg.Report.NoColor {
		term.NoColor = true
	}

	var buf bytes.Buffer

	err := report.Render(&buf, rep, format, term)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = buf.WriteTo(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func initObservability(cfg *config.Config, cmd *cobra.Command) (observability.Providers, error) {
	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Providers{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.LogOutput = cmd.ErrOrStderr()
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.Prometheus = cfg.Observability.MetricsAddr != ""

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}

func buildPoolConfig(
	cfg *config.Config, scope []string, providers observability.Providers, logger *slog.Logger,
) (ownership.PoolConfig, error) {
	identity, err := ownership.ParseIdentity(cfg.Analysis.Identity)
	if err != nil {
		return ownership.PoolConfig{}, err
	}

	filter, err := ownership.NewFilter(cfg.Analysis.Exclude, cfg.Analysis.ExcludeVendor)
	if err != nil {
		return ownership.PoolConfig{}, err
	}

	return ownership.PoolConfig{
		Tracer:   providers.Tracer,
		Logger:   logger,
		Filter:   filter,
		Revision: cfg.Analysis.Revision,
		Identity: identity,
		Scope:    scope,
		Workers:  cfg.Analysis.Workers,
	}, nil
}

// newPoolRunner wires the libgit2 enumerator and the git blame source.
func newPoolRunner(repoPath string, cfg *config.Config, poolCfg ownership.PoolConfig) (Runner, error) {
	source := &blame.GitSource{
		Dir:              repoPath,
		Binary:           cfg.Blame.Binary,
		DetectCopies:     cfg.Blame.DetectCopies,
		IgnoreWhitespace: cfg.Blame.IgnoreWhitespace,
	}

	pool, err := ownership.NewPool(gitlib.NewEnumerator(repoPath), source, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return pool, nil
}
