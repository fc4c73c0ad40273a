package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsTotal      = "gbs.runs.total"
	metricRunDuration    = "gbs.run.duration.seconds"
	metricFilesTotal     = "gbs.files.attributed.total"
	metricExcludedTotal  = "gbs.files.excluded.total"
	metricRecordsTotal   = "gbs.blame.records.total"
	metricLinesTotal     = "gbs.lines.attributed.total"
	metricFilesPerWorker = "gbs.worker.files"

	attrStatus = "status"

	statusOK    = "ok"
	statusError = "error"
)

// durationBucketBoundaries covers 10ms to 30 minutes; a full blame of a
// large monorepo takes minutes.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800}

// RunMetrics holds the instruments recorded once per attribution run.
type RunMetrics struct {
	runsTotal      metric.Int64Counter
	runDuration    metric.Float64Histogram
	filesTotal     metric.Int64Counter
	excludedTotal  metric.Int64Counter
	recordsTotal   metric.Int64Counter
	linesTotal     metric.Int64Counter
	filesPerWorker metric.Int64Histogram
}

// RunStats is the outcome of one run, decoupled from the engine types.
type RunStats struct {
	PerWorker []int
	Duration  time.Duration
	Files     int
	Excluded  int
	Records   int
	Lines     int
	Failed    bool
}

// NewRunMetrics creates the run instruments from mt.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Attribution runs by status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Wall time of an attribution run in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files blamed and folded into the result"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	excluded, err := mt.Int64Counter(metricExcludedTotal,
		metric.WithDescription("Files dropped by the exclusion filter"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricExcludedTotal, err)
	}

	records, err := mt.Int64Counter(metricRecordsTotal,
		metric.WithDescription("Incremental blame records parsed"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecordsTotal, err)
	}

	lines, err := mt.Int64Counter(metricLinesTotal,
		metric.WithDescription("Lines attributed to an author"),
		metric.WithUnit("{line}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLinesTotal, err)
	}

	perWorker, err := mt.Int64Histogram(metricFilesPerWorker,
		metric.WithDescription("Files attributed by each worker in a run"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesPerWorker, err)
	}

	return &RunMetrics{
		runsTotal:      runs,
		runDuration:    duration,
		filesTotal:     files,
		excludedTotal:  excluded,
		recordsTotal:   records,
		linesTotal:     lines,
		filesPerWorker: perWorker,
	}, nil
}

// RecordRun records one run. Failed runs only count towards runs and duration.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordRun(ctx context.Context, stats RunStats) {
	if rm == nil {
		return
	}

	status := statusOK
	if stats.Failed {
		status = statusError
	}

	statusAttr := metric.WithAttributes(attribute.String(attrStatus, status))

	rm.runsTotal.Add(ctx, 1, statusAttr)
	rm.runDuration.Record(ctx, stats.Duration.Seconds(), statusAttr)

	if stats.Failed {
		return
	}

	rm.filesTotal.Add(ctx, int64(stats.Files))
	rm.excludedTotal.Add(ctx, int64(stats.Excluded))
	rm.recordsTotal.Add(ctx, int64(stats.Records))
	rm.linesTotal.Add(ctx, int64(stats.Lines))

	for _, files := range stats.PerWorker {
		rm.filesPerWorker.Record(ctx, int64(files))
	}
}
