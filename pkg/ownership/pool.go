package ownership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/drafnel/git-blame-stats/pkg/blame"
)

// ErrInvalidWorkers is returned for a negative worker count.
var ErrInvalidWorkers = errors.New("worker count must not be negative")

const (
	spanRun      = "ownership.run"
	attrRevision = "git.revision"
	attrWorkers  = "pool.workers"
	attrQueued   = "pool.files.queued"
	attrExcluded = "pool.files.excluded"
	attrLines    = "ownership.lines"
)

// Enumerator lists the tracked file paths of a revision, restricted to scope
// when it is non-empty. Enumeration stops at the first error fn returns.
type Enumerator interface {
	Enumerate(ctx context.Context, revision string, scope []string, fn func(path string) error) error
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	// Tracer records one span per run and per file. Nil disables tracing.
	Tracer trace.Tracer

	// Logger receives per-file debug records. Nil uses slog.Default().
	Logger *slog.Logger

	// Filter drops paths before they are queued. Nil keeps everything.
	Filter *Filter

	// Revision is the commit-ish every file is attributed at.
	Revision string

	// Identity selects how owners are keyed.
	Identity Identity

	// Scope restricts enumeration to these path prefixes.
	Scope []string

	// Workers is the number of concurrent attributions; 0 means runtime.NumCPU().
	Workers int
}

// Stats describes a completed run.
type Stats struct {
	PerWorker  []int
	Duration   time.Duration
	Workers    int
	Queued     int
	Excluded   int
	Attributed int
	Records    int
}

// Pool distributes enumerated paths over a fixed set of workers.
type Pool struct {
	enumerator Enumerator
	attributor *Attributor
	tracer     trace.Tracer
	logger     *slog.Logger
	cfg        PoolConfig
	workers    int
}

// NewPool validates cfg and resolves the worker count.
func NewPool(enumerator Enumerator, source blame.Source, cfg PoolConfig) (*Pool, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		enumerator: enumerator,
		attributor: NewAttributor(source, cfg.Revision, cfg.Identity, tracer),
		tracer:     tracer,
		logger:     logger,
		cfg:        cfg,
		workers:    workers,
	}, nil
}

// Workers returns the resolved worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Run attributes every non-excluded path and returns the merged map.
// Any enumeration or attribution failure fails the whole run and no map is
// returned.
func (p *Pool) Run(ctx context.Context) (AuthorMap, Stats, error) {
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, spanRun, trace.WithAttributes(
		attribute.String(attrRevision, p.cfg.Revision),
		attribute.Int(attrWorkers, p.workers),
	))
	defer span.End()

	runCtx, fail := context.WithCancelCause(ctx)
	defer fail(nil)

	queue := newWorkQueue()

	var group errgroup.Group

	stats := Stats{Workers: p.workers, PerWorker: make([]int, p.workers)}
	results := make([]AuthorMap, p.workers)
	records := make([]int, p.workers)

	group.Go(func() error {
		defer p.stopAll(queue)

		err := p.produce(runCtx, queue, &stats)
		if err != nil {
			fail(err)
		}

		return err
	})

	for id := range p.workers {
		group.Go(func() error {
			acc, tally, err := p.work(runCtx, fail, id, queue)
			results[id] = acc
			stats.PerWorker[id] = tally.files
			records[id] = tally.records

			return err
		})
	}

	err := group.Wait()
	if cause := context.Cause(runCtx); cause != nil {
		err = cause
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, Stats{}, err
	}

	merged := Merge(results...)

	for id, done := range stats.PerWorker {
		stats.Attributed += done
		stats.Records += records[id]
	}

	stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int(attrQueued, stats.Queued),
		attribute.Int(attrExcluded, stats.Excluded),
		attribute.Int(attrLines, GrandTotal(merged)),
	)

	return merged, stats, nil
}

// produce enumerates paths and queues the ones the filter keeps.
func (p *Pool) produce(ctx context.Context, queue *workQueue, stats *Stats) error {
	err := p.enumerator.Enumerate(ctx, p.cfg.Revision, p.cfg.Scope, func(path string) error {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		if p.cfg.Filter.Excludes(path) {
			stats.Excluded++

			return nil
		}

		queue.Push(pathItem(path))
		stats.Queued++

		return nil
	})
	if err != nil {
		return fmt.Errorf("enumerate %s: %w", p.cfg.Revision, err)
	}

	return nil
}

// stopAll queues one stop marker per worker, after every real path.
func (p *Pool) stopAll(queue *workQueue) {
	for range p.workers {
		queue.Push(stopItem{})
	}
}

type workerTally struct {
	files   int
	records int
}

// work drains the queue into a private map until it pops a stop marker.
// The first failure cancels the run through fail. After that, its own or a
// sibling's, the worker keeps popping without attributing until it reaches
// its stop marker.
func (p *Pool) work(
	ctx context.Context, fail context.CancelCauseFunc, id int, queue *workQueue,
) (AuthorMap, workerTally, error) {
	acc := NewAuthorMap()

	var (
		tally workerTally
		err   error
	)

	for {
		switch item := queue.Pop().(type) {
		case stopItem:
			if err != nil {
				return nil, tally, err
			}

			return acc, tally, nil
		case pathItem:
			if err != nil {
				continue
			}

			if ctx.Err() != nil {
				err = context.Cause(ctx)

				continue
			}

			path := string(item)

			records, attrErr := p.attributor.attribute(ctx, path, acc)
			if attrErr != nil {
				err = attrErr
				fail(err)

				continue
			}

			tally.files++
			tally.records += records

			p.logger.DebugContext(ctx, "attributed file", "worker", id, "path", path, "records", records)
		}
	}
}
