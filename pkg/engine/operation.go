package engine

import (
	"context"
	"flag"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quetzal-graph/quetzal/pkg/util/lru"
)

// An Operation is one node of an execution tree. Compute produces the
// operation's result table; the table is finished by the executor, not by
// the operation itself.
type Operation interface {
	// Description names the operation for logs and runtime statistics.
	Description() string
	// CacheKey identifies the operation's result. Two operations with equal
	// keys must produce equal results.
	CacheKey() string
	// Compute produces the result. It must honor cancellation of ctx.
	Compute(ctx context.Context) (*Result, error)
}

// ExecutorConfig configures the operation executor.
type ExecutorConfig struct {
	CacheCapacity   int           `yaml:"cache_capacity"`
	SlowOpThreshold time.Duration `yaml:"slow_operation_threshold"`
}

// RegisterFlags registers the executor flags.
func (cfg *ExecutorConfig) RegisterFlags(f *flag.FlagSet) {
	f.IntVar(&cfg.CacheCapacity, "engine.result-cache-capacity", 512, "Maximum number of result tables kept in the in-memory cache.")
	f.DurationVar(&cfg.SlowOpThreshold, "engine.slow-operation-threshold", 10*time.Second, "Operations slower than this are logged at warning level.")
}

// cacheEntry is the unit stored in the result cache. The entry is inserted
// before computation starts so that concurrent executions of the same
// operation share one computation: followers block on ready while the
// leader fills in res or err.
type cacheEntry struct {
	ready chan struct{}
	res   *Result
	err   error
}

// Executor runs operations, de-duplicating equal computations through a
// result cache keyed by the hash of the operation's cache key.
type Executor struct {
	cfg     ExecutorConfig
	logger  log.Logger
	cache   *lru.Cache[uint64, *cacheEntry]
	metrics *executorMetrics
}

// NewExecutor returns an executor with the given config, logging to logger
// and registering its metrics with reg.
func NewExecutor(cfg ExecutorConfig, logger log.Logger, reg prometheus.Registerer) *Executor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Executor{
		cfg:     cfg,
		logger:  logger,
		cache:   lru.New[uint64, *cacheEntry](cfg.CacheCapacity),
		metrics: newExecutorMetrics(reg),
	}
}

// Run executes op, serving it from the result cache when possible. The
// returned table is finished. Errors are not cached; a failed entry is
// evicted so that a later execution can retry.
func (e *Executor) Run(ctx context.Context, op Operation) (*Result, *RuntimeInfo, error) {
	start := time.Now()
	key := xxhash.Sum64String(op.CacheKey())

	entry, existed := e.cache.TryEmplace(key, func() *cacheEntry {
		return &cacheEntry{ready: make(chan struct{})}
	})
	info := &RuntimeInfo{Descriptor: op.Description(), WasCached: existed}

	if existed {
		e.metrics.cacheHits.Inc()
		select {
		case <-entry.ready:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		if entry.err != nil {
			return nil, nil, entry.err
		}
		e.finishInfo(info, entry.res, start, "cache hit")
		return entry.res, info, nil
	}

	e.metrics.cacheMisses.Inc()
	res, err := op.Compute(ctx)
	if err == nil && res == nil {
		err = errors.Errorf("operation %s computed no result", op.Description())
	}
	if err != nil {
		entry.err = errors.Wrapf(err, "computing %s", op.Description())
		close(entry.ready)
		e.cache.Erase(key)
		e.metrics.execLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		level.Error(e.logger).Log("msg", "operation failed", "operation", op.Description(), "err", err)
		return nil, nil, entry.err
	}
	res.Finish()
	entry.res = res
	close(entry.ready)

	e.finishInfo(info, res, start, "computed")
	return res, info, nil
}

func (e *Executor) finishInfo(info *RuntimeInfo, res *Result, start time.Time, how string) {
	elapsed := time.Since(start)
	info.Rows = res.Size()
	info.Cols = res.NumColumns()
	info.Time = elapsed

	e.metrics.execLatency.WithLabelValues("success").Observe(elapsed.Seconds())
	e.metrics.resultRows.Observe(float64(res.Size()))

	logger := level.Debug(e.logger)
	if e.cfg.SlowOpThreshold > 0 && elapsed > e.cfg.SlowOpThreshold {
		e.metrics.slowQueries.Inc()
		logger = level.Warn(e.logger)
	}
	logger.Log(
		"msg", "operation finished",
		"operation", info.Descriptor,
		"source", how,
		"rows", res.Size(),
		"cols", res.NumColumns(),
		"duration", elapsed,
	)
}
