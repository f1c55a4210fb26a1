package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/routetrace/pkg/cache"
	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/observability"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// cacheKeyType labels run entries in cache hooks.
const cacheKeyType = "run"

// Runner encapsulates run execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different graphs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs validate → compute → enumerate → alternative on g.
// g is not modified. Invalid endpoints return an INVALID_REQUEST error
// listing every problem; an unreachable target is not an error.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	if err := graph.ValidateEndpoints(g, opts.Source, opts.Target); err != nil {
		hooks.OnRunError(ctx, opts.Source, opts.Target, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}
	key := r.Keyer.RunKey(graphHash, opts.RunKeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			opts.Logger.Debug("run cache hit", "source", opts.Source, "target", opts.Target)
			return res, nil
		}
	}

	res := r.compute(ctx, g, opts)
	res.GraphHash = graphHash

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}

	if d, ok := res.Distance(); ok {
		opts.Logger.Info("computed route",
			"source", res.Source,
			"target", res.Target,
			"distance", graph.FormatWeight(d),
			"paths", len(res.Paths),
			"steps", res.Stats.Steps)
	} else {
		opts.Logger.Info("no route",
			"source", res.Source,
			"target", res.Target,
			"steps", res.Stats.Steps)
	}
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Unreadable entry: recompute and overwrite.
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	res.CacheHit = true
	return &res, true
}

func (r *Runner) compute(ctx context.Context, g *graph.Graph, opts Options) *Result {
	hooks := observability.Pipeline()
	res := &Result{
		Source: opts.Source,
		Target: opts.Target,
		Stats: Stats{
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
	}

	start := time.Now()
	hooks.OnComputeStart(ctx, opts.Source, opts.Target, g.NodeCount(), g.EdgeCount())
	tr := trace.Compute(g, opts.Source, opts.Target)
	res.Stats.ComputeTime = time.Since(start)
	res.Stats.Steps = len(tr.Trace)
	res.Trace, res.Dist, res.Pred = tr.Trace, tr.Dist, tr.Pred
	res.Summary = tr.Summary()
	res.Reached = tr.Reached()
	hooks.OnComputeComplete(ctx, opts.Source, opts.Target, res.Stats.Steps, res.Reached, res.Stats.ComputeTime)

	res.Paths = []trace.Path{}
	if res.Reached {
		start = time.Now()
		res.Paths, res.Truncated = trace.AllShortestPaths(tr.Pred, opts.Source, opts.Target, opts.Limit)
		res.Stats.PathsTime = time.Since(start)
		hooks.OnPathsComplete(ctx, len(res.Paths), res.Truncated, res.Stats.PathsTime)
		if res.Truncated {
			opts.Logger.Warn("path list truncated", "limit", opts.Limit)
		}
	}

	if opts.Alternative && len(res.Paths) > 0 {
		start = time.Now()
		res.Alternative = trace.NextBest(g, opts.Source, opts.Target, res.Paths[0])
		res.Stats.AlternativeTime = time.Since(start)
		hooks.OnAlternativeComplete(ctx, res.Alternative != nil, res.Stats.AlternativeTime)
	}
	return res
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
