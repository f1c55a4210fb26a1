// Package pipeline runs a complete route computation for routetrace.
//
// A run validates the request, executes the instrumented shortest-path
// search, enumerates every shortest path and optionally looks for the
// second-best alternative. The CLI and the HTTP server both go through a
// [Runner] so they share caching, logging and hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, g, pipeline.Options{
//	    Source:      "A",
//	    Target:      "D",
//	    Alternative: true,
//	})
//	if err != nil {
//	    return err // invalid endpoints, never "no path"
//	}
//	if !res.Reached {
//	    fmt.Println("no path")
//	}
//
// An unreachable target is a successful run with Reached=false, a null
// summary distance and no paths.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/routetrace/pkg/cache"
	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/graph"
	"github.com/matzehuels/routetrace/pkg/session"
	"github.com/matzehuels/routetrace/pkg/trace"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultLimit caps the number of enumerated shortest paths.
	DefaultLimit = trace.DefaultPathLimit

	// MaxLimit is the largest accepted path limit.
	MaxLimit = 1000
)

// =============================================================================
// Options
// =============================================================================

// Options configures a run. It supports JSON for API requests.
type Options struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Limit       int    `json:"limit,omitempty"`
	Alternative bool   `json:"alternative,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults normalizes node ids, checks the limit and applies
// defaults. It is idempotent. Endpoint existence is checked against the
// graph by the Runner.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Source = graph.NormalizeNodeID(o.Source)
	o.Target = graph.NormalizeNodeID(o.Target)

	switch {
	case o.Limit == 0:
		o.Limit = DefaultLimit
	case o.Limit < 0 || o.Limit > MaxLimit:
		return rterrors.New(rterrors.ErrCodeInvalidInput,
			"limit must be between 1 and %d, got %d", MaxLimit, o.Limit)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RunKeyOpts returns the options that take part in the cache key.
func (o *Options) RunKeyOpts() cache.RunKeyOpts {
	return cache.RunKeyOpts{
		Source:      o.Source,
		Target:      o.Target,
		Limit:       o.Limit,
		Alternative: o.Alternative,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a run.
type Result struct {
	Source      string             `json:"source"`
	Target      string             `json:"target"`
	Summary     trace.Summary      `json:"summary"`
	Reached     bool               `json:"reached"`
	Trace       trace.Trace        `json:"trace"`
	Dist        trace.Distances    `json:"dist"`
	Pred        trace.Predecessors `json:"pred"`
	Paths       []trace.Path       `json:"paths"`
	Truncated   bool               `json:"truncated"`
	Alternative *trace.Alternative `json:"alternative,omitempty"`

	// GraphHash is the content hash of the graph the run was computed on.
	GraphHash string `json:"graph_hash"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Stats contains run statistics.
type Stats struct {
	NodeCount       int           `json:"node_count"`
	EdgeCount       int           `json:"edge_count"`
	Steps           int           `json:"steps"`
	ComputeTime     time.Duration `json:"compute_time"`
	PathsTime       time.Duration `json:"paths_time"`
	AlternativeTime time.Duration `json:"alternative_time"`
}

// Distance returns the shortest distance and whether the target was reached.
func (r *Result) Distance() (float64, bool) {
	if r.Summary.Distance == nil {
		return 0, false
	}
	return *r.Summary.Distance, true
}

// SessionRun converts the result into the form stored in a session.
func (r *Result) SessionRun() session.Run {
	return session.Run{
		Source:      r.Source,
		Target:      r.Target,
		Summary:     r.Summary,
		Trace:       r.Trace,
		Paths:       r.Paths,
		Truncated:   r.Truncated,
		Alternative: r.Alternative,
	}
}

// GraphHash returns the content hash of g used in cache keys.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := graph.Marshal(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
