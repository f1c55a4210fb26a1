package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks reports run events at debug level.
type LogPipelineHooks struct {
	logger *log.Logger
}

// NewLogPipelineHooks returns hooks writing to logger.
func NewLogPipelineHooks(logger *log.Logger) *LogPipelineHooks {
	return &LogPipelineHooks{logger: logger.WithPrefix("run")}
}

func (h *LogPipelineHooks) OnComputeStart(_ context.Context, source, target string, nodeCount, edgeCount int) {
	h.logger.Debug("compute", "source", source, "target", target, "nodes", nodeCount, "edges", edgeCount)
}

func (h *LogPipelineHooks) OnComputeComplete(_ context.Context, source, target string, steps int, reached bool, d time.Duration) {
	h.logger.Debug("computed", "source", source, "target", target, "steps", steps, "reached", reached, "took", d)
}

func (h *LogPipelineHooks) OnPathsComplete(_ context.Context, paths int, truncated bool, d time.Duration) {
	h.logger.Debug("paths", "count", paths, "truncated", truncated, "took", d)
}

func (h *LogPipelineHooks) OnAlternativeComplete(_ context.Context, found bool, d time.Duration) {
	h.logger.Debug("alternative", "found", found, "took", d)
}

func (h *LogPipelineHooks) OnRunError(_ context.Context, source, target string, err error) {
	h.logger.Debug("run failed", "source", source, "target", target, "error", err)
}

var _ PipelineHooks = (*LogPipelineHooks)(nil)

// LogCacheHooks reports cache activity at debug level.
type LogCacheHooks struct {
	logger *log.Logger
}

// NewLogCacheHooks returns hooks writing to logger.
func NewLogCacheHooks(logger *log.Logger) *LogCacheHooks {
	return &LogCacheHooks{logger: logger.WithPrefix("cache")}
}

func (h *LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("hit", "type", keyType)
}

func (h *LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("miss", "type", keyType)
}

func (h *LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("set", "type", keyType, "bytes", size)
}

var _ CacheHooks = (*LogCacheHooks)(nil)
