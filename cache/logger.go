package cache

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// ActivityLogger records cache activity. It is strictly fire-and-forget:
// implementations must never influence control flow and the handlers ignore
// anything a logger might do.
//
// LogCall records an operation that went straight to the storage backend
// (writes and deliberately uncached reads). LogCacheHit and LogCacheMiss
// record the outcome of cached reads.
type ActivityLogger interface {
	LogCall(method string, fields map[string]any)
	LogCacheHit(method string, fields map[string]any)
	LogCacheMiss(method string, fields map[string]any)
}

// zapActivityLogger writes cache activity as structured debug events and
// keeps running hit/miss/call counters for quick inspection.
type zapActivityLogger struct {
	log    *zap.Logger
	calls  atomic.Int64
	hits   atomic.Int64
	misses atomic.Int64
}

// NewActivityLogger returns an ActivityLogger writing through log.
func NewActivityLogger(log *zap.Logger) ActivityLogger {
	return &zapActivityLogger{log: log}
}

func (l *zapActivityLogger) LogCall(method string, fields map[string]any) {
	l.calls.Add(1)
	l.log.Debug("persistence call", append(zapFields(fields), zap.String("method", method))...)
}

func (l *zapActivityLogger) LogCacheHit(method string, fields map[string]any) {
	l.hits.Add(1)
	l.log.Debug("cache hit", append(zapFields(fields), zap.String("method", method))...)
}

func (l *zapActivityLogger) LogCacheMiss(method string, fields map[string]any) {
	l.misses.Add(1)
	l.log.Debug("cache miss", append(zapFields(fields), zap.String("method", method))...)
}

func zapFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// NopActivityLogger discards everything. Useful for benchmarks and as a
// default when no logger is wired.
type NopActivityLogger struct{}

func (NopActivityLogger) LogCall(string, map[string]any)      {}
func (NopActivityLogger) LogCacheHit(string, map[string]any)  {}
func (NopActivityLogger) LogCacheMiss(string, map[string]any) {}
