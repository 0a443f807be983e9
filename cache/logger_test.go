package cache

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestActivityLogger_EmitsDebugEvents(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewActivityLogger(zap.New(core))

	logger.LogCall("UserHandler.Delete", map[string]any{"user": int64(14)})
	logger.LogCacheHit("UserHandler.Load", map[string]any{"key": "pc-user-14"})
	logger.LogCacheMiss("UserHandler.Load", map[string]any{"key": "pc-user-15"})

	entries := observed.All()
	if len(entries) != 3 {
		t.Fatalf("got %d log entries, want 3", len(entries))
	}
	if entries[0].Message != "persistence call" {
		t.Errorf("first message = %q", entries[0].Message)
	}
	if entries[1].Message != "cache hit" {
		t.Errorf("second message = %q", entries[1].Message)
	}
	if entries[2].Message != "cache miss" {
		t.Errorf("third message = %q", entries[2].Message)
	}

	fields := entries[1].ContextMap()
	if fields["method"] != "UserHandler.Load" {
		t.Errorf("method field = %v", fields["method"])
	}
	if fields["key"] != "pc-user-14" {
		t.Errorf("key field = %v", fields["key"])
	}
}

func TestNopActivityLogger(t *testing.T) {
	// Must be callable with nil field maps and never panic.
	var l NopActivityLogger
	l.LogCall("m", nil)
	l.LogCacheHit("m", nil)
	l.LogCacheMiss("m", nil)
}
