// Package tlog is the bridge's debug log: silent unless $NVTUI_LOG_FILE
// names a file, and coalescing runs of the identical event name the way
// nvim's ui_bridge.c collapses repeated UI_CALL invocations into a
// single "...N times" line instead of flooding the log.
package tlog

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu       sync.Mutex
	logger   *log.Logger
	lastName string
	seen     int
)

// Init opens $NVTUI_LOG_FILE (if set) and enables logging. Safe to call
// more than once; later calls are no-ops once a logger exists.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		return
	}
	path := os.Getenv("NVTUI_LOG_FILE")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "nvtui",
		Level:           log.DebugLevel,
	})
}

// Event records one bridge dispatch. Consecutive calls with the same
// name are coalesced into a single log line plus a trailing repeat
// count, flushed the moment a different name arrives.
func Event(name string) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return
	}
	if name == lastName {
		seen++
		return
	}
	flushLocked()
	logger.Debug("ui bridge", "event", name)
	lastName = name
	seen = 0
}

// Flush emits the pending repeat count, if any. Called before shutdown
// so the last run of coalesced events isn't silently dropped.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	flushLocked()
}

func flushLocked() {
	if logger != nil && seen > 0 {
		logger.Debug("ui bridge: repeated", "event", lastName, "times", seen)
	}
	seen = 0
}

// Warn logs a non-fatal condition (raw mode or a suspend step failing).
// Like Event it is a no-op unless Init opened $NVTUI_LOG_FILE, since
// this subsystem never writes to stderr by default.
func Warn(msg string, kv ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return
	}
	logger.Warn(msg, kv...)
}
