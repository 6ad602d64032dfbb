package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogName = "tmuxito.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = DefaultPath()
	stderr       = os.Stderr
)

// DefaultPath is the log file used when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), defaultLogName)
}

// Path returns the current log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Configure sets the log destination. An empty path restores the default;
// missing parent directories are created.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = DefaultPath()
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(stderr, "unable to create log directory: %v\n", err)
		logPath = DefaultPath()
		return
	}
	logPath = path
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace writes anything.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

type entry struct {
	Time    time.Time   `json:"time"`
	Level   string      `json:"level"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error records err regardless of the trace setting.
func Error(err error) {
	if err == nil {
		return
	}
	write(entry{Level: "error", Event: "error", Payload: map[string]interface{}{"error": err.Error()}})
}

// Warn records a recoverable problem regardless of the trace setting.
func Warn(event, message string) {
	write(entry{Level: "warn", Event: event, Payload: map[string]interface{}{"message": message}})
}

// Trace appends a structured JSON entry when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	write(entry{Level: "trace", Event: event, Payload: payload})
}

func write(e entry) {
	e.Time = time.Now().UTC()
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(e); err != nil {
		fmt.Fprintf(stderr, "log encoding failed: %v\n", err)
	}
}
