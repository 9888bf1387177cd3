package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type word struct{ s string }

func (w word) String() string { return w.s }

func newJSONLogger(t *testing.T, buf *bytes.Buffer) Logger {
	t.Helper()
	l, err := New(Config{Level: "info", Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func TestNormalizeAttr_Stringer(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("table full", "key", word{"alpha"})

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if got := logEntry["key"]; got != "alpha" {
		t.Errorf("key = %v, want alpha", got)
	}
}

func TestNormalizeAttr_Duration(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("batch done", "duration", 1500*time.Millisecond)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if got := logEntry["duration"]; got != "1.5s" {
		t.Errorf("duration = %v, want 1.5s", got)
	}
}

func TestNormalizeAttr_LongString(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("long", "value", strings.Repeat("x", 1000))

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	got, _ := logEntry["value"].(string)
	if len(got) != maxValueLen || !strings.HasSuffix(got, "...") {
		t.Errorf("value len = %d, want %d with ellipsis", len(got), maxValueLen)
	}
}

func TestNormalizeAttr_Group(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.With("run", "r1").Info("nested", slog.Group("shard", "key", word{"w0"}))

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	group, ok := logEntry["shard"].(map[string]any)
	if !ok || group["key"] != "w0" || logEntry["run"] != "r1" {
		t.Errorf("unexpected entry: %v", logEntry)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short"); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	long := strings.Repeat("y", maxValueLen+1)
	if got := Truncate(long); len(got) != maxValueLen {
		t.Errorf("len(Truncate) = %d, want %d", len(got), maxValueLen)
	}
}
