package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{" Debug ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantTrace bool
		wantDebug bool
		wantInfo  bool
	}{
		{"info", false, false, true},
		{"debug", false, true, true},
		{"trace", true, true, true},
		{"error", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(tt.level, &buf)

			l.Log(context.Background(), LevelTrace, "trace message")
			l.Debug("debug message")
			l.Info("info message")

			out := buf.String()
			if got := strings.Contains(out, "trace message"); got != tt.wantTrace {
				t.Errorf("trace logged = %v, want %v", got, tt.wantTrace)
			}
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info message"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("trace", &buf)
	l.Log(context.Background(), LevelTrace, "frame")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger("info", &buf)
	l.Info("setup", "bodies", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "setup" || entry["bodies"] != float64(4) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil without a logger")
	}

	var buf bytes.Buffer
	l := NewLogger("info", &buf)
	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Error("logger from context did not write to the original writer")
	}
}
