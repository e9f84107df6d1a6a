package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json"})
	log.Info("booking admitted", "bookingId", "60d21b4667d0d8992e610c51")

	out := buf.String()
	if !strings.Contains(out, `"msg":"booking admitted"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, "60d21b4667d0d8992e610c51") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestProductionDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production"})
	log.Info("started")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output in production, got %q", buf.String())
	}
}

func TestPrettyHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})
	log.Info("hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn record should be written")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty"}).WithComponent("resolver")
	log.Info("lookup")
	if !strings.Contains(buf.String(), "component=resolver") {
		t.Errorf("expected component attribute, got %q", buf.String())
	}
}
