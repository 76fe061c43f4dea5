package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"msg=\"login accepted\"", "tier=master"}},
		{"json", []string{`"msg":"login accepted"`, `"tier":"master"`}},
		{"JSON", []string{`"tier":"master"`}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewLoggerWithWriter(slog.LevelInfo, tt.format, &buf).Info("login accepted", "tier", "master")
		for _, w := range tt.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("format %s: expected %s in output, got: %s", tt.format, w, buf.String())
			}
		}
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Info("should not appear")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Errorf("INFO message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestNewLoggerWithWriter_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelDebug, "json", &buf).With("component", "auth")

	logger.Debug("login", "token", "abc123", "Password", "hunter2", "master_key", "s3cret", "user_id", "u1")

	output := buf.String()
	for _, leaked := range []string{"abc123", "hunter2", "s3cret"} {
		if strings.Contains(output, leaked) {
			t.Errorf("secret %q leaked into output: %s", leaked, output)
		}
	}
	if !strings.Contains(output, `"user_id":"u1"`) || !strings.Contains(output, `"component":"auth"`) {
		t.Errorf("expected ordinary attributes in output, got: %s", output)
	}
	if !strings.Contains(output, Redacted) {
		t.Errorf("expected %s marker in output, got: %s", Redacted, output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
