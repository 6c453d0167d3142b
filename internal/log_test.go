package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
		ok    bool
	}{
		{"ERROR", LogLevelError, true},
		{"warn", LogLevelWarn, true},
		{" Debug ", LogLevelDebug, true},
		{"TRACE", LogLevelTrace, true},
		{"verbose", 0, false},
		{"", 0, false},
	}

	for _, test := range tests {
		got, ok := ParseLogLevel(test.input)
		if ok != test.ok || (ok && got != test.want) {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v, %v", test.input, got, ok, test.want, test.ok)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelInfo)

	logger.Info("fit %s", "started")
	logger.Debug("iteration %d", 3)
	logger.Error("boom")

	out := buf.String()
	if !strings.Contains(out, "[INFO] fit started") {
		t.Errorf("expected info line, got %q", out)
	}
	if strings.Contains(out, "iteration") {
		t.Errorf("debug line should be filtered at info level, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] boom") {
		t.Errorf("expected error line, got %q", out)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var logger *Logger
	logger.Info("nothing happens")
	if got := logger.GetLevel(); got != LogLevelError {
		t.Errorf("nil logger level = %v, want %v", got, LogLevelError)
	}
}
