package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   LogLevel
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"DEBUG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"warning", LevelWarn, true},
		{" error ", LevelError, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "error")
	if got := levelFromEnv(); got != LevelError {
		t.Errorf("levelFromEnv() = %v, want error", got)
	}

	t.Setenv("DEBUG", "true")
	if got := levelFromEnv(); got != LevelDebug {
		t.Errorf("levelFromEnv() with DEBUG=true = %v, want debug", got)
	}

	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "nonsense")
	if got := levelFromEnv(); got != LevelInfo {
		t.Errorf("levelFromEnv() with bad LOG_LEVEL = %v, want info", got)
	}
}

func TestLogLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be less than LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be less than LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be less than LevelError")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestSetLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	original := GetLevel()
	SetOutput(&buf)
	defer func() {
		SetLevel(original)
		SetOutput(prev)
	}()

	SetLevel(LevelWarn)
	Debug("debug message")
	Info("info message")
	Warn("warn message %d", 1)
	Log(LevelError, "error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] warn message 1") {
		t.Errorf("expected warn message, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("expected error message, got %q", out)
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be false at WARN")
	}
}
