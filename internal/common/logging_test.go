package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerWithOutputJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", "json", &buf)

	logger.Info().Str("symbol", "005930.KS").Msg("series cached")

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("json format should emit raw zerolog lines, got %q", out)
	}
	if !strings.Contains(out, `"symbol":"005930.KS"`) {
		t.Errorf("structured field missing from output: %q", out)
	}
}

func TestNewLoggerWithOutputConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", "console", &buf)

	logger.Info().Msg("series cached")

	// The console writer renders human-readable lines, not JSON objects.
	if strings.Contains(buf.String(), `"level":"info"`) {
		t.Errorf("console format should not emit raw json, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "series cached") {
		t.Errorf("message missing from console output: %q", buf.String())
	}
}

func TestNewLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", "json", &buf)

	logger.Debug().Msg("suppressed")
	logger.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("messages below warn should be filtered, got %q", buf.String())
	}

	logger.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn message missing: %q", buf.String())
	}
}

func TestParseLevelFallback(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
