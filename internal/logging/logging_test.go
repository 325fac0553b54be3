package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug().Msg("compile pass")
	if !strings.Contains(buf.String(), "compile pass") {
		t.Errorf("output %q does not contain the debug message", buf.String())
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info().Msg("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("info output at warn level: %q", buf.String())
	}

	logger.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("output %q does not contain the warn message", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, "loud"); err == nil {
		t.Error("New(\"loud\") should fail")
	}
}
