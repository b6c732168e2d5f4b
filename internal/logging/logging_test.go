package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestProvider_LoggerIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	provider := NewProvider(&buf, WithTimestamp(false))

	first := provider.Logger("avcp.export")
	second := provider.Logger("avcp.export")
	if first != second {
		t.Fatal("Logger() should return the same logger for the same name")
	}

	first.Info("wrote meta sidecar")
	second.Info("wrote meta sidecar")

	if got := strings.Count(buf.String(), "wrote meta sidecar"); got != 2 {
		t.Errorf("message count = %d, want 2 (one line per call, no duplicate handlers)\n%s", got, buf.String())
	}
}

func TestProvider_LoggerPrefixAndLevel(t *testing.T) {
	var buf bytes.Buffer
	provider := NewProvider(&buf, WithTimestamp(false), WithLevel(log.WarnLevel))

	logger := provider.Logger("avcp.readme")
	logger.Info("hidden")
	logger.Error("README is out of date")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "avcp.readme") {
		t.Errorf("output should carry the logger name: %q", out)
	}
	if !strings.Contains(out, "README is out of date") {
		t.Errorf("output should contain the error message: %q", out)
	}
}

func TestProvider_DistinctNames(t *testing.T) {
	provider := Discard()
	if provider.Logger("a") == provider.Logger("b") {
		t.Error("different names should yield different loggers")
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	if err != nil {
		t.Fatalf("ParseLevel() error = %v", err)
	}
	if level != log.DebugLevel {
		t.Errorf("level = %v, want debug", level)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
