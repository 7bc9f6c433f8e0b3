package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/forecastbot/pkg/ports"
)

func TestConsoleLogger_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWithWriters(ports.LevelInfo, &out, &errOut)

	l.Info("capture finished for %s", "twitter")
	l.Warn("font stylesheet not loaded")

	if !strings.Contains(out.String(), "capture finished for twitter") {
		t.Errorf("expected info on stdout, got %q", out.String())
	}
	if strings.Contains(out.String(), "font stylesheet") {
		t.Error("warn must not be written to stdout")
	}
	if !strings.Contains(errOut.String(), "font stylesheet not loaded") {
		t.Errorf("expected warn on stderr, got %q", errOut.String())
	}
}

func TestConsoleLogger_LevelFilter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWithWriters(ports.LevelWarn, &out, &errOut)

	l.Debug("debug detail")
	l.Info("info detail")
	l.Error("broken")

	if out.Len() != 0 {
		t.Errorf("expected no stdout output at warn level, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "broken") {
		t.Errorf("expected error on stderr, got %q", errOut.String())
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWithWriters(ports.LevelDebug, &out, &errOut)

	l.WithComponent("browser").Debug("launching")

	if !strings.Contains(out.String(), "forecastbot/browser") {
		t.Errorf("expected component prefix, got %q", out.String())
	}
}

func TestNoopLogger(t *testing.T) {
	l := NewNoop()
	l.Info("ignored")
	if l.WithComponent("x") != l {
		t.Error("expected WithComponent to return the same logger")
	}
}
