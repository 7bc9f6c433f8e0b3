package pipeline

import (
	"errors"
	"testing"
)

type mapSource map[string]string

func (m mapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func TestResolveCredentials(t *testing.T) {
	keys := []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHANNEL_ID"}

	values, err := ResolveCredentials("telegram", mapSource{
		"TELEGRAM_BOT_TOKEN":  " 123:abc ",
		"TELEGRAM_CHANNEL_ID": "@bazigpt",
	}, keys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["TELEGRAM_BOT_TOKEN"] != "123:abc" {
		t.Errorf("expected trimmed token, got %q", values["TELEGRAM_BOT_TOKEN"])
	}
}

func TestResolveCredentials_ReportsAllMissing(t *testing.T) {
	keys := []string{"A", "B", "C"}

	_, err := ResolveCredentials("twitter", mapSource{"B": "set", "C": "   "}, keys)

	var missing MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingEnvError, got %v", err)
	}
	if len(missing.Variables) != 2 || missing.Variables[0] != "A" || missing.Variables[1] != "C" {
		t.Errorf("expected [A C], got %v", missing.Variables)
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("expected ErrConfig")
	}
}

func TestResolveCredentials_NilSource(t *testing.T) {
	if _, err := ResolveCredentials("facebook", nil, []string{"X"}); err == nil {
		t.Fatal("expected error for nil source")
	}
}
