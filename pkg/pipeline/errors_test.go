package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrNavigationTimeout_MatchesNavigation(t *testing.T) {
	err := fmt.Errorf("load page: %w", ErrNavigationTimeout)
	if !errors.Is(err, ErrNavigation) {
		t.Error("expected timeout to match ErrNavigation")
	}
	if !errors.Is(err, ErrNavigationTimeout) {
		t.Error("expected timeout to match ErrNavigationTimeout")
	}
	if errors.Is(ErrNavigation, ErrNavigationTimeout) {
		t.Error("plain navigation error must not match the timeout")
	}
}

func TestMissingEnvError(t *testing.T) {
	err := MissingEnvError{Platform: "telegram", Variables: []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHANNEL_ID"}}

	want := "telegram credentials not configured (missing TELEGRAM_BOT_TOKEN, TELEGRAM_CHANNEL_ID)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("expected MissingEnvError to match ErrConfig")
	}

	var target MissingEnvError
	if !errors.As(fmt.Errorf("wrap: %w", err), &target) {
		t.Fatal("expected errors.As to find MissingEnvError")
	}
	if len(target.Variables) != 2 {
		t.Errorf("expected 2 variables, got %d", len(target.Variables))
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "full",
			err:  &APIError{Platform: "facebook", StatusCode: 400, Code: "190", Message: "Invalid OAuth access token"},
			want: "facebook API error (HTTP 400) [190]: Invalid OAuth access token",
		},
		{
			name: "message only",
			err:  &APIError{Platform: "twitter", Message: "Forbidden"},
			want: "twitter API error: Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.err.Error())
			}
			if !errors.Is(tt.err, ErrPublish) {
				t.Error("expected APIError to match ErrPublish")
			}
		})
	}
}
