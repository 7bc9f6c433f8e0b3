package session

import (
	"context"
	"errors"
	"testing"

	"github.com/user/forecastbot/pkg/adapters/logger"
	"github.com/user/forecastbot/pkg/mocks"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

func TestAcquire_DefaultsUserAgent(t *testing.T) {
	browser := &mocks.Browser{}

	s, err := Acquire(context.Background(), browser, ports.BrowserOptions{Headless: true}, logger.NewNoop())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer s.Close()

	if len(browser.LaunchCalls) != 1 {
		t.Fatalf("expected 1 launch, got %d", len(browser.LaunchCalls))
	}
	if browser.LaunchCalls[0].UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", browser.LaunchCalls[0].UserAgent)
	}
}

func TestAcquire_LaunchFailure(t *testing.T) {
	browser := &mocks.Browser{
		LaunchFunc: func(ctx context.Context, opts ports.BrowserOptions) error {
			return errors.New("chrome crashed")
		},
	}

	_, err := Acquire(context.Background(), browser, DefaultOptions(), logger.NewNoop())
	if !errors.Is(err, pipeline.ErrBrowserLaunch) {
		t.Fatalf("expected ErrBrowserLaunch, got %v", err)
	}
	if len(browser.LaunchCalls) != 1 {
		t.Errorf("expected no retry, got %d launches", len(browser.LaunchCalls))
	}
	if browser.CloseCalls != 1 {
		t.Errorf("expected cleanup after failed launch, got %d closes", browser.CloseCalls)
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	browser := &mocks.Browser{}
	s, err := Acquire(context.Background(), browser, DefaultOptions(), logger.NewNoop())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	s.Close()
	s.Close()

	if browser.CloseCalls != 1 {
		t.Errorf("expected browser closed once, got %d", browser.CloseCalls)
	}
}

func TestWith_ReleasesOnAllPaths(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(*Session) (int, error)
		wantErr bool
		panics  bool
	}{
		{
			name: "success",
			fn:   func(*Session) (int, error) { return 42, nil },
		},
		{
			name:    "error",
			fn:      func(*Session) (int, error) { return 0, errors.New("capture failed") },
			wantErr: true,
		},
		{
			name:   "panic",
			fn:     func(*Session) (int, error) { panic("boom") },
			panics: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser := &mocks.Browser{}

			func() {
				defer func() {
					r := recover()
					if tt.panics && r == nil {
						t.Error("expected panic to propagate")
					}
					if !tt.panics && r != nil {
						t.Errorf("unexpected panic: %v", r)
					}
				}()

				got, err := With(context.Background(), browser, DefaultOptions(), logger.NewNoop(), tt.fn)
				if tt.wantErr && err == nil {
					t.Error("expected error")
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if !tt.wantErr && got != 42 {
					t.Errorf("expected 42, got %d", got)
				}
			}()

			if browser.CloseCalls != 1 {
				t.Errorf("expected browser closed once, got %d", browser.CloseCalls)
			}
		})
	}
}

func TestWith_LaunchFailureSkipsFn(t *testing.T) {
	browser := &mocks.Browser{
		LaunchFunc: func(ctx context.Context, opts ports.BrowserOptions) error {
			return errors.New("no chrome")
		},
	}
	called := false

	_, err := With(context.Background(), browser, DefaultOptions(), logger.NewNoop(), func(*Session) (struct{}, error) {
		called = true
		return struct{}{}, nil
	})
	if !errors.Is(err, pipeline.ErrBrowserLaunch) {
		t.Fatalf("expected ErrBrowserLaunch, got %v", err)
	}
	if called {
		t.Error("fn must not run when launch fails")
	}
}
