package rodbrowser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/forecastbot/pkg/adapters/chromebrowser"
	"github.com/user/forecastbot/pkg/ports"
)

func launchOrSkip(t *testing.T) *Browser {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	chromePath := chromebrowser.ResolveChromePath("")
	if chromePath == "" {
		t.Skip("Chrome not installed, skipping browser test")
	}

	b := New()
	if err := b.Launch(context.Background(), ports.BrowserOptions{
		ChromePath: chromePath,
		Headless:   true,
		UserAgent:  "forecastbot-test",
	}); err != nil {
		t.Fatalf("failed to launch: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBrowser_CloseWithoutLaunch(t *testing.T) {
	b := New()
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestBrowser_NavigateEvaluate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><div id="ua">%s</div></body></html>`, r.UserAgent())
	}))
	defer srv.Close()

	b := launchOrSkip(t)

	resp, err := b.Navigate(srv.URL, 15*time.Second)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if !resp.OK() {
		t.Errorf("expected OK response, got %d", resp.Status)
	}

	var ua string
	if err := b.Evaluate(`document.getElementById('ua').textContent`, &ua); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ua != "forecastbot-test" {
		t.Errorf("expected user agent override, got %q", ua)
	}
}

func TestBrowser_SetContentAndCapture(t *testing.T) {
	b := launchOrSkip(t)

	if err := b.SetViewport(ports.Viewport{Width: 200, Height: 100, DeviceScaleFactor: 1}); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	if err := b.SetContent(`<html><body style="background:#FF8C00"></body></html>`); err != nil {
		t.Fatalf("SetContent: %v", err)
	}

	data, err := b.CaptureRegion(ports.Rect{Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("CaptureRegion: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Errorf("expected PNG data")
	}
}
