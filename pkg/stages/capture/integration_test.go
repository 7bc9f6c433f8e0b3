package capture_test

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/forecastbot/pkg/adapters/chromebrowser"
	"github.com/user/forecastbot/pkg/adapters/logger"
	"github.com/user/forecastbot/pkg/adapters/nullsink"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
	"github.com/user/forecastbot/pkg/stages/capture"
	"github.com/user/forecastbot/pkg/stages/fonts"
	"github.com/user/forecastbot/pkg/stages/textfit"
)

// cardServer serves portrait cards of a given height at /card/<height>.
func cardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/card/", func(w http.ResponseWriter, r *http.Request) {
		var height int
		if _, err := fmt.Sscanf(r.URL.Path, "/card/%d", &height); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html><html><body style="margin:0">
<div class="container" style="height:%dpx;background:#1b1b2f;color:#fff">
<h1 class="title">每日运势</h1><p class="forecast">Steady progress today.</p>
</div></body></html>`, height)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRealStage(t *testing.T) *capture.Stage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	chromePath := chromebrowser.ResolveChromePath("")
	if chromePath == "" {
		t.Skip("Chrome not installed, skipping browser test")
	}

	log := logger.NewNoop()
	prober := fonts.New(fonts.Options{FontStack: "sans-serif", SettleTimeout: time.Second}, log)
	return capture.New(
		func() ports.Browser { return chromebrowser.New() },
		ports.BrowserOptions{Headless: true, ChromePath: chromePath},
		prober,
		textfit.NewAdjuster(log),
		nullsink.New(),
		log,
	)
}

func portraitRequest(url string) pipeline.CaptureRequest {
	return pipeline.CaptureRequest{
		Name:              "facebook",
		URL:               url,
		Viewport:          ports.Viewport{Width: 800, Height: 1200, DeviceScaleFactor: 1},
		MaxHeight:         1200,
		DefaultHeight:     1200,
		NavigationTimeout: 20 * time.Second,
	}
}

func TestCapture_RealBrowser_ClipHeights(t *testing.T) {
	stage := newRealStage(t)
	srv := cardServer(t)

	tests := []struct {
		content int
		want    int
	}{
		{900, 900},
		{1500, 1200},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dpx", tt.content), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			result, err := stage.Execute(ctx, portraitRequest(fmt.Sprintf("%s/card/%d", srv.URL, tt.content)))
			if err != nil {
				t.Fatalf("capture failed: %v", err)
			}
			if result.Clip.Height != tt.want {
				t.Errorf("expected clip height %d, got %d", tt.want, result.Clip.Height)
			}

			img, err := png.Decode(bytes.NewReader(result.Image))
			if err != nil {
				t.Fatalf("capture is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 800 || b.Dy() != tt.want {
				t.Errorf("expected 800x%d image, got %dx%d", tt.want, b.Dx(), b.Dy())
			}
		})
	}
}

func TestCapture_RealBrowser_Fallback(t *testing.T) {
	stage := newRealStage(t)
	srv := cardServer(t)

	req := portraitRequest(srv.URL + "/missing")
	req.FallbackURL = srv.URL + "/card/700"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := stage.Execute(ctx, req)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if !result.UsedFallback || result.Clip.Height != 700 {
		t.Errorf("expected fallback capture at 700px, got fallback=%t height=%d", result.UsedFallback, result.Clip.Height)
	}
}
