package summarizer

import (
	"strings"
	"testing"
	"time"

	"github.com/user/forecastbot/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
		RunID:       "01JABCDEF",
		Duration:    42 * time.Second,
		Targets: []TargetSummary{
			{Name: "twitter", Platform: "twitter", Status: "failed", Duration: 3 * time.Second, Error: "twitter API error (HTTP 403): forbidden | denied"},
			{Name: "telegram", Platform: "telegram", Status: "succeeded", PostID: "42", Permalink: "https://t.me/bazigpt/42", Duration: 850 * time.Millisecond},
			{Name: "facebook", Platform: "facebook", Status: "succeeded", PostID: "555", Permalink: "https://www.facebook.com/1234/posts/555", Duration: 5 * time.Second},
			{Name: "facebook-story", Platform: "facebook-story", Status: "succeeded", Secondary: true, PostID: "story-9", Duration: 2 * time.Second},
		},
	}
}

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	summary := NewBuilder().
		WithRun("01RUN", 3*time.Second, true).
		AddTarget(TargetSummary{Name: "twitter", Status: "skipped"}).
		AddTarget(TargetSummary{Name: "telegram", Status: "failed"}).
		Build()

	if summary.RunID != "01RUN" || summary.Duration != 3*time.Second || !summary.DryRun {
		t.Errorf("unexpected run metadata: %+v", summary)
	}
	if len(summary.Targets) != 2 || summary.Targets[1].Name != "telegram" {
		t.Errorf("expected targets in order, got %+v", summary.Targets)
	}
}

func TestSummary_FailedIgnoresSecondary(t *testing.T) {
	s := sampleSummary()
	s.Targets[3].Status = "failed"
	if got := s.Failed(); got != 1 {
		t.Errorf("expected 1 failed primary target, got %d", got)
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Run Summary",
		"01JABCDEF",
		"42.0 s",
		"| twitter | failed |",
		"[42](https://t.me/bazigpt/42)",
		"850 ms",
		"↳ facebook-story",
		`forbidden \| denied`,
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
	if strings.Contains(result, "Dry run") {
		t.Error("expected no dry run marker")
	}
}

func TestMarkdownFormatter_DryRun(t *testing.T) {
	s := sampleSummary()
	s.DryRun = true
	if !strings.Contains(NewMarkdownFormatter().Format(s), "Dry run (nothing published)") {
		t.Error("expected dry run marker")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Run Summary": "运行摘要",
			"Target":      "目标",
			"succeeded":   "成功",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	result := NewMarkdownFormatter(WithTranslator(translator)).Format(sampleSummary())

	for _, want := range []string{"运行摘要", "目标", "成功"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected translated %q", want)
		}
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithVersion("v1.2.0")).Format(sampleSummary())
	if !strings.Contains(result, "v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestTableFormatter_Format(t *testing.T) {
	result := NewTableFormatter().Format(sampleSummary())

	for _, want := range []string{
		"Target", "Status", "Post",
		"twitter", "failed",
		"https://t.me/bazigpt/42",
		"story-9",
		"2/3 targets succeeded",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected table to contain %q\n%s", want, result)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 ms"},
		{850 * time.Millisecond, "850 ms"},
		{time.Second, "1.0 s"},
		{1500 * time.Millisecond, "1.5 s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "summary " + s.RunID }), fs)

	if err := w.Write("out/summary.md", sampleSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := fs.ReadFile("out/summary.md")
	if err != nil {
		t.Fatalf("expected file written: %v", err)
	}
	if string(data) != "summary 01JABCDEF" {
		t.Errorf("unexpected content %q", data)
	}
}
