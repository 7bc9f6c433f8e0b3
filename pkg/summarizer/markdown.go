package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a summary as a Markdown document.
type MarkdownFormatter struct {
	opts options
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...Option) *MarkdownFormatter {
	return &MarkdownFormatter{opts: newOptions(opts)}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.opts.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Run Summary"))

	fmt.Fprintf(&b, "- **%s**: %s\n", t("Run ID"), orDash(s.RunID))
	fmt.Fprintf(&b, "- **%s**: %s\n", t("Generated At"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **%s**: %s\n", t("Duration"), formatDuration(s.Duration))
	if s.DryRun {
		fmt.Fprintf(&b, "- **%s**: %s\n", t("Mode"), t("Dry run (nothing published)"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Targets"))
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", t("Target"), t("Status"), t("Post"), t("Duration"), t("Error"))
	b.WriteString("|---|---|---|---|---|\n")
	for _, target := range s.Targets {
		name := target.Name
		if target.Secondary {
			name = "↳ " + name
		}
		post := orDash(target.PostID)
		if target.Permalink != "" {
			post = fmt.Sprintf("[%s](%s)", orDash(target.PostID), target.Permalink)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escapeCell(name),
			t(target.Status),
			post,
			formatDuration(target.Duration),
			escapeCell(orDash(target.Error)),
		)
	}

	if f.opts.version != "" {
		fmt.Fprintf(&b, "\n---\n%s %s\n", t("Generated by forecastbot"), f.opts.version)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

var _ Formatter = (*MarkdownFormatter)(nil)
