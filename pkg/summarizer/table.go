package summarizer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableFormatter renders the per-platform table printed at the end of a run.
type TableFormatter struct {
	opts options
}

// NewTableFormatter creates a TableFormatter.
func NewTableFormatter(opts ...Option) *TableFormatter {
	return &TableFormatter{opts: newOptions(opts)}
}

// Format implements Formatter.
func (f *TableFormatter) Format(s *Summary) string {
	t := f.opts.translate

	rows := make([][]string, 0, len(s.Targets))
	for _, target := range s.Targets {
		name := target.Name
		if target.Secondary {
			name = "  " + name
		}
		link := target.Permalink
		if link == "" {
			link = target.PostID
		}
		rows = append(rows, []string{
			name,
			t(target.Status),
			orDash(link),
			formatDuration(target.Duration),
			orDash(target.Error),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t("Target"), t("Status"), t("Post"), t("Duration"), t("Error")).
		Rows(rows...)

	footer := fmt.Sprintf("%s %s, %d/%d %s", t("Run"), orDash(s.RunID), len(s.primary())-s.Failed(), len(s.primary()), t("targets succeeded"))
	if s.DryRun {
		footer += " (" + t("dry run") + ")"
	}
	return tbl.String() + "\n" + footer + "\n"
}

func (s *Summary) primary() []TargetSummary {
	out := make([]TargetSummary, 0, len(s.Targets))
	for _, t := range s.Targets {
		if !t.Secondary {
			out = append(out, t)
		}
	}
	return out
}

var _ Formatter = (*TableFormatter)(nil)
