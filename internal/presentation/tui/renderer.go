package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rodrigues2k/fluent-selenium/internal/script"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// Markdown formats a run report as a markdown document.
func Markdown(r *script.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Chain run (%s)\n\n", r.Mode)

	if r.Error != "" {
		fmt.Fprintf(&b, "> **Stopped:** `%s`\n\n", r.Error)
	} else {
		b.WriteString("> **Completed**\n\n")
	}

	b.WriteString("## Journal\n\n")
	if len(r.Journal) == 0 {
		b.WriteString("_no backend calls_\n\n")
	} else {
		b.WriteString("```\n")
		for _, l := range r.Journal {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		b.WriteString("```\n\n")
	}

	if len(r.Results) > 0 {
		b.WriteString("## Results\n\n| Step | Value |\n|---|---|\n")
		for _, res := range r.Results {
			fmt.Fprintf(&b, "| `%s` | %s |\n", res.Step, escapeCell(res.Value))
		}
	}
	return b.String()
}

// Plain formats a run report for pipes: the journal, then one "step = value" line per result.
func Plain(r *script.Report) string {
	var b strings.Builder
	for _, l := range r.Journal {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for _, res := range r.Results {
		fmt.Fprintf(&b, "%s = %s\n", res.Step, res.Value)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
