package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"prguard/internal/check"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders the job summary: failed results first, then passed, each group in
// recorded order.
func (r *Report) Markdown() string {
	var sb strings.Builder

	if r.Summary.Status == check.StatusSkipped {
		sb.WriteString("### PR Quality Checks - Skipped\n\n")
		if r.Exempt != "" {
			fmt.Fprintf(&sb, "Checks were skipped: %s.\n", r.Exempt)
		} else {
			sb.WriteString("No checks were enabled or applicable for this PR.\n")
		}
		return sb.String()
	}

	status := "Passed"
	if r.Summary.Status == check.StatusFailed {
		status = "Failed"
	}
	fmt.Fprintf(&sb, "### PR Quality Checks - %s\n\n", status)
	fmt.Fprintf(&sb, "%d/%d checks failed · %d checks passed\n\n", r.Summary.Failed, r.Summary.Total, r.Summary.Passed)

	sb.WriteString("| Result | Check | Details |\n")
	sb.WriteString("| --- | --- | --- |\n")
	for _, wantPassed := range []bool{false, true} {
		for _, res := range r.Results {
			if res.Passed != wantPassed {
				continue
			}
			mark := "✅"
			if !res.Passed {
				mark = "❌"
			}
			fmt.Fprintf(&sb, "| %s | <code>%s</code> | %s |\n", mark, res.Name, tableCell(res.Message))
		}
	}
	return sb.String()
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderHTML converts the Markdown summary to HTML.
func (r *Report) RenderHTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(r.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	return buf.Bytes(), nil
}

// AppendStepSummary appends the Markdown summary to the file named by GITHUB_STEP_SUMMARY.
// It is a no-op outside GitHub Actions.
func (r *Report) AppendStepSummary() error {
	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(r.Markdown())
	return err
}
