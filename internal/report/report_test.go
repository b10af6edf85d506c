package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"prguard/internal/check"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pr = check.PullRequest{Owner: "acme", Repo: "widgets", Number: 7}

func TestReport_Markdown(t *testing.T) {
	r := NewReport(pr, 1, []check.Result{
		{Name: "conventional-title", Passed: true, Message: "ok"},
		{Name: "pr-template", Passed: false, Message: `Missing section(s): "Testing" | extra`},
		{Name: "linked-issue", Passed: true, Message: "Found 1 linked issue(s)\nin body"},
	})

	want := "### PR Quality Checks - Failed\n\n" +
		"1/3 checks failed · 2 checks passed\n\n" +
		"| Result | Check | Details |\n" +
		"| --- | --- | --- |\n" +
		"| ❌ | <code>pr-template</code> | Missing section(s): \"Testing\" \\| extra |\n" +
		"| ✅ | <code>conventional-title</code> | ok |\n" +
		"| ✅ | <code>linked-issue</code> | Found 1 linked issue(s) in body |\n"
	assert.Equal(t, want, r.Markdown())
}

func TestReport_MarkdownSkipped(t *testing.T) {
	assert.Equal(t, "### PR Quality Checks - Skipped\n\nNo checks were enabled or applicable for this PR.\n",
		NewReport(pr, 1, nil).Markdown())
	assert.Contains(t, NewExemptReport(pr, 1, "PR is a draft").Markdown(), "Checks were skipped: PR is a draft.")
}

func TestReport_RenderHTML(t *testing.T) {
	r := NewReport(pr, 2, []check.Result{{Name: "pr-template", Passed: false, Message: "Missing"}})

	html, err := r.RenderHTML()
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "<h3>PR Quality Checks - Passed</h3>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>pr-template</code>")
}

func TestReport_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	r := NewReport(pr, 1, []check.Result{{Name: "pr-template", Passed: true, Message: "ok"}})
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "acme/widgets", loaded.Repository)
	assert.Equal(t, check.StatusPassed, loaded.Summary.Status)
	assert.Len(t, loaded.Results, 1)
}

func TestReport_AppendStepSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_STEP_SUMMARY", path)

	r := NewReport(pr, 1, nil)
	require.NoError(t, r.AppendStepSummary())
	require.NoError(t, r.AppendStepSummary())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Markdown()+r.Markdown(), string(data))
}

func TestReport_Validate(t *testing.T) {
	r := NewReport(pr, 1, []check.Result{{Name: "pr-template", Passed: false, Message: "Missing"}})
	require.NoError(t, r.Validate())

	r.MaxFailures = 0
	assert.ErrorContains(t, r.Validate(), "schema validation failed")

	r = NewReport(pr, 1, []check.Result{{Name: "", Passed: true}})
	err := r.Save(filepath.Join(t.TempDir(), "report.json"))
	assert.ErrorContains(t, err, "schema validation failed")
}
