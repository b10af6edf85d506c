// Package report renders and persists the outcome of a check run.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"prguard/internal/check"
)

// Report is the JSON document written by "prguard check --report".
type Report struct {
	Version     string         `json:"version"`
	Repository  string         `json:"repository"`
	Number      int            `json:"number"`
	GeneratedAt string         `json:"generated_at"`
	Exempt      string         `json:"exempt,omitempty"`
	MaxFailures int            `json:"max_failures"`
	Results     []check.Result `json:"results"`
	Summary     check.Summary  `json:"summary"`
}

func NewReport(pr check.PullRequest, maxFailures int, results []check.Result) *Report {
	if results == nil {
		results = []check.Result{}
	}
	return &Report{
		Version:     "v1",
		Repository:  pr.FullName(),
		Number:      pr.Number,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		MaxFailures: maxFailures,
		Results:     results,
		Summary:     check.Summarize(results, maxFailures),
	}
}

// NewExemptReport records a run that was skipped because the PR is exempt.
func NewExemptReport(pr check.PullRequest, maxFailures int, reason string) *Report {
	r := NewReport(pr, maxFailures, nil)
	r.Exempt = reason
	return r
}

func (r *Report) Save(path string) error {
	if r == nil {
		return nil
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
