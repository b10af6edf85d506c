package check

import (
	"log/slog"
)

// Status is the overall verdict of a run.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is one named pass/fail record.
type Result struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Summary aggregates recorded results against the failure threshold.
type Summary struct {
	Total  int    `json:"total"`
	Failed int    `json:"failed"`
	Passed int    `json:"passed"`
	Status Status `json:"status"`
}

// Recorder collects results in the order checks report them.
type Recorder struct {
	logger  *slog.Logger
	results []Result
}

func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Record appends a result and logs it.
func (r *Recorder) Record(res Result) {
	if res.Passed {
		r.logger.Info("[PASS] "+res.Name, "message", res.Message)
	} else {
		r.logger.Warn("[FAIL] "+res.Name, "message", res.Message)
	}
	r.results = append(r.results, res)
}

// Skip logs a check that did not apply. Nothing is recorded.
func (r *Recorder) Skip(name, reason string) {
	r.logger.Info("[SKIP] "+name, "reason", reason)
}

// Results returns a copy of the recorded results.
func (r *Recorder) Results() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// Summarize counts results. The run fails when failures reach maxFailures; with no
// results at all it is skipped.
func (r *Recorder) Summarize(maxFailures int) Summary {
	return Summarize(r.results, maxFailures)
}

func Summarize(results []Result, maxFailures int) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		if res.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}

	switch {
	case s.Total == 0:
		s.Status = StatusSkipped
	case s.Failed >= maxFailures:
		s.Status = StatusFailed
	default:
		s.Status = StatusPassed
	}
	return s
}
