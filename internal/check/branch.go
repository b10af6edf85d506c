package check

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

type BranchCheck struct{}

func (BranchCheck) Name() string { return "branch" }

func (BranchCheck) Run(_ context.Context, in Input, rec *Recorder) error {
	b := in.Config.Branches
	if len(b.AllowedTarget) > 0 || len(b.BlockedTarget) > 0 {
		rec.Record(branchResult("target-branch", "Target", in.PR.BaseBranch, b.AllowedTarget, b.BlockedTarget))
	}
	if len(b.AllowedSource) > 0 || len(b.BlockedSource) > 0 {
		rec.Record(branchResult("source-branch", "Source", in.PR.HeadBranch, b.AllowedSource, b.BlockedSource))
	}
	return nil
}

func branchResult(name, label, branch string, allowed, blocked []string) Result {
	switch {
	case len(allowed) > 0 && !matchAny(branch, allowed):
		return Result{Name: name, Passed: false, Message: fmt.Sprintf("%s branch %q is not allowed", label, branch)}
	case matchAny(branch, blocked):
		return Result{Name: name, Passed: false, Message: fmt.Sprintf("%s branch %q is blocked", label, branch)}
	default:
		return Result{Name: name, Passed: true, Message: fmt.Sprintf("%s branch %q is allowed", label, branch)}
	}
}

func matchAny(branch string, patterns []string) bool {
	for _, p := range patterns {
		if MatchBranch(branch, p) {
			return true
		}
	}
	return false
}

// MatchBranch reports whether branch matches a glob pattern where "*" matches within one
// path segment and "**" matches across segments. Patterns without "*" compare exactly.
func MatchBranch(branch, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return branch == pattern
	}

	var sb strings.Builder
	sb.WriteString("^")
	for i, part := range strings.Split(pattern, "**") {
		if i > 0 {
			sb.WriteString(".*")
		}
		for j, seg := range strings.Split(part, "*") {
			if j > 0 {
				sb.WriteString("[^/]*")
			}
			sb.WriteString(regexp.QuoteMeta(seg))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(branch)
}
