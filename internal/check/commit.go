package check

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Squash-merge subjects end with the PR number, e.g. "Add login (#123)".
var squashSubjectPattern = regexp.MustCompile(`\(#\d+\)$`)

// CommitCheck looks at the PR's own commits. Commits inherited from the default branch are
// left out.
type CommitCheck struct {
	Remote Remote
	Logger *slog.Logger

	inherited *inheritedLoader
}

func (c *CommitCheck) Name() string { return "commits" }

func (c *CommitCheck) Run(ctx context.Context, in Input, rec *Recorder) error {
	s := in.Config.Commits
	if s.MaxMessageLength == 0 && !s.RequireConventional && !s.RequireAuthorMatch {
		return nil
	}
	if c.Remote == nil {
		return ErrNoRemote
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if c.inherited == nil {
		c.inherited = &inheritedLoader{remote: c.Remote}
	}

	all, err := c.Remote.Commits(ctx, in.PR)
	if err != nil {
		return fmt.Errorf("list commits: %w", err)
	}
	inherited, err := c.inherited.load(ctx, in.PR)
	if err != nil {
		return fmt.Errorf("compare %s with %s: %w", in.PR.BaseBranch, in.PR.DefaultBranch, err)
	}

	var commits []Commit
	for _, cm := range all {
		if inherited.SHAs[cm.SHA] {
			logger.Debug("excluding inherited commit", "sha", cm.SHA, "subject", subject(cm.Message))
			continue
		}
		commits = append(commits, cm)
	}

	if s.MaxMessageLength > 0 {
		oversized := 0
		for _, cm := range commits {
			if utf8.RuneCountInString(cm.Message) > s.MaxMessageLength {
				oversized++
			}
		}
		if oversized == 0 {
			rec.Record(Result{Name: "max-commit-message-length", Passed: true,
				Message: fmt.Sprintf("All commit messages are within the %d character limit", s.MaxMessageLength)})
		} else {
			rec.Record(Result{Name: "max-commit-message-length", Passed: false,
				Message: fmt.Sprintf("%d commit message(s) exceed the %d character limit", oversized, s.MaxMessageLength)})
		}
	}

	if s.RequireConventional {
		passed := true
		for _, cm := range commits {
			sub := subject(cm.Message)
			if strings.HasPrefix(sub, "Merge ") || squashSubjectPattern.MatchString(sub) {
				continue
			}
			if !conventionalPattern.MatchString(sub) {
				passed = false
				break
			}
		}
		if passed {
			rec.Record(Result{Name: "conventional-commits", Passed: true,
				Message: "All commit messages follow conventional commits format"})
		} else {
			rec.Record(Result{Name: "conventional-commits", Passed: false,
				Message: "Not all commit messages follow conventional commits format"})
		}
	}

	if s.RequireAuthorMatch {
		var mismatched []string
		seen := make(map[string]bool)
		for _, cm := range commits {
			if cm.Author != "" && strings.EqualFold(cm.Author, in.PR.Author) {
				continue
			}
			label := `"unknown" (no GitHub account)`
			if cm.Author != "" {
				label = `"` + cm.Author + `"`
			}
			if !seen[label] {
				seen[label] = true
				mismatched = append(mismatched, label)
			}
		}
		if len(mismatched) == 0 {
			rec.Record(Result{Name: "commit-author-match", Passed: true, Message: "All commit authors match the PR author"})
		} else {
			rec.Record(Result{Name: "commit-author-match", Passed: false, Message: fmt.Sprintf(
				"Commit author(s) %s do not match PR author %q", strings.Join(mismatched, ", "), in.PR.Author)})
		}
	}
	return nil
}

func subject(message string) string {
	first, _, _ := strings.Cut(message, "\n")
	return first
}
