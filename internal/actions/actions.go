// Package actions applies the configured side effects to a pull request once its checks
// have been summarized.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prguard/internal/check"
	"prguard/internal/config"

	"github.com/google/go-github/v66/github"
)

// IssuesClient is the part of the GitHub issues API the actions use.
type IssuesClient interface {
	AddLabelsToIssue(ctx context.Context, owner, repo string, number int, labels []string) ([]*github.Label, *github.Response, error)
	RemoveLabelForIssue(ctx context.Context, owner, repo string, number int, label string) (*github.Response, error)
	RemoveLabelsForIssue(ctx context.Context, owner, repo string, number int) (*github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	Lock(ctx context.Context, owner, repo string, number int, opts *github.LockIssueOptions) (*github.Response, error)
}

// PullRequestsClient is the part of the GitHub pulls API the actions use.
type PullRequestsClient interface {
	Edit(ctx context.Context, owner, repo string, number int, pull *github.PullRequest) (*github.PullRequest, *github.Response, error)
}

// GitClient is the part of the GitHub git data API the actions use.
type GitClient interface {
	DeleteRef(ctx context.Context, owner, repo, ref string) (*github.Response, error)
}

type Runner struct {
	Issues IssuesClient
	Pulls  PullRequestsClient
	Git    GitClient
	Logger *slog.Logger
}

// New returns a Runner backed by client.
func New(client *github.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Issues: client.Issues, Pulls: client.PullRequests, Git: client.Git, Logger: logger}
}

// Apply runs the success or failure actions matching status. Skipped runs do nothing.
// Action errors are logged and never change the verdict.
func (r *Runner) Apply(ctx context.Context, cfg *config.Config, pr check.PullRequest, status check.Status) {
	switch status {
	case check.StatusPassed:
		r.onSuccess(ctx, cfg, pr)
	case check.StatusFailed:
		if err := r.onFailure(ctx, cfg, pr); err != nil {
			r.Logger.Warn("failed to execute failure actions", "pr", pr.Number, "error", err)
		}
	}
}

func (r *Runner) onSuccess(ctx context.Context, cfg *config.Config, pr check.PullRequest) {
	labels := cfg.Actions.Success.AddLabels
	if len(labels) == 0 {
		r.Logger.Info("no labels to add on success")
		return
	}
	if _, _, err := r.Issues.AddLabelsToIssue(ctx, pr.Owner, pr.Repo, pr.Number, labels); err != nil {
		r.Logger.Warn("failed to add labels to the PR", "labels", labels, "error", err)
		return
	}
	r.Logger.Info("added labels to the PR", "labels", strings.Join(labels, ", "))
}

func (r *Runner) onFailure(ctx context.Context, cfg *config.Config, pr check.PullRequest) error {
	f := cfg.Actions.Failure
	owner, repo, number := pr.Owner, pr.Repo, pr.Number

	for _, label := range f.RemoveLabels {
		if _, err := r.Issues.RemoveLabelForIssue(ctx, owner, repo, number, label); err != nil {
			r.Logger.Info("could not remove label from the PR", "label", label, "error", err)
		}
	}

	if f.RemoveAllLabels {
		if _, err := r.Issues.RemoveLabelsForIssue(ctx, owner, repo, number); err != nil {
			return fmt.Errorf("remove all labels: %w", err)
		}
		r.Logger.Info("removed all labels from the PR")
	}

	if len(f.AddLabels) > 0 {
		if _, _, err := r.Issues.AddLabelsToIssue(ctx, owner, repo, number, f.AddLabels); err != nil {
			return fmt.Errorf("add labels: %w", err)
		}
		r.Logger.Info("added labels to the PR", "labels", strings.Join(f.AddLabels, ", "))
	}

	if f.Comment != "" {
		if _, _, err := r.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: github.String(f.Comment)}); err != nil {
			return fmt.Errorf("post comment: %w", err)
		}
		r.Logger.Info("posted failure comment on the PR")
	}

	if f.Close {
		if _, _, err := r.Pulls.Edit(ctx, owner, repo, number, &github.PullRequest{State: github.String("closed")}); err != nil {
			return fmt.Errorf("close: %w", err)
		}
		r.Logger.Info("closed the PR")
	}

	if f.Lock {
		if _, err := r.Issues.Lock(ctx, owner, repo, number, &github.LockIssueOptions{LockReason: "spam"}); err != nil {
			return fmt.Errorf("lock: %w", err)
		}
		r.Logger.Info("locked the PR")
	}

	if f.DeleteBranch {
		if _, err := r.Git.DeleteRef(ctx, owner, repo, "heads/"+pr.HeadBranch); err != nil {
			return fmt.Errorf("delete branch %s: %w", pr.HeadBranch, err)
		}
		r.Logger.Info("deleted the source branch", "branch", pr.HeadBranch)
	}
	return nil
}
