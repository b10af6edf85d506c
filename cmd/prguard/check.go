package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"prguard/internal/actions"
	"prguard/internal/check"
	"prguard/internal/config"
	"prguard/internal/exemption"
	"prguard/internal/git"
	"prguard/internal/report"
	"prguard/internal/source"
	"prguard/internal/storage"

	"github.com/google/go-github/v66/github"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	eventPath      string
	repo           string
	number         int
	title          string
	bodyFile       string
	base           string
	head           string
	headSHA        string
	templateSource string
	templateDir    string
	ref            string
	reportPath     string
	summaryHTML    string
	applyActions   bool
	saveHistory    bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every configured check against a pull request",
		Long: "Run every configured check against a pull request. The pull request is read from the\n" +
			"GitHub event payload (GITHUB_EVENT_PATH) and can be overridden with flags.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.eventPath, "event", os.Getenv("GITHUB_EVENT_PATH"), "GitHub pull_request event payload")
	f.StringVar(&opts.repo, "repo", "", "Repository as owner/name")
	f.IntVar(&opts.number, "number", 0, "Pull request number")
	f.StringVar(&opts.title, "title", "", "Pull request title")
	f.StringVar(&opts.bodyFile, "body-file", "", "File holding the pull request description")
	f.StringVar(&opts.base, "base", "", "Target branch")
	f.StringVar(&opts.head, "head", "", "Source branch (defaults to the current git branch)")
	f.StringVar(&opts.headSHA, "head-sha", "", "Head commit the file checks read changed files at")
	f.StringVar(&opts.templateSource, "template-source", "auto", "Where to read the PR template from: auto, github, git or dir")
	f.StringVar(&opts.templateDir, "template-dir", ".", "Repository directory for the git and dir template sources")
	f.StringVar(&opts.ref, "ref", "", "Revision to read the PR template at (git: HEAD, github: default branch)")
	f.StringVar(&opts.reportPath, "report", "", "Write a JSON report to this path")
	f.StringVar(&opts.summaryHTML, "summary-html", "", "Write the job summary as HTML to this path")
	f.BoolVar(&opts.applyActions, "apply-actions", false, "Apply the configured success/failure actions on GitHub")
	f.BoolVar(&opts.saveHistory, "save-history", false, "Record the run in the history database")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	pr, err := loadPullRequest(ctx, cmd, opts)
	if err != nil {
		return err
	}
	logger.Info("checking pull request", "repo", pr.FullName(), "number", pr.Number)

	var rep *report.Report
	if reason := exemption.Check(cfg, pr); reason != "" {
		logger.Info("pull request is exempt from checks", "reason", reason)
		rep = report.NewExemptReport(pr, cfg.MaxFailures, reason)
	} else {
		src, err := templateSource(cfg, pr, opts)
		if err != nil {
			return err
		}
		rec := check.NewRecorder(logger)
		var remote check.Remote
		if client := githubClient(cfg, pr); client != nil {
			remote = check.NewGitHubRemote(client)
		}
		registry := check.DefaultRegistry(logger, src, cfg.Template.Paths, remote)
		if err := registry.Run(ctx, check.Input{Config: cfg, PR: pr}, rec); err != nil {
			return err
		}
		rep = report.NewReport(pr, cfg.MaxFailures, rec.Results())
	}

	if err := writeOutputs(rep, opts); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rep.Markdown())

	if opts.saveHistory {
		if err := saveRun(ctx, rep, logger); err != nil {
			return err
		}
	}

	if opts.applyActions && rep.Exempt == "" {
		if client := githubClient(cfg, pr); client == nil {
			logger.Warn("skipping actions: no GitHub token or repository configured")
		} else {
			actions.New(client, logger).Apply(ctx, cfg, pr, rep.Summary.Status)
		}
	}

	if rep.Summary.Status == check.StatusFailed {
		return fmt.Errorf("%w: %d of %d failed (max-failures %d)", errChecksFailed,
			rep.Summary.Failed, rep.Summary.Total, cfg.MaxFailures)
	}
	return nil
}

// githubClient returns an authenticated client, or nil without a token or repository.
func githubClient(cfg *config.Config, pr check.PullRequest) *github.Client {
	if cfg.GitHubToken == "" || pr.Owner == "" || pr.Repo == "" {
		return nil
	}
	return github.NewClient(nil).WithAuthToken(cfg.GitHubToken)
}

func loadPullRequest(ctx context.Context, cmd *cobra.Command, opts *checkOptions) (check.PullRequest, error) {
	var pr check.PullRequest
	if opts.eventPath != "" {
		var err error
		if pr, err = check.LoadEvent(opts.eventPath); err != nil {
			return pr, err
		}
	}

	if opts.repo != "" {
		owner, name, ok := strings.Cut(opts.repo, "/")
		if !ok || owner == "" || name == "" {
			return pr, fmt.Errorf("--repo must be owner/name, got %q", opts.repo)
		}
		pr.Owner, pr.Repo = owner, name
	}
	if opts.bodyFile != "" {
		body, err := os.ReadFile(opts.bodyFile)
		if err != nil {
			return pr, err
		}
		pr.Body = string(body)
	}

	flags := cmd.Flags()
	if flags.Changed("number") {
		pr.Number = opts.number
	}
	if flags.Changed("title") {
		pr.Title = opts.title
	}
	if opts.base != "" {
		pr.BaseBranch = opts.base
	}
	if opts.head != "" {
		pr.HeadBranch = opts.head
	}
	if opts.headSHA != "" {
		pr.HeadSHA = opts.headSHA
	}
	if pr.HeadBranch == "" {
		if branch, err := git.Open(opts.templateDir).CurrentBranch(ctx); err == nil {
			pr.HeadBranch = branch
		}
	}
	return pr, nil
}

func templateSource(cfg *config.Config, pr check.PullRequest, opts *checkOptions) (source.Source, error) {
	kind := opts.templateSource
	if kind == "auto" {
		kind = "git"
		if pr.Owner != "" && pr.Repo != "" && cfg.GitHubToken != "" {
			kind = "github"
		}
	}

	switch kind {
	case "github":
		if pr.Owner == "" || pr.Repo == "" {
			return nil, fmt.Errorf("github template source needs a repository (--repo or --event)")
		}
		return source.NewGitHub(cfg.GitHubToken, pr.Owner, pr.Repo, opts.ref), nil
	case "git":
		return source.Git{Repo: git.Open(opts.templateDir), Ref: opts.ref}, nil
	case "dir":
		return source.Dir{Root: opts.templateDir}, nil
	default:
		return nil, fmt.Errorf("unknown template source %q", opts.templateSource)
	}
}

func writeOutputs(rep *report.Report, opts *checkOptions) error {
	if opts.reportPath != "" {
		if err := rep.Save(opts.reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if opts.summaryHTML != "" {
		html, err := rep.RenderHTML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.summaryHTML, html, 0644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return rep.AppendStepSummary()
}

func saveRun(ctx context.Context, rep *report.Report, logger *slog.Logger) error {
	store, err := initStore()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	id, err := store.SaveRun(ctx, storage.Run{
		Repo:   rep.Repository,
		Number: rep.Number,
		Status: rep.Summary.Status,
		Total:  rep.Summary.Total,
		Failed: rep.Summary.Failed,
		Exempt: rep.Exempt,
	}, rep.Results)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Debug("saved run", "id", id, "db", dbPath)
	return nil
}
