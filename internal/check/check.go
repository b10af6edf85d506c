// Package check runs the configured pull request checks and aggregates their results.
package check

import (
	"context"
	"fmt"
	"log/slog"

	"prguard/internal/config"
	"prguard/internal/source"
)

// Input is everything a check may look at.
type Input struct {
	Config *config.Config
	PR     PullRequest
}

// Check evaluates one concern and records zero or more results.
// Returning an error aborts the run; a failed check is a recorded result, not an error.
type Check interface {
	Name() string
	Run(ctx context.Context, in Input, rec *Recorder) error
}

// Registry is the fixed, ordered list of checks for a run.
type Registry struct {
	checks []Check
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger, checks ...Check) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{checks: checks, logger: logger}
}

// DefaultRegistry wires every check, reading the PR template through src. remote may be nil
// when no GitHub access is configured; checks that need it then fail the run if enabled.
func DefaultRegistry(logger *slog.Logger, src source.Source, templatePaths []string, remote Remote) *Registry {
	inherited := &inheritedLoader{remote: remote}
	return NewRegistry(logger,
		BranchCheck{},
		&QualityCheck{Remote: remote},
		TitleCheck{},
		DescriptionCheck{},
		&TemplateCheck{Source: src, Paths: templatePaths, Logger: logger},
		&CommitCheck{Remote: remote, Logger: logger, inherited: inherited},
		&FileCheck{Remote: remote, Logger: logger, inherited: inherited},
		&UserCheck{Remote: remote},
	)
}

// Run executes every check in order.
func (r *Registry) Run(ctx context.Context, in Input, rec *Recorder) error {
	for _, c := range r.checks {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Debug("running check", "check", c.Name())
		if err := c.Run(ctx, in, rec); err != nil {
			return fmt.Errorf("%s check: %w", c.Name(), err)
		}
	}
	return nil
}
