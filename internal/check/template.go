package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"prguard/internal/source"
	"prguard/internal/template"
)

// TemplateCheck compares the PR description with the repository's pull request template.
type TemplateCheck struct {
	Source source.Source
	Paths  []string // defaults to source.CandidatePaths
	Logger *slog.Logger
}

func (c *TemplateCheck) Name() string { return "template" }

func (c *TemplateCheck) Run(ctx context.Context, in Input, rec *Recorder) error {
	settings := in.Config.Template
	if !settings.Required {
		return nil
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	paths := c.Paths
	if len(paths) == 0 {
		paths = source.CandidatePaths
	}

	text, path, err := source.FindTemplate(ctx, c.Source, paths)
	if errors.Is(err, source.ErrTemplateNotFound) {
		rec.Skip(template.CheckTemplate, "No repository PR template found so this check is not applicable")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load pull request template: %w", err)
	}
	logger.Debug("found pull request template", "path", path)

	v := template.Validate(in.PR.Body, text, template.Policy{
		StrictSections:        settings.StrictSections,
		OptionalSections:      settings.OptionalSections,
		MaxAdditionalSections: settings.MaxAdditionalSections,
	})
	logger.Debug("template section issues", "issues", v.Issues)
	logger.Debug("strict section issues", "issues", v.StrictIssues)

	for _, o := range v.Outcomes {
		rec.Record(Result{Name: o.Name, Passed: o.Passed, Message: o.Message})
	}
	return nil
}
