// Package source locates the repository's pull request template.
package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrTemplateNotFound means no candidate path held a template. Callers treat it as
// "check not applicable", never as a failure.
var ErrTemplateNotFound = errors.New("pull request template not found")

// CandidatePaths are the locations GitHub reads a default pull request template from,
// in lookup order.
var CandidatePaths = []string{
	".github/pull_request_template.md",
	"docs/pull_request_template.md",
	"pull_request_template.md",
	".github/PULL_REQUEST_TEMPLATE/pull_request_template.md",
	"docs/PULL_REQUEST_TEMPLATE/pull_request_template.md",
	"PULL_REQUEST_TEMPLATE/pull_request_template.md",
}

// Source reads a single repository-relative file.
// Fetch returns an error wrapping ErrTemplateNotFound when the file does not exist.
type Source interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// FindTemplate tries paths in order and returns the first file found along with its path.
// Not-found results move on to the next path; any other error is returned immediately.
func FindTemplate(ctx context.Context, src Source, paths []string) (string, string, error) {
	for _, path := range paths {
		text, err := src.Fetch(ctx, path)
		if err == nil {
			return text, path, nil
		}
		if errors.Is(err, ErrTemplateNotFound) {
			continue
		}
		return "", "", fmt.Errorf("fetch %s: %w", path, err)
	}
	return "", "", ErrTemplateNotFound
}
