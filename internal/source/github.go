package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
)

// GitHub reads templates through the repository contents API.
type GitHub struct {
	Client *github.Client
	Owner  string
	Repo   string
	Ref    string // empty means the default branch
}

// NewGitHub builds a GitHub source authenticated with token (anonymous when empty).
func NewGitHub(token, owner, repo, ref string) *GitHub {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHub{Client: client, Owner: owner, Repo: repo, Ref: ref}
}

func (g *GitHub) Fetch(ctx context.Context, path string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: g.Ref}
	file, _, resp, err := g.Client.Repositories.GetContents(ctx, g.Owner, g.Repo, path, opts)
	if err != nil {
		// A 403 means the token cannot see the file; treat it like a 404.
		if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden) {
			return "", fmt.Errorf("%s: %w", path, ErrTemplateNotFound)
		}
		return "", err
	}
	if file == nil {
		// The path is a directory.
		return "", fmt.Errorf("%s: %w", path, ErrTemplateNotFound)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return content, nil
}
