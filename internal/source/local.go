package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"prguard/internal/git"
)

// Dir reads templates from a directory on disk.
type Dir struct {
	Root string
}

func (d Dir) Fetch(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrTemplateNotFound)
		}
		return "", err
	}
	return string(data), nil
}

// Git reads templates from a committed revision of a local repository.
type Git struct {
	Repo *git.Repo
	Ref  string
}

func (g Git) Fetch(ctx context.Context, path string) (string, error) {
	ref := g.Ref
	if ref == "" {
		ref = "HEAD"
	}
	text, err := g.Repo.ShowFile(ctx, ref, path)
	if err != nil {
		if errors.Is(err, git.ErrPathNotFound) {
			return "", fmt.Errorf("%s: %w", path, ErrTemplateNotFound)
		}
		return "", err
	}
	return text, nil
}
