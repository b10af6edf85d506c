package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPathNotFound reports that a path does not exist at the requested revision.
var ErrPathNotFound = errors.New("path not found at revision")

// Runner executes git with the given arguments inside dir.
// A non-zero exit is returned as an *ExitError carrying stderr.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExitError is a git invocation that ran and exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("git %s exited %d: %s", strings.Join(e.Args, " "), e.Code, strings.TrimSpace(e.Stderr))
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &ExitError{Args: args, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return out, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Repo is a local git working tree.
type Repo struct {
	Dir    string
	runner Runner
}

// Open returns a Repo rooted at dir that shells out to the git binary.
func Open(dir string) *Repo {
	return &Repo{Dir: dir, runner: execRunner{}}
}

// OpenWithRunner is Open with a custom runner, for tests.
func OpenWithRunner(dir string, runner Runner) *Repo {
	return &Repo{Dir: dir, runner: runner}
}

// ShowFile returns the contents of path at ref (e.g. "HEAD").
func (r *Repo) ShowFile(ctx context.Context, ref, path string) (string, error) {
	out, err := r.runner.Run(ctx, r.Dir, "show", ref+":"+path)
	if err != nil {
		if isMissingPath(err) {
			return "", fmt.Errorf("%s:%s: %w", ref, path, ErrPathNotFound)
		}
		return "", err
	}
	return string(out), nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, r.Dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func isMissingPath(err error) bool {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// git show prints one of these when the object path is absent from the tree.
	return strings.Contains(exitErr.Stderr, "does not exist in") ||
		strings.Contains(exitErr.Stderr, "exists on disk, but not in")
}
