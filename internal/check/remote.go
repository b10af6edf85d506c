package check

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoRemote is returned by checks that need the GitHub API when none is configured.
var ErrNoRemote = errors.New("GitHub API access is required (set a token and repository)")

// Commit is one commit of a pull request.
type Commit struct {
	SHA     string
	Message string
	Author  string // GitHub login, empty when the author has no account
}

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Name   string
	Status string // added, modified, removed, renamed ...
	Patch  string
}

// Inherited holds the commits and files a pull request picks up from the default branch
// that its target branch has not caught up with.
type Inherited struct {
	SHAs  map[string]bool
	Files map[string]bool
}

// Remote is the GitHub data read by the commit, file, user and quality checks.
type Remote interface {
	Commits(ctx context.Context, pr PullRequest) ([]Commit, error)
	Files(ctx context.Context, pr PullRequest) ([]ChangedFile, error)
	// Compare returns what head has that base does not.
	Compare(ctx context.Context, pr PullRequest, base, head string) (Inherited, error)
	FileContent(ctx context.Context, pr PullRequest, path, ref string) (string, error)
	NegativeReactions(ctx context.Context, pr PullRequest) (int, error)
	SearchCount(ctx context.Context, query string) (int, error)
	UserCreatedAt(ctx context.Context, login string) (time.Time, error)
}

// inheritedLoader fetches the inherited set once per run and shares it between checks.
type inheritedLoader struct {
	remote Remote

	once sync.Once
	data Inherited
	err  error
}

func (l *inheritedLoader) load(ctx context.Context, pr PullRequest) (Inherited, error) {
	l.once.Do(func() {
		if pr.BaseBranch == "" || pr.DefaultBranch == "" || pr.BaseBranch == pr.DefaultBranch {
			return
		}
		l.data, l.err = l.remote.Compare(ctx, pr, pr.BaseBranch, pr.DefaultBranch)
	})
	return l.data, l.err
}
