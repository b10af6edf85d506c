package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"prguard/internal/config"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	commits   []Commit
	files     []ChangedFile
	inherited Inherited
	contents  map[string]string
	reactions int
	counts    map[string]int
	created   time.Time

	compared int
	queries  []string
}

func (f *fakeRemote) Commits(context.Context, PullRequest) ([]Commit, error) { return f.commits, nil }

func (f *fakeRemote) Files(context.Context, PullRequest) ([]ChangedFile, error) { return f.files, nil }

func (f *fakeRemote) Compare(context.Context, PullRequest, string, string) (Inherited, error) {
	f.compared++
	return f.inherited, nil
}

func (f *fakeRemote) FileContent(_ context.Context, _ PullRequest, path, _ string) (string, error) {
	content, ok := f.contents[path]
	if !ok {
		return "", errors.New("404 Not Found")
	}
	return content, nil
}

func (f *fakeRemote) NegativeReactions(context.Context, PullRequest) (int, error) {
	return f.reactions, nil
}

func (f *fakeRemote) SearchCount(_ context.Context, query string) (int, error) {
	f.queries = append(f.queries, query)
	return f.counts[query], nil
}

func (f *fakeRemote) UserCreatedAt(context.Context, string) (time.Time, error) { return f.created, nil }

var featurePR = PullRequest{
	Owner: "acme", Repo: "widgets", Number: 7, Author: "octocat",
	BaseBranch: "release", DefaultBranch: "main", HeadSHA: "abc123",
}

func TestDescriptionCheck_EmojiAndBlockedIssues(t *testing.T) {
	cfg := config.Default()
	cfg.Description.MaxEmojiCount = 2
	cfg.Description.BlockedIssueNumbers = []int{1, 99}

	results := runCheck(t, DescriptionCheck{}, cfg, PullRequest{Title: "feat: 🚀 launch", Body: "Fixes #1 and #12 ✅ 🎉"})
	assert.Equal(t, []Result{
		{Name: "emoji-count", Passed: false, Message: "Found 3 emoji(s), exceeds maximum of 2"},
		{Name: "blocked-issue-numbers", Passed: false, Message: `Found 1 blocked issue number(s) in the description: "1"`},
	}, results)

	results = runCheck(t, DescriptionCheck{}, cfg, PullRequest{Title: "fix: typo", Body: "Fixes #12 © 2024"})
	assert.Equal(t, []Result{
		{Name: "emoji-count", Passed: true, Message: "Found 1 emoji(s), within maximum of 2"},
		{Name: "blocked-issue-numbers", Passed: true, Message: "No blocked issue numbers found in the description"},
	}, results)
}

func TestCountEmoji(t *testing.T) {
	assert.Equal(t, 0, CountEmoji("plain text, 123 #*"))
	assert.Equal(t, 2, CountEmoji("👍🏽 ❤️"))
	assert.Equal(t, 3, CountEmoji("👨‍👩‍👦"))
}

func TestQualityCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Quality.RequireMaintainerCanModify = true
	cfg.Quality.MaxNegativeReactions = 2

	c := &QualityCheck{Remote: &fakeRemote{reactions: 3}}
	results := runCheck(t, c, cfg, PullRequest{MaintainerCanModify: true})
	assert.Equal(t, []Result{
		{Name: "require-maintainer-can-modify", Passed: true, Message: "PR allows maintainers to push to the source (head) branch"},
		{Name: "max-negative-reactions", Passed: false, Message: "PR has 3 negative reaction(s), exceeds allowed maximum of 2"},
	}, results)

	rec := NewRecorder(discardLogger())
	err := (&QualityCheck{}).Run(context.Background(), Input{Config: cfg}, rec)
	assert.ErrorIs(t, err, ErrNoRemote)
}

func TestCommitCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Commits.MaxMessageLength = 30
	cfg.Commits.RequireConventional = true
	cfg.Commits.RequireAuthorMatch = true

	remote := &fakeRemote{
		commits: []Commit{
			{SHA: "1", Message: "feat: add login", Author: "OctoCat"},
			{SHA: "2", Message: "Merge branch 'main' into feature", Author: "octocat"},
			{SHA: "3", Message: "Add login form (#12)", Author: "octocat"},
			{SHA: "4", Message: "fix: handle a very long edge case in the form", Author: ""},
			{SHA: "5", Message: "wip", Author: "someone-else"},
		},
		inherited: Inherited{SHAs: map[string]bool{"5": true}},
	}
	c := &CommitCheck{Remote: remote, Logger: discardLogger()}

	results := runCheck(t, c, cfg, featurePR)
	assert.Equal(t, []Result{
		{Name: "max-commit-message-length", Passed: false, Message: "2 commit message(s) exceed the 30 character limit"},
		{Name: "conventional-commits", Passed: true, Message: "All commit messages follow conventional commits format"},
		{Name: "commit-author-match", Passed: false,
			Message: `Commit author(s) "unknown" (no GitHub account) do not match PR author "octocat"`},
	}, results)
	assert.Equal(t, 1, remote.compared)
}

func TestCommitCheck_SameBaseSkipsCompare(t *testing.T) {
	cfg := config.Default()
	cfg.Commits.RequireConventional = true

	remote := &fakeRemote{commits: []Commit{{SHA: "1", Message: "update stuff"}}}
	c := &CommitCheck{Remote: remote}

	pr := featurePR
	pr.BaseBranch = "main"
	results := runCheck(t, c, cfg, pr)
	assert.Equal(t, []Result{{Name: "conventional-commits", Passed: false,
		Message: "Not all commit messages follow conventional commits format"}}, results)
	assert.Zero(t, remote.compared)
}

func TestFileCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Files.AllowedExtensions = []string{"go", ".MD"}
	cfg.Files.AllowedPaths = []string{"internal/", "README.md", ".gitignore"}
	cfg.Files.BlockedPaths = []string{"internal/vendor/"}
	cfg.Files.RequireFinalNewline = true

	remote := &fakeRemote{
		files: []ChangedFile{
			{Name: "internal/app/main.go", Status: "modified"},
			{Name: "README.md", Status: "modified"},
			{Name: ".gitignore", Status: "added"},
			{Name: "internal/vendor/lib.js", Status: "added"},
			{Name: "docs/old.txt", Status: "removed"},
			{Name: "CHANGELOG.md", Status: "modified"},
		},
		inherited: Inherited{Files: map[string]bool{"CHANGELOG.md": true}},
		contents: map[string]string{
			"internal/app/main.go":   "package app\n",
			"README.md":              "# widgets",
			".gitignore":             "",
			"internal/vendor/lib.js": "x\n",
		},
	}
	c := &FileCheck{Remote: remote, Logger: discardLogger()}

	results := runCheck(t, c, cfg, featurePR)
	assert.Equal(t, []Result{
		{Name: "file-extensions", Passed: false,
			Message: `Found 2 file(s) with disallowed extensions: "internal/vendor/lib.js", "docs/old.txt"`},
		{Name: "allowed-paths", Passed: false, Message: `Found 1 file(s) outside allowed paths: "docs/old.txt"`},
		{Name: "blocked-paths", Passed: false, Message: `Found 1 file(s) in blocked paths: "internal/vendor/lib.js"`},
		{Name: "final-newline", Passed: false, Message: `Found 1 file(s) missing a final newline: "README.md"`},
	}, results)
}

func TestFileCheck_SharesInheritedLookup(t *testing.T) {
	cfg := config.Default()
	cfg.Commits.RequireConventional = true
	cfg.Files.BlockedPaths = []string{"go.sum"}

	remote := &fakeRemote{files: []ChangedFile{{Name: "go.sum"}}}
	reg := DefaultRegistry(discardLogger(), fakeSource{}, nil, remote)

	rec := NewRecorder(discardLogger())
	require.NoError(t, reg.Run(context.Background(), Input{Config: cfg, PR: featurePR}, rec))
	assert.Equal(t, 1, remote.compared)
	assert.Len(t, rec.Results(), 2)
}

func TestHasAllowedExtension(t *testing.T) {
	allowed := []string{"go", ".md"}
	assert.True(t, HasAllowedExtension("cmd/main.GO", allowed))
	assert.True(t, HasAllowedExtension("Makefile", allowed))
	assert.True(t, HasAllowedExtension("dir.d/.env", allowed))
	assert.False(t, HasAllowedExtension("web/app.ts", allowed))
}

func TestUserCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Users.MinRepoMergedPRs = 2
	cfg.Users.MinRepoMergeRatio = 50
	cfg.Users.MinGlobalMergeRatio = 80
	cfg.Users.GlobalMergeRatioExcludeOwn = true
	cfg.Users.MinAccountAge = 30

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	remote := &fakeRemote{
		counts: map[string]int{
			"is:pr is:merged author:octocat repo:acme/widgets":             3,
			"is:pr is:unmerged is:closed author:octocat repo:acme/widgets": 1,
			"is:pr is:merged author:octocat -user:octocat":                 2,
			"is:pr is:unmerged is:closed author:octocat -user:octocat":     1,
		},
		created: now.Add(-10*24*time.Hour - time.Hour),
	}
	c := &UserCheck{Remote: remote, Now: func() time.Time { return now }}

	results := runCheck(t, c, cfg, featurePR)
	assert.Equal(t, []Result{
		{Name: "min-merged-prs", Passed: true, Message: "User has 3 merged PR(s), meets minimum of 2"},
		{Name: "repo-merge-ratio", Passed: true, Message: "Repo merge ratio is 75% (3/4), meets minimum of 50%"},
		{Name: "global-merge-ratio", Passed: false,
			Message: "Global merge ratio (excluding own repos) is 67% (2/3), below minimum of 80%"},
		{Name: "account-age", Passed: false, Message: "Account is 10 day(s) old, below minimum of 30 days"},
	}, results)
}

func TestUserCheck_ContributorAndNoHistory(t *testing.T) {
	cfg := config.Default()
	cfg.Users.MinRepoMergedPRs = 1
	cfg.Users.MinRepoMergeRatio = 50

	var buf bytes.Buffer
	rec := NewRecorder(slog.New(slog.NewTextHandler(&buf, nil)))
	pr := featurePR
	pr.AuthorAssociation = "CONTRIBUTOR"

	require.NoError(t, (&UserCheck{Remote: &fakeRemote{}}).Run(context.Background(), Input{Config: cfg, PR: pr}, rec))
	assert.Equal(t, []Result{{Name: "min-merged-prs", Passed: true,
		Message: `User has author association "CONTRIBUTOR", meets minimum of 1 merged PR(s)`}}, rec.Results())
	assert.Contains(t, buf.String(), "[SKIP] repo-merge-ratio")
}

func newTestRemote(t *testing.T, mux *http.ServeMux) *GitHubRemote {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return NewGitHubRemote(client)
}

func TestGitHubRemote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/7/commits", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"sha":"b","commit":{"message":"fix: b"}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
		fmt.Fprint(w, `[{"sha":"a","commit":{"message":"feat: a"},"author":{"login":"octocat"}}]`)
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"filename":"main.go","status":"modified","patch":"@@ -1 +1 @@"}]`)
	})
	mux.HandleFunc("/repos/acme/widgets/compare/release...main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"commits":[{"sha":"c"}],"files":[{"filename":"CHANGELOG.md"}]}`)
	})
	mux.HandleFunc("/repos/acme/widgets/issues/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number":7,"reactions":{"+1":4,"-1":2,"confused":1}}`)
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "is:pr is:merged author:octocat", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"total_count":5,"items":[]}`)
	})
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"octocat","created_at":"2011-01-25T18:44:36Z"}`)
	})

	g := newTestRemote(t, mux)
	ctx := context.Background()

	commits, err := g.Commits(ctx, featurePR)
	require.NoError(t, err)
	assert.Equal(t, []Commit{
		{SHA: "a", Message: "feat: a", Author: "octocat"},
		{SHA: "b", Message: "fix: b"},
	}, commits)

	files, err := g.Files(ctx, featurePR)
	require.NoError(t, err)
	assert.Equal(t, []ChangedFile{{Name: "main.go", Status: "modified", Patch: "@@ -1 +1 @@"}}, files)

	inherited, err := g.Compare(ctx, featurePR, "release", "main")
	require.NoError(t, err)
	assert.True(t, inherited.SHAs["c"])
	assert.True(t, inherited.Files["CHANGELOG.md"])

	n, err := g.NegativeReactions(ctx, featurePR)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	total, err := g.SearchCount(ctx, "is:pr is:merged author:octocat")
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	created, err := g.UserCreatedAt(ctx, "octocat")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC), created.UTC())
}
