package check

import (
	"context"
	"time"

	"github.com/google/go-github/v66/github"
)

const perPage = 100

// GitHubRemote reads pull request data through the GitHub REST API.
type GitHubRemote struct {
	Client *github.Client
}

var _ Remote = (*GitHubRemote)(nil)

func NewGitHubRemote(client *github.Client) *GitHubRemote {
	return &GitHubRemote{Client: client}
}

func (g *GitHubRemote) Commits(ctx context.Context, pr PullRequest) ([]Commit, error) {
	var commits []Commit
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := g.Client.PullRequests.ListCommits(ctx, pr.Owner, pr.Repo, pr.Number, opts)
		if err != nil {
			return nil, err
		}
		for _, c := range page {
			commits = append(commits, Commit{
				SHA:     c.GetSHA(),
				Message: c.GetCommit().GetMessage(),
				Author:  c.GetAuthor().GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			return commits, nil
		}
		opts.Page = resp.NextPage
	}
}

func (g *GitHubRemote) Files(ctx context.Context, pr PullRequest) ([]ChangedFile, error) {
	var files []ChangedFile
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := g.Client.PullRequests.ListFiles(ctx, pr.Owner, pr.Repo, pr.Number, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range page {
			files = append(files, ChangedFile{Name: f.GetFilename(), Status: f.GetStatus(), Patch: f.GetPatch()})
		}
		if resp.NextPage == 0 {
			return files, nil
		}
		opts.Page = resp.NextPage
	}
}

func (g *GitHubRemote) Compare(ctx context.Context, pr PullRequest, base, head string) (Inherited, error) {
	cmp, _, err := g.Client.Repositories.CompareCommits(ctx, pr.Owner, pr.Repo, base, head, nil)
	if err != nil {
		return Inherited{}, err
	}
	in := Inherited{SHAs: make(map[string]bool), Files: make(map[string]bool)}
	for _, c := range cmp.Commits {
		in.SHAs[c.GetSHA()] = true
	}
	for _, f := range cmp.Files {
		in.Files[f.GetFilename()] = true
	}
	return in, nil
}

func (g *GitHubRemote) FileContent(ctx context.Context, pr PullRequest, path, ref string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := g.Client.Repositories.GetContents(ctx, pr.Owner, pr.Repo, path, opts)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", nil
	}
	return file.GetContent()
}

func (g *GitHubRemote) NegativeReactions(ctx context.Context, pr PullRequest) (int, error) {
	issue, _, err := g.Client.Issues.Get(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return 0, err
	}
	r := issue.GetReactions()
	return r.GetMinusOne() + r.GetConfused(), nil
}

func (g *GitHubRemote) SearchCount(ctx context.Context, query string) (int, error) {
	res, _, err := g.Client.Search.Issues(ctx, query, &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}})
	if err != nil {
		return 0, err
	}
	return res.GetTotal(), nil
}

func (g *GitHubRemote) UserCreatedAt(ctx context.Context, login string) (time.Time, error) {
	user, _, err := g.Client.Users.Get(ctx, login)
	if err != nil {
		return time.Time{}, err
	}
	return user.GetCreatedAt().Time, nil
}
