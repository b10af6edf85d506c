package check

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-github/v66/github"
)

// PullRequest is the subset of a pull request the checks look at.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int

	Title string
	Body  string

	BaseBranch    string
	HeadBranch    string
	HeadSHA       string
	DefaultBranch string

	Author            string
	AuthorAssociation string

	Labels    []string
	Milestone string // empty when none
	Draft     bool

	MaintainerCanModify bool
}

// FullName returns "owner/repo".
func (pr PullRequest) FullName() string {
	return pr.Owner + "/" + pr.Repo
}

// LoadEvent reads a GitHub pull_request webhook payload, as found at GITHUB_EVENT_PATH.
func LoadEvent(path string) (PullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PullRequest{}, err
	}

	var event github.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return PullRequest{}, fmt.Errorf("parse event %s: %w", path, err)
	}
	if event.PullRequest == nil {
		return PullRequest{}, fmt.Errorf("event %s has no pull_request payload", path)
	}
	return FromGitHub(event.GetRepo(), event.GetPullRequest()), nil
}

// FromGitHub converts API types into a PullRequest.
func FromGitHub(repo *github.Repository, pr *github.PullRequest) PullRequest {
	out := PullRequest{
		Owner:             repo.GetOwner().GetLogin(),
		Repo:              repo.GetName(),
		DefaultBranch:     repo.GetDefaultBranch(),
		Number:            pr.GetNumber(),
		Title:             pr.GetTitle(),
		Body:              pr.GetBody(),
		BaseBranch:        pr.GetBase().GetRef(),
		HeadBranch:        pr.GetHead().GetRef(),
		HeadSHA:           pr.GetHead().GetSHA(),
		Author:            pr.GetUser().GetLogin(),
		AuthorAssociation: pr.GetAuthorAssociation(),
		Milestone:         pr.GetMilestone().GetTitle(),
		Draft:             pr.GetDraft(),

		MaintainerCanModify: pr.GetMaintainerCanModify(),
	}
	for _, l := range pr.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	return out
}
