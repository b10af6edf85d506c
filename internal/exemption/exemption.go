// Package exemption decides whether a pull request skips every check.
package exemption

import (
	"fmt"
	"strings"

	"prguard/internal/check"
	"prguard/internal/config"
)

// Check returns a non-empty reason when pr is exempt from checks under cfg.
func Check(cfg *config.Config, pr check.PullRequest) string {
	e := cfg.Exemptions

	switch {
	case e.DraftPRs && pr.Draft:
		return "PR is a draft"
	case containsFold(e.Users, pr.Author):
		return fmt.Sprintf("author %q is an exempt user", pr.Author)
	case containsFold(e.Bots, pr.Author):
		return fmt.Sprintf("author %q is an exempt bot", pr.Author)
	case pr.AuthorAssociation != "" && containsFold(e.AuthorAssociations, pr.AuthorAssociation):
		return fmt.Sprintf("author association %s is exempt", pr.AuthorAssociation)
	case e.Label != "" && containsFold(pr.Labels, e.Label):
		return fmt.Sprintf("PR has exempt label %q", e.Label)
	case pr.Milestone != "" && e.AllMilestones:
		return fmt.Sprintf("PR has milestone %q", pr.Milestone)
	case pr.Milestone != "" && containsFold(e.Milestones, pr.Milestone):
		return fmt.Sprintf("PR has exempt milestone %q", pr.Milestone)
	}
	return ""
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
