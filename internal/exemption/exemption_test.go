package exemption

import (
	"testing"

	"prguard/internal/check"
	"prguard/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Exemptions.DraftPRs = true
	cfg.Exemptions.Users = []string{"Alice"}
	cfg.Exemptions.Bots = []string{"dependabot[bot]"}
	cfg.Exemptions.AuthorAssociations = []string{"OWNER"}
	cfg.Exemptions.Label = "skip-checks"
	cfg.Exemptions.Milestones = []string{"Backlog"}

	tests := []struct {
		name string
		pr   check.PullRequest
		want string
	}{
		{"draft", check.PullRequest{Draft: true}, "PR is a draft"},
		{"user", check.PullRequest{Author: "alice"}, `author "alice" is an exempt user`},
		{"bot", check.PullRequest{Author: "dependabot[bot]"}, `author "dependabot[bot]" is an exempt bot`},
		{"association", check.PullRequest{Author: "bob", AuthorAssociation: "OWNER"}, "author association OWNER is exempt"},
		{"label", check.PullRequest{Labels: []string{"docs", "Skip-Checks"}}, `PR has exempt label "skip-checks"`},
		{"milestone", check.PullRequest{Milestone: "backlog"}, `PR has exempt milestone "backlog"`},
		{"none", check.PullRequest{Author: "bob", AuthorAssociation: "CONTRIBUTOR", Milestone: "v2"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(cfg, tt.pr))
		})
	}

	cfg.Exemptions.AllMilestones = true
	assert.Equal(t, `PR has milestone "v2"`, Check(cfg, check.PullRequest{Milestone: "v2"}))
}
