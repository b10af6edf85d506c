package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AuthorAssociations are the values GitHub reports for a pull request author.
var AuthorAssociations = []string{
	"COLLABORATOR",
	"CONTRIBUTOR",
	"FIRST_TIMER",
	"FIRST_TIME_CONTRIBUTOR",
	"MANNEQUIN",
	"MEMBER",
	"NONE",
	"OWNER",
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	associations := make([]interface{}, len(AuthorAssociations))
	for i, a := range AuthorAssociations {
		associations[i] = a
	}

	return validation.Errors{
		"max_failures": validation.Validate(c.MaxFailures,
			validation.Required, validation.Min(1), validation.Max(30)),
		"description.max_length": validation.Validate(c.Description.MaxLength,
			validation.Min(0), validation.Max(100000)),
		"template.max_additional_sections": validation.Validate(c.Template.MaxAdditionalSections,
			validation.Min(0), validation.Max(50)),
		"description.max_emoji_count": validation.Validate(c.Description.MaxEmojiCount,
			validation.Min(0), validation.Max(50)),
		"description.blocked_issue_numbers": validation.Validate(c.Description.BlockedIssueNumbers,
			validation.Each(validation.Min(1))),
		"quality.max_negative_reactions": validation.Validate(c.Quality.MaxNegativeReactions,
			validation.Min(0)),
		"commits.max_message_length": validation.Validate(c.Commits.MaxMessageLength,
			validation.Min(0)),
		"users.min_account_age": validation.Validate(c.Users.MinAccountAge,
			validation.Min(0), validation.Max(90)),
		"users.min_repo_merged_prs": validation.Validate(c.Users.MinRepoMergedPRs,
			validation.Min(0), validation.Max(20)),
		"users.min_repo_merge_ratio": validation.Validate(c.Users.MinRepoMergeRatio,
			validation.Min(0), validation.Max(100)),
		"users.min_global_merge_ratio": validation.Validate(c.Users.MinGlobalMergeRatio,
			validation.Min(0), validation.Max(100)),
		"exemptions.author_associations": validation.Validate(c.Exemptions.AuthorAssociations,
			validation.Each(validation.In(associations...))),
	}.Filter()
}
