package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the settings file is looked up when no path is given.
const DefaultPath = ".github/prguard.yaml"

type Config struct {
	GitHubToken string `yaml:"github_token"`
	MaxFailures int    `yaml:"max_failures"` // failed checks needed to fail the run

	Branches struct {
		AllowedTarget []string `yaml:"allowed_target"`
		BlockedTarget []string `yaml:"blocked_target"`
		AllowedSource []string `yaml:"allowed_source"`
		BlockedSource []string `yaml:"blocked_source"`
	} `yaml:"branches"`

	Quality struct {
		RequireMaintainerCanModify bool `yaml:"require_maintainer_can_modify"`
		MaxNegativeReactions       int  `yaml:"max_negative_reactions"`
	} `yaml:"quality"`

	Title struct {
		RequireConventional bool `yaml:"require_conventional"`
	} `yaml:"title"`

	Description struct {
		Required           bool     `yaml:"required"`
		MaxLength           int      `yaml:"max_length"`
		MaxEmojiCount       int      `yaml:"max_emoji_count"` // counted over title and body
		BlockedTerms        []string `yaml:"blocked_terms"`
		RequireLinkedIssue  bool     `yaml:"require_linked_issue"`
		BlockedIssueNumbers []int    `yaml:"blocked_issue_numbers"`
	} `yaml:"description"`

	Template struct {
		Required              bool     `yaml:"required"`
		StrictSections        []string `yaml:"strict_sections"`
		OptionalSections      []string `yaml:"optional_sections"`
		MaxAdditionalSections int      `yaml:"max_additional_sections"`
		Paths                 []string `yaml:"paths"` // overrides the well-known template locations
	} `yaml:"template"`

	Commits struct {
		MaxMessageLength    int  `yaml:"max_message_length"`
		RequireConventional bool `yaml:"require_conventional"`
		RequireAuthorMatch  bool `yaml:"require_author_match"`
	} `yaml:"commits"`

	Files struct {
		AllowedExtensions   []string `yaml:"allowed_extensions"`
		AllowedPaths        []string `yaml:"allowed_paths"` // a trailing "/" matches a directory prefix
		BlockedPaths        []string `yaml:"blocked_paths"`
		RequireFinalNewline bool     `yaml:"require_final_newline"`
	} `yaml:"files"`

	Users struct {
		MinAccountAge              int  `yaml:"min_account_age"` // days
		MinRepoMergedPRs           int  `yaml:"min_repo_merged_prs"`
		MinRepoMergeRatio          int  `yaml:"min_repo_merge_ratio"`   // percent
		MinGlobalMergeRatio        int  `yaml:"min_global_merge_ratio"` // percent
		GlobalMergeRatioExcludeOwn bool `yaml:"global_merge_ratio_exclude_own"`
	} `yaml:"users"`

	Exemptions struct {
		DraftPRs           bool     `yaml:"draft_prs"`
		Bots               []string `yaml:"bots"`
		Users              []string `yaml:"users"`
		AuthorAssociations []string `yaml:"author_associations"`
		Label              string   `yaml:"label"`
		AllMilestones      bool     `yaml:"all_milestones"`
		Milestones         []string `yaml:"milestones"`
	} `yaml:"exemptions"`

	Actions struct {
		Success struct {
			AddLabels []string `yaml:"add_labels"`
		} `yaml:"success"`
		Failure struct {
			RemoveLabels    []string `yaml:"remove_labels"`
			RemoveAllLabels bool     `yaml:"remove_all_labels"`
			AddLabels       []string `yaml:"add_labels"`
			Comment         string   `yaml:"comment"`
			Close           bool     `yaml:"close"`
			Lock            bool     `yaml:"lock"`
			DeleteBranch    bool     `yaml:"delete_branch"`
		} `yaml:"failure"`
	} `yaml:"actions"`
}

// Default returns a Config with every check disabled and a failure threshold of one.
func Default() *Config {
	return &Config{MaxFailures: 1}
}

// LoadConfig reads the YAML settings at path, applies environment overrides and validates
// the result. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if token := os.Getenv("PRGUARD_GITHUB_TOKEN"); token != "" {
		cfg.GitHubToken = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" && cfg.GitHubToken == "" {
		cfg.GitHubToken = token
	}
	if raw := os.Getenv("PRGUARD_MAX_FAILURES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("PRGUARD_MAX_FAILURES: %q is not a number", raw)
		}
		cfg.MaxFailures = n
	}
	return nil
}

func (c *Config) normalize() {
	lists := []*[]string{
		&c.Branches.AllowedTarget, &c.Branches.BlockedTarget,
		&c.Branches.AllowedSource, &c.Branches.BlockedSource,
		&c.Description.BlockedTerms,
		&c.Template.StrictSections, &c.Template.OptionalSections, &c.Template.Paths,
		&c.Files.AllowedExtensions, &c.Files.AllowedPaths, &c.Files.BlockedPaths,
		&c.Exemptions.Bots, &c.Exemptions.Users, &c.Exemptions.AuthorAssociations, &c.Exemptions.Milestones,
		&c.Actions.Success.AddLabels, &c.Actions.Failure.RemoveLabels, &c.Actions.Failure.AddLabels,
	}
	for _, l := range lists {
		*l = Compact(*l)
	}
	c.Exemptions.Label = strings.TrimSpace(c.Exemptions.Label)
}

// Compact trims each value and drops the empty ones.
func Compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
