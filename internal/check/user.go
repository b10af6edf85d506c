package check

import (
	"context"
	"fmt"
	"math"
	"time"
)

// UserCheck covers the PR author's account age and merge history.
type UserCheck struct {
	Remote Remote
	Now    func() time.Time // defaults to time.Now
}

func (c *UserCheck) Name() string { return "user" }

func (c *UserCheck) Run(ctx context.Context, in Input, rec *Recorder) error {
	u := in.Config.Users
	if u.MinRepoMergedPRs == 0 && u.MinRepoMergeRatio == 0 && u.MinGlobalMergeRatio == 0 && u.MinAccountAge == 0 {
		return nil
	}
	if c.Remote == nil {
		return ErrNoRemote
	}

	login := in.PR.Author
	repo := "repo:" + in.PR.FullName()
	global := ""
	if u.GlobalMergeRatioExcludeOwn {
		global = "-user:" + login
	}
	count := func(query string) (int, error) {
		n, err := c.Remote.SearchCount(ctx, query)
		if err != nil {
			return 0, fmt.Errorf("search %q: %w", query, err)
		}
		return n, nil
	}

	var repoMerged, repoClosed int
	var err error
	if u.MinRepoMergedPRs > 1 || u.MinRepoMergeRatio > 0 {
		if repoMerged, err = count(searchQuery("is:pr is:merged", login, repo)); err != nil {
			return err
		}
	}
	if u.MinRepoMergeRatio > 0 {
		if repoClosed, err = count(searchQuery("is:pr is:unmerged is:closed", login, repo)); err != nil {
			return err
		}
	}

	switch {
	case u.MinRepoMergedPRs == 1:
		// CONTRIBUTOR means at least one merged PR.
		passed := in.PR.AuthorAssociation == "CONTRIBUTOR"
		verb := "meets"
		if !passed {
			verb = "below"
		}
		rec.Record(Result{Name: "min-merged-prs", Passed: passed, Message: fmt.Sprintf(
			"User has author association %q, %s minimum of %d merged PR(s)", in.PR.AuthorAssociation, verb, u.MinRepoMergedPRs)})
	case u.MinRepoMergedPRs > 1:
		passed := repoMerged >= u.MinRepoMergedPRs
		verb := "meets"
		if !passed {
			verb = "below"
		}
		rec.Record(Result{Name: "min-merged-prs", Passed: passed, Message: fmt.Sprintf(
			"User has %d merged PR(s), %s minimum of %d", repoMerged, verb, u.MinRepoMergedPRs)})
	}

	if u.MinRepoMergeRatio > 0 {
		recordRatio(rec, "repo-merge-ratio", "Repo merge ratio", "in this repository",
			repoMerged, repoClosed, u.MinRepoMergeRatio)
	}

	if u.MinGlobalMergeRatio > 0 {
		merged, err := count(searchQuery("is:pr is:merged", login, global))
		if err != nil {
			return err
		}
		closed, err := count(searchQuery("is:pr is:unmerged is:closed", login, global))
		if err != nil {
			return err
		}
		scope := ""
		if u.GlobalMergeRatioExcludeOwn {
			scope = " (excluding own repos)"
		}
		recordRatio(rec, "global-merge-ratio", "Global merge ratio"+scope, "across GitHub"+scope,
			merged, closed, u.MinGlobalMergeRatio)
	}

	if u.MinAccountAge > 0 {
		created, err := c.Remote.UserCreatedAt(ctx, login)
		if err != nil {
			return fmt.Errorf("get user %s: %w", login, err)
		}
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		days := int(now().Sub(created) / (24 * time.Hour))
		passed := days >= u.MinAccountAge
		verb := "meets"
		if !passed {
			verb = "below"
		}
		rec.Record(Result{Name: "account-age", Passed: passed, Message: fmt.Sprintf(
			"Account is %d day(s) old, %s minimum of %d days", days, verb, u.MinAccountAge)})
	}
	return nil
}

func searchQuery(filter, login, scope string) string {
	q := filter + " author:" + login
	if scope != "" {
		q += " " + scope
	}
	return q
}

// recordRatio records merged/(merged+closed) against minPercent, or skips when the author
// has no merged or closed PRs in scope.
func recordRatio(rec *Recorder, name, label, where string, merged, closed, minPercent int) {
	total := merged + closed
	if total == 0 {
		rec.Skip(name, "No merged or closed PRs "+where+" so this check is not applicable")
		return
	}
	ratio := float64(merged) / float64(total)
	passed := ratio >= float64(minPercent)/100
	verb := "meets"
	if !passed {
		verb = "below"
	}
	rec.Record(Result{Name: name, Passed: passed, Message: fmt.Sprintf(
		"%s is %d%% (%d/%d), %s minimum of %d%%", label, int(math.Round(ratio*100)), merged, total, verb, minPercent)})
}
