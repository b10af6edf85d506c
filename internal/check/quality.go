package check

import (
	"context"
	"fmt"
)

// QualityCheck covers maintainer edit access and negative reactions on the PR.
type QualityCheck struct {
	Remote Remote
}

func (c *QualityCheck) Name() string { return "quality" }

func (c *QualityCheck) Run(ctx context.Context, in Input, rec *Recorder) error {
	q := in.Config.Quality

	if q.RequireMaintainerCanModify {
		if in.PR.MaintainerCanModify {
			rec.Record(Result{Name: "require-maintainer-can-modify", Passed: true,
				Message: "PR allows maintainers to push to the source (head) branch"})
		} else {
			rec.Record(Result{Name: "require-maintainer-can-modify", Passed: false,
				Message: "PR does not allow maintainers to push to the source (head) branch"})
		}
	}

	if q.MaxNegativeReactions > 0 {
		if c.Remote == nil {
			return ErrNoRemote
		}
		n, err := c.Remote.NegativeReactions(ctx, in.PR)
		if err != nil {
			return fmt.Errorf("get reactions: %w", err)
		}
		verb := "within"
		if n > q.MaxNegativeReactions {
			verb = "exceeds"
		}
		rec.Record(Result{
			Name:    "max-negative-reactions",
			Passed:  n <= q.MaxNegativeReactions,
			Message: fmt.Sprintf("PR has %d negative reaction(s), %s allowed maximum of %d", n, verb, q.MaxNegativeReactions),
		})
	}
	return nil
}
