package check

import (
	"context"
	"fmt"
	"regexp"
)

// type: description, type(scope): description, type(scope)!: description
var conventionalPattern = regexp.MustCompile(`^(\w+)(?:\([^)]+\))?!?:\s.+`)

type TitleCheck struct{}

func (TitleCheck) Name() string { return "title" }

func (TitleCheck) Run(_ context.Context, in Input, rec *Recorder) error {
	if !in.Config.Title.RequireConventional {
		return nil
	}

	title := in.PR.Title
	if conventionalPattern.MatchString(title) {
		rec.Record(Result{Name: "conventional-title", Passed: true,
			Message: fmt.Sprintf("PR title %q follows conventional commits format", title)})
	} else {
		rec.Record(Result{Name: "conventional-title", Passed: false,
			Message: fmt.Sprintf("PR title %q does not follow conventional commits format", title)})
	}
	return nil
}
