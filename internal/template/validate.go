package template

import (
	"fmt"
	"strings"
	"unicode"
)

// Result names reported by Validate.
const (
	CheckTemplate           = "pr-template"
	CheckStrictSections     = "strict-pr-template-sections"
	CheckAdditionalSections = "max-additional-pr-template-sections"
)

// IdenticalIssue is the single issue reported for a body that is the unedited template.
const IdenticalIssue = "PR description is identical to the template (not filled in)"

// Outcome is one named pass/fail result of a template validation.
type Outcome struct {
	Name    string
	Passed  bool
	Message string
}

// Verdict is the full result of validating a body against a template.
type Verdict struct {
	Identical bool

	Passed bool
	Issues []string

	StrictPassed bool
	StrictIssues []string

	AdditionalPassed bool
	AdditionalCount  int

	// Outcomes holds one entry per applicable rule, in rule order.
	Outcomes []Outcome
}

type evaluation struct {
	policy           Policy
	templateSections []Section
	bodySections     []Section
	comparison       Comparison
}

type rule struct {
	applies func(Policy) bool
	report  func(e *evaluation, v *Verdict) Outcome
}

var rules = []rule{
	{
		applies: func(Policy) bool { return true },
		report:  reportStructure,
	},
	{
		applies: func(p Policy) bool { return len(p.StrictSections) > 0 },
		report:  reportStrict,
	},
	{
		applies: func(p Policy) bool { return p.MaxAdditionalSections > 0 },
		report:  reportAdditional,
	},
}

// Validate compares body against templateText under policy.
// A body equal to the template after trimming short-circuits to a single failure.
func Validate(body, templateText string, policy Policy) Verdict {
	if trimText(body) == trimText(templateText) {
		return Verdict{
			Identical:        true,
			Issues:           []string{IdenticalIssue},
			StrictPassed:     true,
			AdditionalPassed: true,
			Outcomes:         []Outcome{{Name: CheckTemplate, Passed: false, Message: IdenticalIssue}},
		}
	}

	e := &evaluation{
		policy:           policy,
		templateSections: ParseSections(templateText),
		bodySections:     ParseSections(body),
	}
	e.comparison = CompareSections(e.templateSections, e.bodySections, policy.StrictSections, policy.OptionalSections)

	v := Verdict{
		Issues:           e.comparison.TemplateIssues,
		StrictIssues:     e.comparison.StrictIssues,
		StrictPassed:     true,
		AdditionalPassed: true,
	}
	for _, r := range rules {
		if r.applies(policy) {
			v.Outcomes = append(v.Outcomes, r.report(e, &v))
		}
	}
	return v
}

// trimText strips surrounding whitespace and byte-order marks.
func trimText(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func reportStructure(e *evaluation, v *Verdict) Outcome {
	v.Passed = len(e.comparison.TemplateIssues) == 0
	msg := "PR description follows the PR template structure"
	if !v.Passed {
		msg = strings.Join(e.comparison.TemplateIssues, "; ")
	}
	return Outcome{Name: CheckTemplate, Passed: v.Passed, Message: msg}
}

func reportStrict(e *evaluation, v *Verdict) Outcome {
	v.StrictPassed = len(e.comparison.StrictIssues) == 0
	msg := "All strict PR template sections are valid"
	if !v.StrictPassed {
		msg = strings.Join(e.comparison.StrictIssues, "; ")
	}
	return Outcome{Name: CheckStrictSections, Passed: v.StrictPassed, Message: msg}
}

func reportAdditional(e *evaluation, v *Verdict) Outcome {
	limit := e.policy.MaxAdditionalSections
	v.AdditionalCount = CountAdditionalSections(e.templateSections, e.bodySections)
	v.AdditionalPassed = v.AdditionalCount <= limit

	verb := "within"
	if !v.AdditionalPassed {
		verb = "exceeds"
	}
	return Outcome{
		Name:    CheckAdditionalSections,
		Passed:  v.AdditionalPassed,
		Message: fmt.Sprintf("PR has %d additional section(s), %s maximum of %d", v.AdditionalCount, verb, limit),
	}
}
