package template

import (
	"fmt"
	"strings"
)

// CompareSections checks body sections against template sections.
//
// Template sections are visited in template order. Optional sections are skipped before
// strict names are consulted, so a name listed in both behaves as optional. A template
// section is matched to the first body section with the same full heading line, ignoring case.
// Missing sections are reported as one combined issue placed ahead of per-section issues.
func CompareSections(templateSections, bodySections []Section, strictNames, optionalNames []string) Comparison {
	var (
		templateIssues []string
		strictIssues   []string
		missing        []string
	)

	for _, ts := range templateSections {
		if containsFold(optionalNames, ts.HeadingText) {
			continue
		}
		strict := containsFold(strictNames, ts.HeadingText)

		bs, ok := findSection(bodySections, ts.Heading)
		if !ok {
			missing = append(missing, ts.HeadingText)
			if strict {
				strictIssues = append(strictIssues,
					fmt.Sprintf(`Strict section "%s" is missing from the PR description`, ts.HeadingText))
			}
			continue
		}

		templateBoxes := ExtractCheckboxes(ts.Content)
		bodyBoxes := ExtractCheckboxes(bs.Content)

		if strict {
			strictIssues = append(strictIssues, compareStrict(ts.HeadingText, templateBoxes, bodyBoxes)...)
			continue
		}
		if len(templateBoxes) > 1 {
			if issue := compareSingleChoice(ts.HeadingText, templateBoxes, bodyBoxes); issue != "" {
				templateIssues = append(templateIssues, issue)
			}
		}
	}

	if len(missing) > 0 {
		templateIssues = append([]string{formatMissing(missing)}, templateIssues...)
	}

	return Comparison{TemplateIssues: templateIssues, StrictIssues: strictIssues}
}

func compareStrict(name string, templateBoxes, bodyBoxes []Checkbox) []string {
	var issues []string
	for _, tb := range templateBoxes {
		bb, ok := findCheckbox(bodyBoxes, tb.Text)
		switch {
		case !ok:
			issues = append(issues, fmt.Sprintf(`Strict section "%s" is missing checkbox: "%s"`, name, tb.Text))
		case !bb.Checked:
			issues = append(issues, fmt.Sprintf(`Strict section "%s" has unchecked checkbox: "%s"`, name, tb.Text))
		}
	}
	return issues
}

// compareSingleChoice requires exactly one of the template's options to be checked in the body.
func compareSingleChoice(name string, templateBoxes, bodyBoxes []Checkbox) string {
	matched, checked := 0, 0
	for _, bb := range bodyBoxes {
		if _, ok := findCheckbox(templateBoxes, bb.Text); !ok {
			continue
		}
		matched++
		if bb.Checked {
			checked++
		}
	}

	switch {
	case matched == 0:
		return fmt.Sprintf(`Section "%s" is missing all template checkboxes`, name)
	case checked == 0:
		return fmt.Sprintf(`Section "%s" has %d checkbox(es) but none are checked`, name, matched)
	case checked > 1:
		return fmt.Sprintf(`Section "%s" has %d checkbox(es) checked, exceeds maximum of 1`, name, checked)
	}
	return ""
}

func formatMissing(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return "Missing section(s): " + strings.Join(quoted, ", ")
}

// CountAdditionalSections counts body sections whose heading text matches no template section.
func CountAdditionalSections(templateSections, bodySections []Section) int {
	count := 0
	for _, bs := range bodySections {
		if !hasHeadingText(templateSections, bs.HeadingText) {
			count++
		}
	}
	return count
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
