package check

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

	issueRefPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)https?://github\.com/[\w.-]+/[\w.-]+/issues/(\d+)`),
		regexp.MustCompile(`[\w.-]+/[\w.-]+#(\d+)`),
		regexp.MustCompile(`(?i)GH-(\d+)`),
		regexp.MustCompile(`(?m)(?:^|[\s(])#(\d+)`),
	}
)

type DescriptionCheck struct{}

func (DescriptionCheck) Name() string { return "description" }

func (DescriptionCheck) Run(_ context.Context, in Input, rec *Recorder) error {
	d := in.Config.Description
	body := in.PR.Body

	if d.Required {
		if strings.TrimSpace(body) == "" {
			rec.Record(Result{Name: "description-empty", Passed: false, Message: "PR description is empty"})
		} else {
			rec.Record(Result{Name: "description-empty", Passed: true, Message: "PR description is present"})
		}
	}

	if d.MaxLength > 0 {
		n := utf8.RuneCountInString(body)
		verb := "within"
		if n > d.MaxLength {
			verb = "exceeds"
		}
		rec.Record(Result{
			Name:    "description-max-length",
			Passed:  n <= d.MaxLength,
			Message: fmt.Sprintf("Description is %d chars, %s maximum of %d", n, verb, d.MaxLength),
		})
	}

	if d.MaxEmojiCount > 0 {
		n := CountEmoji(in.PR.Title + " " + body)
		verb := "within"
		if n > d.MaxEmojiCount {
			verb = "exceeds"
		}
		rec.Record(Result{
			Name:    "emoji-count",
			Passed:  n <= d.MaxEmojiCount,
			Message: fmt.Sprintf("Found %d emoji(s), %s maximum of %d", n, verb, d.MaxEmojiCount),
		})
	}

	if len(d.BlockedTerms) > 0 {
		found := BlockedTerms(body, d.BlockedTerms)
		if len(found) == 0 {
			rec.Record(Result{Name: "blocked-terms", Passed: true, Message: "No blocked terms found in the description"})
		} else {
			rec.Record(Result{Name: "blocked-terms", Passed: false, Message: fmt.Sprintf(
				`Found %d blocked term(s) in the description: "%s"`, len(found), strings.Join(found, `", "`))})
		}
	}

	if d.RequireLinkedIssue {
		issues := IssueNumbers(body)
		if len(issues) > 0 {
			rec.Record(Result{Name: "linked-issue", Passed: true,
				Message: fmt.Sprintf("Found %d linked issue(s) in the PR description", len(issues))})
		} else {
			rec.Record(Result{Name: "linked-issue", Passed: false, Message: "No linked issues found in the PR description"})
		}
	}

	if len(d.BlockedIssueNumbers) > 0 {
		var found []string
		for _, n := range IssueNumbers(body) {
			if slices.Contains(d.BlockedIssueNumbers, n) {
				found = append(found, strconv.Itoa(n))
			}
		}
		if len(found) == 0 {
			rec.Record(Result{Name: "blocked-issue-numbers", Passed: true, Message: "No blocked issue numbers found in the description"})
		} else {
			rec.Record(Result{Name: "blocked-issue-numbers", Passed: false, Message: fmt.Sprintf(
				`Found %d blocked issue number(s) in the description: "%s"`, len(found), strings.Join(found, ", "))})
		}
	}
	return nil
}

// BlockedTerms returns the terms that appear in body outside HTML comments.
func BlockedTerms(body string, terms []string) []string {
	visible := htmlCommentPattern.ReplaceAllString(body, "")
	var found []string
	for _, term := range terms {
		if strings.Contains(visible, term) {
			found = append(found, term)
		}
	}
	return found
}

// IssueNumbers returns the distinct issue numbers referenced in text, in discovery order.
func IssueNumbers(text string) []int {
	seen := make(map[int]bool)
	var numbers []int
	for _, re := range issueRefPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || seen[n] {
				continue
			}
			seen[n] = true
			numbers = append(numbers, n)
		}
	}
	return numbers
}
