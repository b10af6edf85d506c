package template

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+)$`)

const byteOrderMark = "\uFEFF"

// ParseSections splits Markdown text into sections keyed by ATX heading, in document order.
// Text before the first heading belongs to no section. A leading byte-order mark is ignored.
func ParseSections(text string) []Section {
	text = strings.TrimPrefix(text, byteOrderMark)
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}

		sections = append(sections, Section{
			Heading:     strings.TrimRight(text[m[0]:m[1]], "\r"),
			HeadingText: strings.TrimSpace(text[m[2]:m[3]]),
			Content:     text[m[1]:contentEnd],
		})
	}
	return sections
}

// findSection returns the first section whose full heading line equals heading, ignoring case.
func findSection(sections []Section, heading string) (Section, bool) {
	for _, s := range sections {
		if strings.EqualFold(s.Heading, heading) {
			return s, true
		}
	}
	return Section{}, false
}

func hasHeadingText(sections []Section, text string) bool {
	for _, s := range sections {
		if strings.EqualFold(s.HeadingText, text) {
			return true
		}
	}
	return false
}
