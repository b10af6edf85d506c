package template

import (
	"regexp"
	"strings"
)

// Optional block-quote markers, a "-" list marker, then [ ], [x] or [X] and the label.
var checkboxPattern = regexp.MustCompile(`(?m)^[ \t]*(?:>[ \t]*)*-[ \t]+\[([ xX])\][ \t]+(.+)$`)

// ExtractCheckboxes returns the checkbox items of a section body in document order.
func ExtractCheckboxes(content string) []Checkbox {
	matches := checkboxPattern.FindAllStringSubmatch(content, -1)
	checkboxes := make([]Checkbox, 0, len(matches))
	for _, m := range matches {
		label := strings.TrimSpace(m[2])
		if label == "" {
			continue
		}
		checkboxes = append(checkboxes, Checkbox{Text: label, Checked: m[1] != " "})
	}
	return checkboxes
}

func findCheckbox(checkboxes []Checkbox, text string) (Checkbox, bool) {
	for _, c := range checkboxes {
		if strings.EqualFold(c.Text, text) {
			return c, true
		}
	}
	return Checkbox{}, false
}
