package template

// Section is a heading line of a Markdown document plus the text up to the next heading.
type Section struct {
	Heading     string // Full heading line, including the leading '#' markers
	HeadingText string // Trimmed heading label
	Content     string // Raw text between this heading and the next (or end of document)
}

// Checkbox is a single "- [ ] label" item.
type Checkbox struct {
	Text    string
	Checked bool
}

// Policy holds the per-section rules a body is compared under.
type Policy struct {
	StrictSections        []string // every template checkbox must be present and checked
	OptionalSections      []string // absence is never reported; wins over StrictSections
	MaxAdditionalSections int      // 0 disables the additional-sections check
}

// Comparison is the result of comparing body sections against template sections.
type Comparison struct {
	TemplateIssues []string
	StrictIssues   []string
}
