package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// FormParseError reports a line of an issue form that could not be parsed.
type FormParseError struct {
	// Line is 1-based.
	Line int
	Text string
}

func (e *FormParseError) Error() string {
	return fmt.Sprintf("line %d is not in \"Field: value\" format: \"%s\"", e.Line, e.Text)
}

// Field is one "Field: value" line of an issue form. Name is lowercased.
type Field struct {
	Name  string
	Value string
}

// ParsedForm is the result of parsing an issue form.
type ParsedForm struct {
	// Fields are in the order first seen. A repeated field keeps its
	// position and takes the later value.
	Fields      []Field
	Description string
}

// Get returns the value of the named field.
func (f *ParsedForm) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Summary returns the summary field, or "" if the form has none.
func (f *ParsedForm) Summary() string {
	v, _ := f.Get("summary")
	return v
}

func (f *ParsedForm) set(name, value string) {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			f.Fields[i].Value = value
			return
		}
	}
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
}

var lineSplit = regexp.MustCompile(`\r?\n`)

func splitLines(text string) []string {
	return lineSplit.Split(text, -1)
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// ParseIssueForm parses the text of an issue form:
//
//	# Leading comment lines are dropped.
//	Summary: the summary
//	Type: Bug
//	Description:
//	Everything from here on is the description.
//
// A missing summary is not an error; callers validate that.
func ParseIssueForm(text string) (*ParsedForm, error) {
	lines := splitLines(text)
	parsed := &ParsedForm{}
	i := 0

	for i < len(lines) {
		line := trimLeft(lines[i])
		if line != "" && line[0] != '#' {
			break
		}
		i++
	}

	var desc []string
	for i < len(lines) {
		line := trimLeft(lines[i])
		i++
		if line == "" || line[0] == '#' {
			continue
		}
		idx := strings.Index(line, ":")
		if idx == -1 {
			return nil, &FormParseError{Line: i, Text: line}
		}
		name := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if name == "description" {
			if value != "" {
				desc = append(desc, value)
			}
			break
		}
		parsed.set(name, value)
	}

	for ; i < len(lines); i++ {
		line := lines[i]
		// Leading blank lines are dropped, internal ones kept.
		if len(desc) != 0 || strings.TrimSpace(line) != "" {
			desc = append(desc, line)
		}
	}
	parsed.Description = strings.TrimRightFunc(strings.Join(desc, "\n"), unicode.IsSpace)

	return parsed, nil
}

// Render serializes the form so that parsing the result gives back an equal
// form.
func (f *ParsedForm) Render() string {
	var b strings.Builder
	for _, field := range f.Fields {
		b.WriteString(fieldLabel(field.Name))
		b.WriteString(": ")
		b.WriteString(field.Value)
		b.WriteString("\n")
	}
	b.WriteString("Description:\n")
	if f.Description != "" {
		b.WriteString(f.Description)
		b.WriteString("\n")
	}
	return b.String()
}

func fieldLabel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Template holds the initial values of a new issue form.
type Template struct {
	Summary     string
	Type        string
	Assignee    string
	Components  []string
	Labels      []string
	Description string
}

// RenderIssueForm returns the text users edit to create an issue in projectKey.
func RenderIssueForm(projectKey string, tmpl Template) string {
	lines := []string{
		"# Edit the new " + projectKey + " issue fields. Field notes:",
		"#",
		"#   Summary: Required.",
		`#   Assignee: Use "me" to assign to yourself, blank for project default.`,
		"#   Components: Comma-separated names.",
		"#",
		`# Leading lines starting with "#" are dropped.`,
		"Summary: " + tmpl.Summary,
		"Type: " + tmpl.Type,
		"Assignee: " + tmpl.Assignee,
		"Components: " + strings.Join(tmpl.Components, ", "),
	}
	if len(tmpl.Labels) > 0 {
		lines = append(lines, "Labels: "+strings.Join(tmpl.Labels, ", "))
	}
	lines = append(lines, "Description:")
	if tmpl.Description != "" {
		lines = append(lines, tmpl.Description, "")
	} else {
		lines = append(lines, "", "")
	}
	return strings.Join(lines, "\n")
}

// SummaryLine returns the 1-based line number of the "Summary:" line, or 0.
func SummaryLine(text string) int {
	for i, line := range splitLines(text) {
		if strings.HasPrefix(line, "Summary:") {
			return i + 1
		}
	}
	return 0
}

// EditLine returns the line to put the cursor on when editing text: the
// "Summary:" line if its value is empty, else one past the last line. It
// returns 0 when the text has no "Summary:" line.
func EditLine(text string) int {
	lines := splitLines(text)
	n := SummaryLine(text)
	if n == 0 {
		return 0
	}
	if strings.TrimSpace(strings.TrimPrefix(lines[n-1], "Summary:")) == "" {
		return n
	}
	return len(lines) + 1
}

// ParseCommaList splits a comma-separated list, trimming entries and
// dropping empty ones.
func ParseCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
