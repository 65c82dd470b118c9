package journal

import (
	"bytes"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DateLayout is the format of daily heading labels (MM/DD/YYYY)
const DateLayout = "01/02/2006"

// Heading is a level-1 daily heading found in the journal
type Heading struct {
	Label string    // Heading text, e.g. "10/15/2026"
	Line  int       // Zero-based line number of the heading
	Date  time.Time // Parsed from Label
}

// DateLabel formats t as a daily heading label
func DateLabel(t time.Time) string {
	return t.Format(DateLayout)
}

// HeadingLine returns the markdown line for a daily heading
func HeadingLine(label string) string {
	return "# " + label
}

// FindHeadings parses content as markdown and returns every level-1 heading
// whose text is a date in DateLayout, in document order.
func FindHeadings(content string) []Heading {
	source := []byte(content)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var headings []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level != 1 || heading.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		label := strings.TrimSpace(string(heading.Text(source)))
		date, err := time.Parse(DateLayout, label)
		if err != nil {
			return ast.WalkSkipChildren, nil
		}

		start := heading.Lines().At(0).Start
		headings = append(headings, Heading{
			Label: label,
			Line:  bytes.Count(source[:start], []byte("\n")),
			Date:  date,
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// HasHeading reports whether content already has a daily heading for label
func HasHeading(content, label string) bool {
	for _, h := range FindHeadings(content) {
		if h.Label == label {
			return true
		}
	}
	return false
}

// Section returns the lines from the heading for label up to, but not
// including, the next daily heading. ok is false when label has no heading.
func Section(content, label string) (section string, ok bool) {
	headings := FindHeadings(content)
	lines := strings.Split(content, "\n")

	for i, h := range headings {
		if h.Label != label {
			continue
		}
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].Line
		}
		return strings.TrimRight(strings.Join(lines[h.Line:end], "\n"), "\n"), true
	}
	return "", false
}
