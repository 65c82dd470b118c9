package journal

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Cursor is a position in a Document. Col counts runes, not bytes.
type Cursor struct {
	Row int
	Col int
}

// Document is the in-memory journal text, held as lines, plus the cursor
type Document struct {
	lines  []string
	cursor Cursor
}

// NewDocument creates a document from raw text with the cursor at the origin
func NewDocument(text string) *Document {
	d := &Document{}
	d.Load(text)
	return d
}

// Load replaces the document text. The cursor is clamped into the new text.
func (d *Document) Load(text string) {
	d.lines = strings.Split(text, "\n")
	d.clamp()
}

// Text returns the full document joined with newlines
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// LineCount returns the number of lines, which is always at least one
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the text of a row, or "" when the row is out of range
func (d *Document) Line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

// Cursor returns the current cursor position
func (d *Document) Cursor() Cursor {
	return d.cursor
}

// SetCursor moves the cursor, clamping it into the document
func (d *Document) SetCursor(c Cursor) {
	d.cursor = c
	d.clamp()
}

// MoveCursor shifts the cursor by cols within the current line
func (d *Document) MoveCursor(cols int) {
	d.cursor.Col += cols
	d.clamp()
}

// Insert places s at the cursor and leaves the cursor after the inserted text
func (d *Document) Insert(s string) {
	if s == "" {
		return
	}

	row := d.cursor.Row
	line := []rune(d.lines[row])
	before := string(line[:d.cursor.Col])
	after := string(line[d.cursor.Col:])

	parts := strings.Split(s, "\n")
	if len(parts) == 1 {
		d.lines[row] = before + s + after
		d.cursor.Col += utf8.RuneCountInString(s)
		return
	}

	last := parts[len(parts)-1]
	inserted := make([]string, 0, len(parts))
	inserted = append(inserted, before+parts[0])
	inserted = append(inserted, parts[1:len(parts)-1]...)
	inserted = append(inserted, last+after)

	d.lines = slices.Concat(d.lines[:row], inserted, d.lines[row+1:])
	d.cursor = Cursor{
		Row: row + len(parts) - 1,
		Col: utf8.RuneCountInString(last),
	}
}

func (d *Document) clamp() {
	if len(d.lines) == 0 {
		d.lines = []string{""}
	}
	d.cursor.Row = max(0, min(d.cursor.Row, len(d.lines)-1))
	width := utf8.RuneCountInString(d.lines[d.cursor.Row])
	d.cursor.Col = max(0, min(d.cursor.Col, width))
}

// Render maps a line to the form a host widget displays it in. A Render
// must not introduce newlines.
type Render func(line string) string

// Rendered returns the document as shown through render, with the cursor
// converted to rendered columns.
func (d *Document) Rendered(render Render) (string, Cursor) {
	shown := make([]string, len(d.lines))
	for i, line := range d.lines {
		shown[i] = render(line)
	}
	c := d.cursor
	c.Col = renderedColumn(d.lines[c.Row], c.Col, render)
	return strings.Join(shown, "\n"), c
}

// Merge takes the host's rendered lines back. Lines at the start and end
// whose rendering the host left untouched keep their original text, so only
// the edited span is replaced by what the host shows.
func (d *Document) Merge(shown []string, render Render) {
	old := d.lines

	prefix := 0
	for prefix < len(old) && prefix < len(shown) && render(old[prefix]) == shown[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(old)-prefix && suffix < len(shown)-prefix &&
		render(old[len(old)-1-suffix]) == shown[len(shown)-1-suffix] {
		suffix++
	}

	d.lines = slices.Concat(
		old[:prefix],
		shown[prefix:len(shown)-suffix],
		old[len(old)-suffix:],
	)
	d.clamp()
}

// renderedColumn converts a rune column in line to a column in render(line)
func renderedColumn(line string, col int, render Render) int {
	runes := []rune(line)
	col = max(0, min(col, len(runes)))
	return utf8.RuneCountInString(render(string(runes[:col])))
}

// sourceColumn converts a column in render(line) back to a rune column in
// line. A column inside an expanded rune lands after that rune.
func sourceColumn(line string, col int, render Render) int {
	width := 0
	for i, r := range []rune(line) {
		if width >= col {
			return i
		}
		width += utf8.RuneCountInString(render(string(r)))
	}
	return utf8.RuneCountInString(line)
}
