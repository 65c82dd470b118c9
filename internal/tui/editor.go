package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	"mdjournal/internal/journal"
)

// editorMaxLines is the most lines the textarea holds; it silently drops
// anything past it.
const editorMaxLines = 10000

const (
	tabWidth        = 4
	unknownRuneMark = '␦'
)

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Write today's entry..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	return ta
}

// renderLine is how a journal line is shown in the textarea. The textarea
// rewrites tabs, carriage returns and control characters on input, so they
// are replaced up front with text it keeps as is: tabs become spaces and
// control characters become their visible control pictures. Lines the user
// never edits are written back with their original bytes.
func renderLine(line string) string {
	if !strings.ContainsFunc(line, needsRendering) {
		return line
	}

	var b strings.Builder
	for _, r := range line {
		switch {
		case r == '\t':
			b.WriteString(strings.Repeat(" ", tabWidth))
		case r < 0x20:
			b.WriteRune(0x2400 + r)
		case r == 0x7f:
			b.WriteRune('␡')
		case needsRendering(r):
			b.WriteRune(unknownRuneMark)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsRendering(r rune) bool {
	return r == '\t' || r == unicode.ReplacementChar || unicode.IsControl(r)
}

// editorCursor reads the logical cursor position out of the textarea
func editorCursor(ta *textarea.Model) journal.Cursor {
	info := ta.LineInfo()
	return journal.Cursor{
		Row: ta.Line(),
		Col: info.StartColumn + info.ColumnOffset,
	}
}

// moveEditorCursor places the textarea cursor at c. The textarea only moves
// one visual row at a time, so soft-wrapped lines take several steps.
func moveEditorCursor(ta *textarea.Model, c journal.Cursor) {
	limit := ta.Length() + ta.LineCount() + 1
	for i := 0; ta.Line() > c.Row && i < limit; i++ {
		ta.CursorUp()
	}
	for i := 0; ta.Line() < c.Row && i < limit; i++ {
		ta.CursorDown()
	}
	ta.SetCursor(c.Col)
}

// loadEditor replaces the textarea content with the controller buffer and
// mirrors the controller cursor. It fails when the textarea would not hold
// the buffer exactly, since syncing from a lossy copy would lose text.
func loadEditor(ta *textarea.Model, ctrl *journal.Controller) error {
	text, cursor := ctrl.Rendered(renderLine)
	if lines := strings.Count(text, "\n") + 1; lines > editorMaxLines {
		return fmt.Errorf("%s has %d lines, the editor holds at most %d", ctrl.Path(), lines, editorMaxLines)
	}

	ta.SetValue(text)
	if ta.Value() != text {
		return fmt.Errorf("%s contains text the editor cannot show unchanged", ctrl.Path())
	}
	moveEditorCursor(ta, cursor)
	*ta, _ = ta.Update(nil)
	return nil
}

// syncController merges the textarea state back into the controller
func syncController(ctrl *journal.Controller, ta *textarea.Model) {
	ctrl.SyncRendered(ta.Value(), editorCursor(ta), renderLine)
}

// jumpEditor moves the textarea cursor to the controller cursor
func jumpEditor(ta *textarea.Model, ctrl *journal.Controller) {
	_, cursor := ctrl.Rendered(renderLine)
	moveEditorCursor(ta, cursor)
	*ta, _ = ta.Update(nil)
}
