package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"mdjournal/internal/journal"
	"mdjournal/internal/tui/messages"
	"mdjournal/internal/tui/theme"
)

const pickerVisibleRows = 10

// HeadingPicker lets the user fuzzy-find a daily heading and jump below it
type HeadingPicker struct {
	headings  []journal.Heading
	filtered  []int // indices into headings
	selected  int
	textInput textinput.Model
	width     int
}

// NewHeadingPicker creates a picker over headings, newest first
func NewHeadingPicker(headings []journal.Heading, width int) HeadingPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter dates..."
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 30

	reversed := make([]journal.Heading, len(headings))
	for i, h := range headings {
		reversed[len(headings)-1-i] = h
	}

	p := HeadingPicker{
		headings:  reversed,
		textInput: ti,
		width:     width,
	}
	p.applyFilter()
	return p
}

func (p *HeadingPicker) applyFilter() {
	query := strings.TrimSpace(p.textInput.Value())
	if query == "" {
		p.filtered = make([]int, len(p.headings))
		for i := range p.headings {
			p.filtered[i] = i
		}
	} else {
		labels := make([]string, len(p.headings))
		for i, h := range p.headings {
			labels[i] = h.Label
		}
		matches := fuzzy.Find(query, labels)
		p.filtered = make([]int, len(matches))
		for i, match := range matches {
			p.filtered[i] = match.Index
		}
	}
	if p.selected >= len(p.filtered) {
		p.selected = max(0, len(p.filtered)-1)
	}
}

// Selected returns the highlighted heading, if any
func (p HeadingPicker) Selected() (journal.Heading, bool) {
	if len(p.filtered) == 0 {
		return journal.Heading{}, false
	}
	return p.headings[p.filtered[p.selected]], true
}

// Update handles picker keys, returning the picker as a child view
func (p HeadingPicker) Update(msg tea.KeyMsg) (HeadingPicker, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return p, func() tea.Msg { return messages.ClosePickerMsg{} }
	case "enter":
		h, ok := p.Selected()
		if !ok {
			return p, func() tea.Msg { return messages.ClosePickerMsg{} }
		}
		return p, func() tea.Msg {
			return messages.JumpToHeadingMsg{Label: h.Label, Line: h.Line}
		}
	case "up", "ctrl+p", "ctrl+k":
		if p.selected > 0 {
			p.selected--
		}
		return p, nil
	case "down", "ctrl+n", "ctrl+j":
		if p.selected < len(p.filtered)-1 {
			p.selected++
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.textInput, cmd = p.textInput.Update(msg)
	p.applyFilter()
	return p, cmd
}

// View renders the picker as a modal box
func (p HeadingPicker) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Jump to date") + "\n\n")
	b.WriteString(p.textInput.View() + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(theme.Muted.Render("No matching headings") + "\n")
	}

	start := 0
	if p.selected >= pickerVisibleRows {
		start = p.selected - pickerVisibleRows + 1
	}
	end := min(len(p.filtered), start+pickerVisibleRows)

	for i := start; i < end; i++ {
		h := p.headings[p.filtered[i]]
		line := fmt.Sprintf("%s  %s", h.Label, theme.Muted.Render(h.Date.Format("Monday")))
		if i == p.selected {
			b.WriteString(theme.Cursor.Render("> ") + theme.SelectedBg.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + theme.ModalHelp.Render("↑/↓:navigate  enter:jump  esc:cancel"))
	return theme.ModalBox.Width(p.width).Render(b.String())
}
