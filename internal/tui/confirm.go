package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"mdjournal/internal/tui/messages"
	"mdjournal/internal/tui/theme"
)

// ConfirmationModal displays a simple yes/no confirmation dialog
type ConfirmationModal struct {
	Message string // Primary question
	Details string // Additional context (optional)
	Width   int    // Modal width
}

// NewConfirmationModal creates a new confirmation modal
func NewConfirmationModal(message, details string, width int) *ConfirmationModal {
	return &ConfirmationModal{
		Message: message,
		Details: details,
		Width:   width,
	}
}

// Update handles key events for the confirmation modal
func (m *ConfirmationModal) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		return func() tea.Msg {
			return messages.ConfirmationResultMsg{Confirmed: true}
		}
	case "n", "N", "esc":
		return func() tea.Msg {
			return messages.ConfirmationResultMsg{Confirmed: false}
		}
	}
	return nil
}

// View renders the confirmation modal
func (m *ConfirmationModal) View() string {
	var content string

	content += theme.Title.Render(m.Message) + "\n"

	if m.Details != "" {
		content += "\n" + m.Details + "\n"
	}

	content += "\n"
	content += theme.Ok.Render("[y]") + " Yes  "
	content += theme.Error.Render("[n/esc]") + " No"

	return theme.ModalBox.Width(m.Width).Render(content)
}
