package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Color palette — ANSI 0-15 + one 256-color accent
// ---------------------------------------------------------------------------

var (
	Text       = lipgloss.Color("7")
	TextMuted  = lipgloss.Color("8")
	TextBright = lipgloss.Color("15")

	Primary   = lipgloss.Color("4")   // blue
	Secondary = lipgloss.Color("6")   // cyan
	Accent    = lipgloss.Color("5")   // magenta
	Success   = lipgloss.Color("2")   // green
	Warning   = lipgloss.Color("3")   // yellow
	Danger    = lipgloss.Color("1")   // red
	Surface   = lipgloss.Color("236") // dark bg
	Border    = lipgloss.Color("8")   // dim
)

// ---------------------------------------------------------------------------
// Semantic text styles
// ---------------------------------------------------------------------------

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Muted    = lipgloss.NewStyle().Foreground(TextMuted)

	Error = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Ok    = lipgloss.NewStyle().Bold(true).Foreground(Success)

	Cursor     = lipgloss.NewStyle().Bold(true).Foreground(Success)
	SelectedBg = lipgloss.NewStyle().Foreground(TextBright).Background(Surface)
	Date       = lipgloss.NewStyle().Foreground(Warning)
)

// ---------------------------------------------------------------------------
// Reusable component helpers
// ---------------------------------------------------------------------------

var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ModalHelp = lipgloss.NewStyle().Foreground(TextMuted)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextBright).
		Background(Primary).
		PaddingLeft(1)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModeEdit    = lipgloss.NewStyle().Bold(true).Foreground(Success)
	ModePreview = lipgloss.NewStyle().Bold(true).Foreground(Accent)
)
