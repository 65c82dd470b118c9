package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"mdjournal/internal/journal"
	"mdjournal/internal/logs"
	"mdjournal/internal/tui/messages"
	"mdjournal/internal/tui/shared"
	"mdjournal/internal/tui/theme"
)

const (
	headerHeight    = 1
	statusBarHeight = 2
	modalWidth      = 50
)

// Settings holds display options that do not affect the journal itself
type Settings struct {
	PreviewStyle string
}

// AppModel is the root model wiring the journal controller to the terminal
type AppModel struct {
	ctrl       *journal.Controller
	settings   Settings
	editor     textarea.Model
	preview    viewport.Model
	confirm    *ConfirmationModal
	picker     HeadingPicker
	pickerOpen bool
	showHelp   bool
	notice     string
	err        error
	width      int
	height     int
	ready      bool
}

// NewAppModel mounts the journal: the controller loads the log file and the
// editor is filled from it, or the create prompt is prepared.
func NewAppModel(ctrl *journal.Controller, settings Settings) (AppModel, error) {
	if err := ctrl.Initialize(); err != nil {
		return AppModel{}, err
	}

	m := AppModel{
		ctrl:     ctrl,
		settings: settings,
		editor:   newEditor(),
		preview:  viewport.New(0, 0),
	}

	switch ctrl.State() {
	case journal.StateConfirmCreate:
		m.confirm = NewConfirmationModal(
			fmt.Sprintf("Create %s?", filepath.Base(ctrl.Path())),
			ctrl.Path(),
			modalWidth,
		)
	case journal.StateEditing:
		if err := m.startEditing(); err != nil {
			return AppModel{}, err
		}
	}

	logs.Logger.Printf("Mounted %s in state %s", ctrl.Path(), ctrl.State())
	return m, nil
}

func (m *AppModel) startEditing() error {
	m.editor.Focus()
	return loadEditor(&m.editor, m.ctrl)
}

// Err returns the error that ended the session, if any
func (m AppModel) Err() error {
	return m.err
}

// Controller exposes the journal controller driven by this model
func (m AppModel) Controller() *journal.Controller {
	return m.ctrl
}

func (m AppModel) Init() tea.Cmd {
	if m.ctrl.State() == journal.StateEditing {
		return textarea.Blink
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case messages.ConfirmationResultMsg:
		m.confirm = nil
		m.ctrl.ConfirmCreate(msg.Confirmed)
		if !msg.Confirmed {
			logs.Logger.Printf("Declined to create %s", m.ctrl.Path())
			return m, tea.Quit
		}
		if err := m.startEditing(); err != nil {
			logs.Logger.Printf("Error loading journal: %v", err)
			m.err = err
			return m, tea.Quit
		}
		return m, textarea.Blink

	case messages.JumpToHeadingMsg:
		m.pickerOpen = false
		m.ctrl.JumpTo(msg.Line)
		jumpEditor(&m.editor, m.ctrl)
		return m, nil

	case messages.ClosePickerMsg:
		m.pickerOpen = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.ctrl.State() == journal.StateEditing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always saves (when there is something to save) and quits
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.ctrl.State() {
	case journal.StateConfirmCreate:
		if m.confirm != nil {
			return m, m.confirm.Update(msg)
		}
		return m, nil
	case journal.StatePreview:
		return m.handlePreviewKey(msg)
	case journal.StateEditing:
		if m.pickerOpen {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m.handleEditorKey(msg)
	}
	return m, nil
}

func (m AppModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+n":
		return m.togglePreview()
	case "ctrl+g":
		m.picker = NewHeadingPicker(m.ctrl.Headings(), modalWidth)
		m.pickerOpen = true
		return m, nil
	case "f1":
		m.showHelp = true
		return m, nil
	}

	switch {
	case msg.Type == tea.KeyRunes && !msg.Paste && !msg.Alt:
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			cmds = append(cmds, m.typeRune(r))
		}
		return m, tea.Batch(cmds...)
	case msg.Type == tea.KeyEnter && m.editor.LineCount() < editorMaxLines:
		syncController(m.ctrl, &m.editor)
		if m.ctrl.HandleEnter().Suppress {
			m.reloadEditor()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	syncController(m.ctrl, &m.editor)
	return m, cmd
}

// typeRune gives the controller first refusal on a typed rune and lets the
// textarea insert it otherwise.
func (m *AppModel) typeRune(r rune) tea.Cmd {
	syncController(m.ctrl, &m.editor)
	if m.ctrl.HandleChar(r).Suppress {
		m.reloadEditor()
		return nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	syncController(m.ctrl, &m.editor)
	return cmd
}

// reloadEditor pushes a controller edit back into the textarea
func (m *AppModel) reloadEditor() {
	if err := loadEditor(&m.editor, m.ctrl); err != nil {
		logs.Logger.Printf("Error reloading editor: %v", err)
		m.notice = err.Error()
	}
}

func (m AppModel) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n", "esc":
		return m.togglePreview()
	case "f1":
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m AppModel) togglePreview() (tea.Model, tea.Cmd) {
	if m.ctrl.State() == journal.StateEditing {
		syncController(m.ctrl, &m.editor)
	}

	state, err := m.ctrl.TogglePreview()
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}

	if state == journal.StatePreview {
		m.editor.Blur()
		m.preview.SetContent(renderMarkdown(m.ctrl.Serialize(), m.width, m.settings.PreviewStyle))
		m.preview.GotoTop()
		return m, nil
	}
	return m, m.editor.Focus()
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if m.ctrl.State() == journal.StateEditing {
		syncController(m.ctrl, &m.editor)
	}
	if err := m.ctrl.Quit(); err != nil {
		logs.Logger.Printf("Error saving journal: %v", err)
		m.err = err
	} else {
		logs.Logger.Printf("Saved %s", m.ctrl.Path())
	}
	return m, tea.Quit
}

func (m *AppModel) resize() {
	contentHeight := max(1, m.height-headerHeight-statusBarHeight)
	m.editor.SetWidth(m.width)
	m.editor.SetHeight(contentHeight)
	m.preview.Width = m.width
	m.preview.Height = contentHeight
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	contentHeight := max(1, m.height-headerHeight-statusBarHeight)

	var content string
	switch m.ctrl.State() {
	case journal.StateConfirmCreate:
		if m.confirm != nil {
			content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, m.confirm.View())
		}
	case journal.StatePreview:
		content = m.preview.View()
	default:
		content = m.editor.View()
	}

	if m.pickerOpen {
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, m.picker.View())
	}
	if m.showHelp {
		content = shared.RenderHelpPopup(helpSections(m.ctrl.Options()), m.width, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), content, m.renderStatusBar())
}

func (m AppModel) renderHeader() string {
	title := "Markdown Journal  " + theme.Date.Render(m.ctrl.Today())
	return theme.Header.Width(m.width).Render(title)
}

func (m AppModel) renderStatusBar() string {
	var mode, hints string
	switch m.ctrl.State() {
	case journal.StateConfirmCreate:
		mode = theme.ModeEdit.Render("NEW")
		hints = "y:create  n:quit"
	case journal.StatePreview:
		mode = theme.ModePreview.Render("PREVIEW")
		hints = "ctrl+n:edit  ↑/↓:scroll  ctrl+c:save & quit"
	default:
		mode = theme.ModeEdit.Render("EDIT")
		c := m.ctrl.Cursor()
		hints = fmt.Sprintf("%d:%d  ctrl+g:jump  ctrl+n:preview  f1:help  ctrl+c:save & quit", c.Row+1, c.Col+1)
	}

	status := mode + "  " + theme.Muted.Render(abbreviatePath(m.ctrl.Path())) + "  " + hints
	if m.notice != "" {
		status += "  " + theme.Error.Render(m.notice)
	}
	return theme.StatusBar.Width(m.width).Render(status)
}

func helpSections(opts journal.Options) []shared.HelpSection {
	editing := []shared.HelpBind{
		{Key: "enter", Desc: "New line (continues - bullets)"},
	}
	if opts.AutoPairParens {
		editing = append(editing, shared.HelpBind{Key: "(", Desc: "Insert () around the cursor"})
	}
	if opts.AutoPairBrackets {
		editing = append(editing, shared.HelpBind{Key: "[", Desc: "Insert [] around the cursor"})
	}

	global := []shared.HelpBind{
		{Key: "ctrl+g", Desc: "Jump to a date heading"},
	}
	if opts.Preview {
		global = append(global, shared.HelpBind{Key: "ctrl+n", Desc: "Toggle markdown preview"})
	}
	global = append(global,
		shared.HelpBind{Key: "f1", Desc: "Show this help"},
		shared.HelpBind{Key: "ctrl+c", Desc: "Save and quit"},
	)

	return []shared.HelpSection{
		{Title: "Editing", Binds: editing},
		{Title: "Journal", Binds: global},
	}
}

// abbreviatePath replaces home directory with ~
func abbreviatePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
