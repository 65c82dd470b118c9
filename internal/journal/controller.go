package journal

import (
	"errors"
	"strings"
	"time"
)

// State is the lifecycle stage of a Controller
type State int

const (
	StateUninitialized State = iota
	StateConfirmCreate
	StateEditing
	StatePreview
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfirmCreate:
		return "confirm"
	case StateEditing:
		return "edit"
	case StatePreview:
		return "preview"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// DefaultLineCeiling is how many runes of the cursor line the list
// continuation check looks at.
const DefaultLineCeiling = 300

var (
	// ErrPreviewDisabled is returned when toggling preview with it switched off
	ErrPreviewDisabled = errors.New("preview is disabled")
	// ErrNotEditing is returned by operations that need an initialized buffer
	ErrNotEditing = errors.New("journal is not open for editing")
)

// Options switches the optional editing behaviours
type Options struct {
	AutoPairParens   bool
	AutoPairBrackets bool
	Preview          bool
	ConfirmCreate    bool
	LineCeiling      int
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		AutoPairParens:   true,
		AutoPairBrackets: true,
		Preview:          true,
		LineCeiling:      DefaultLineCeiling,
	}
}

// Result tells the host what to do after a key handler ran
type Result struct {
	// Suppress is true when the controller handled the event and the host
	// must skip its default action.
	Suppress bool
}

// Controller owns the journal buffer and applies the editing rules
type Controller struct {
	store Store
	opts  Options
	doc   *Document
	state State
	today string
	now   func() time.Time
}

// NewController creates a controller for the journal kept in store
func NewController(store Store, opts Options) *Controller {
	if opts.LineCeiling <= 0 {
		opts.LineCeiling = DefaultLineCeiling
	}
	return &Controller{
		store: store,
		opts:  opts,
		doc:   NewDocument(""),
		now:   time.Now,
	}
}

// SetClock replaces the clock used to pick today's heading
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Controller) State() State     { return c.state }
func (c *Controller) Options() Options { return c.opts }
func (c *Controller) Path() string     { return c.store.Path() }
func (c *Controller) Cursor() Cursor   { return c.doc.Cursor() }

// Today returns the date label chosen at initialization
func (c *Controller) Today() string {
	return c.today
}

// Initialize loads the journal and makes sure today's heading exists.
// When the file is missing and ConfirmCreate is set, the controller waits in
// StateConfirmCreate for ConfirmCreate instead.
func (c *Controller) Initialize() error {
	if c.state != StateUninitialized {
		return nil
	}

	c.today = DateLabel(c.now())

	text, exists, err := c.store.Load()
	if err != nil {
		return err
	}

	if !exists {
		if c.opts.ConfirmCreate {
			c.state = StateConfirmCreate
			return nil
		}
		c.startFresh()
		return nil
	}

	if !HasHeading(text, c.today) {
		text += headingSeparator(text) + HeadingLine(c.today)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	c.doc.Load(text)
	c.doc.SetCursor(Cursor{Row: strings.Count(text, "\n")})
	c.state = StateEditing
	return nil
}

// headingSeparator returns what goes between existing text and a new
// heading so that exactly one blank line separates them.
func headingSeparator(text string) string {
	switch {
	case text == "":
		return ""
	case strings.HasSuffix(text, "\n\n"):
		return ""
	case strings.HasSuffix(text, "\n"):
		return "\n"
	}
	return "\n\n"
}

// ConfirmCreate answers the create-file prompt. Declining terminates the
// session without touching the filesystem.
func (c *Controller) ConfirmCreate(yes bool) {
	if c.state != StateConfirmCreate {
		return
	}
	if !yes {
		c.state = StateTerminated
		return
	}
	c.startFresh()
}

func (c *Controller) startFresh() {
	c.doc.Load(HeadingLine(c.today) + "\n\n")
	c.doc.SetCursor(Cursor{Row: 2})
	c.state = StateEditing
}

// HandleChar applies auto-pairing for a typed character
func (c *Controller) HandleChar(r rune) Result {
	if c.state != StateEditing {
		return Result{}
	}

	var pair string
	switch {
	case r == '(' && c.opts.AutoPairParens:
		pair = "()"
	case r == '[' && c.opts.AutoPairBrackets:
		pair = "[]"
	default:
		return Result{}
	}

	c.doc.Insert(pair)
	c.doc.MoveCursor(-1)
	return Result{Suppress: true}
}

// HandleEnter continues a bullet list when the cursor line starts with "-"
func (c *Controller) HandleEnter() Result {
	if c.state != StateEditing || !c.onBulletLine() {
		return Result{}
	}
	c.doc.Insert("\n- ")
	return Result{Suppress: true}
}

func (c *Controller) onBulletLine() bool {
	line := []rune(c.doc.Line(c.doc.Cursor().Row))
	if len(line) > c.opts.LineCeiling {
		line = line[:c.opts.LineCeiling]
	}
	return strings.HasPrefix(strings.TrimSpace(string(line)), "-")
}

// InsertText performs a plain insertion at the cursor, as the host would
// for an event the controller did not suppress.
func (c *Controller) InsertText(s string) error {
	if c.state != StateEditing {
		return ErrNotEditing
	}
	c.doc.Insert(s)
	return nil
}

// Sync replaces the buffer with the host widget's text and cursor after the
// host performed a default action.
func (c *Controller) Sync(text string, cursor Cursor) {
	if c.state != StateEditing && c.state != StatePreview {
		return
	}
	c.doc.Load(text)
	c.doc.SetCursor(cursor)
}

// SyncRendered is Sync for hosts that display each line through render.
// Lines the host did not edit keep their original text, so a widget that
// expands tabs or control characters only rewrites the lines the user
// actually changed. cursor is in rendered columns.
func (c *Controller) SyncRendered(shown string, cursor Cursor, render Render) {
	if c.state != StateEditing && c.state != StatePreview {
		return
	}
	c.doc.Merge(strings.Split(shown, "\n"), render)
	row := max(0, min(cursor.Row, c.doc.LineCount()-1))
	c.doc.SetCursor(Cursor{
		Row: row,
		Col: sourceColumn(c.doc.Line(row), cursor.Col, render),
	})
}

// Rendered returns the buffer and cursor as a host displaying lines through
// render should show them.
func (c *Controller) Rendered(render Render) (string, Cursor) {
	return c.doc.Rendered(render)
}

// Serialize returns the whole buffer
func (c *Controller) Serialize() string {
	return c.doc.Text()
}

// Headings lists the daily headings currently in the buffer
func (c *Controller) Headings() []Heading {
	return FindHeadings(c.doc.Text())
}

// JumpTo moves the cursor to the start of the line after the heading on row
func (c *Controller) JumpTo(row int) {
	if c.state != StateEditing {
		return
	}
	c.doc.SetCursor(Cursor{Row: row + 1})
}

// TogglePreview switches between the editable buffer and the rendered preview
func (c *Controller) TogglePreview() (State, error) {
	if !c.opts.Preview {
		return c.state, ErrPreviewDisabled
	}
	switch c.state {
	case StateEditing:
		c.state = StatePreview
	case StatePreview:
		c.state = StateEditing
	}
	return c.state, nil
}

// Quit writes the buffer over the journal file and terminates the session.
// From StateConfirmCreate it terminates without writing.
func (c *Controller) Quit() error {
	switch c.state {
	case StateEditing, StatePreview:
		if err := c.store.Save(c.Serialize()); err != nil {
			return err
		}
	case StateTerminated:
		return nil
	}
	c.state = StateTerminated
	return nil
}
