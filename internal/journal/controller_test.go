package journal

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type memStore struct {
	text   string
	exists bool
	saves  int
	err    error
}

func (s *memStore) Load() (string, bool, error) { return s.text, s.exists, s.err }
func (s *memStore) Path() string                { return "mem://daily_log.md" }

func (s *memStore) Save(text string) error {
	if s.err != nil {
		return s.err
	}
	s.text = text
	s.exists = true
	s.saves++
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)
}

func newTestController(t *testing.T, store *memStore, opts Options) *Controller {
	t.Helper()
	c := NewController(store, opts)
	c.SetClock(fixedClock)
	if err := c.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestInitialize_NewFile(t *testing.T) {
	store := &memStore{}
	c := newTestController(t, store, DefaultOptions())

	if c.State() != StateEditing {
		t.Fatalf("expected editing state, got %s", c.State())
	}
	if c.Serialize() != "# 10/15/2026\n\n" {
		t.Errorf("unexpected buffer %q", c.Serialize())
	}
	if c.Cursor() != (Cursor{Row: 2, Col: 0}) {
		t.Errorf("expected cursor {2 0}, got %v", c.Cursor())
	}
	if store.saves != 0 {
		t.Errorf("expected no writes before quit, got %d", store.saves)
	}
}

func TestInitialize_AppendsTodaysHeading(t *testing.T) {
	store := &memStore{text: "# 10/14/2026\n- a", exists: true}
	c := newTestController(t, store, DefaultOptions())

	want := "# 10/14/2026\n- a\n\n# 10/15/2026\n"
	if c.Serialize() != want {
		t.Errorf("expected %q, got %q", want, c.Serialize())
	}
	if c.Cursor() != (Cursor{Row: 4, Col: 0}) {
		t.Errorf("expected cursor {4 0}, got %v", c.Cursor())
	}
}

func TestInitialize_KeepsExistingHeading(t *testing.T) {
	store := &memStore{text: "# 10/15/2026\n- coffee\n", exists: true}
	c := newTestController(t, store, DefaultOptions())

	if c.Serialize() != store.text {
		t.Errorf("expected buffer unchanged, got %q", c.Serialize())
	}
	if c.Cursor() != (Cursor{Row: 2, Col: 0}) {
		t.Errorf("expected cursor {2 0}, got %v", c.Cursor())
	}
}

func TestInitialize_BlankLineBeforeNewHeading(t *testing.T) {
	tests := []struct {
		existing string
		want     string
		row      int
	}{
		{"# 10/14/2026\n- a\n", "# 10/14/2026\n- a\n\n# 10/15/2026\n", 4},
		{"# 10/14/2026\n- a\n\n", "# 10/14/2026\n- a\n\n# 10/15/2026\n", 4},
		{"", "# 10/15/2026\n", 1},
	}

	for _, tt := range tests {
		c := newTestController(t, &memStore{text: tt.existing, exists: true}, DefaultOptions())
		if c.Serialize() != tt.want {
			t.Errorf("from %q: expected %q, got %q", tt.existing, tt.want, c.Serialize())
		}
		if c.Cursor() != (Cursor{Row: tt.row}) {
			t.Errorf("from %q: expected cursor row %d, got %v", tt.existing, tt.row, c.Cursor())
		}
	}
}

func TestInitialize_DateInBodyIsNotAHeading(t *testing.T) {
	store := &memStore{text: "# 10/14/2026\nplan for 10/15/2026\n", exists: true}
	c := newTestController(t, store, DefaultOptions())

	if !HasHeading(c.Serialize(), "10/15/2026") {
		t.Errorf("expected today's heading to be added, got %q", c.Serialize())
	}
}

func TestInitialize_RestartsKeepOneHeading(t *testing.T) {
	store := &memStore{}

	var last string
	for i := 0; i < 3; i++ {
		c := newTestController(t, store, DefaultOptions())
		if err := c.Quit(); err != nil {
			t.Fatalf("quit: %v", err)
		}
		if i > 0 && store.text != last {
			t.Errorf("session %d changed the file: %q -> %q", i, last, store.text)
		}
		last = store.text
	}

	count := 0
	for _, h := range FindHeadings(store.text) {
		if h.Label == "10/15/2026" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one heading for today, got %d in %q", count, store.text)
	}
}

func TestInitialize_LoadError(t *testing.T) {
	store := &memStore{err: errors.New("permission denied")}
	c := NewController(store, DefaultOptions())
	c.SetClock(fixedClock)

	if err := c.Initialize(); err == nil {
		t.Fatal("expected load error")
	}
	if c.State() != StateUninitialized {
		t.Errorf("expected uninitialized state, got %s", c.State())
	}
}

func TestConfirmCreate(t *testing.T) {
	opts := DefaultOptions()
	opts.ConfirmCreate = true

	store := &memStore{}
	c := newTestController(t, store, opts)
	if c.State() != StateConfirmCreate {
		t.Fatalf("expected confirm state, got %s", c.State())
	}
	if r := c.HandleChar('('); r.Suppress {
		t.Error("expected handlers to be inert while confirming")
	}

	c.ConfirmCreate(true)
	if c.State() != StateEditing {
		t.Fatalf("expected editing state, got %s", c.State())
	}
	if c.Serialize() != "# 10/15/2026\n\n" {
		t.Errorf("unexpected buffer %q", c.Serialize())
	}
}

func TestConfirmCreate_Declined(t *testing.T) {
	opts := DefaultOptions()
	opts.ConfirmCreate = true

	store := &memStore{}
	c := newTestController(t, store, opts)
	c.ConfirmCreate(false)

	if c.State() != StateTerminated {
		t.Fatalf("expected terminated state, got %s", c.State())
	}
	if err := c.Quit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.saves != 0 || store.exists {
		t.Error("expected declined session to leave the file alone")
	}
}

func TestHandleChar_AutoPair(t *testing.T) {
	tests := []struct {
		name     string
		r        rune
		opts     Options
		suppress bool
		want     string
		col      int
	}{
		{"paren", '(', DefaultOptions(), true, "note()", 5},
		{"bracket", '[', DefaultOptions(), true, "note[]", 5},
		{"bracket disabled", '[', Options{AutoPairParens: true}, false, "note", 4},
		{"paren disabled", '(', Options{AutoPairBrackets: true}, false, "note", 4},
		{"plain char", 'x', DefaultOptions(), false, "note", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{text: "# 10/15/2026\nnote", exists: true}
			c := newTestController(t, store, tt.opts)
			c.doc.SetCursor(Cursor{Row: 1, Col: 4})

			r := c.HandleChar(tt.r)
			if r.Suppress != tt.suppress {
				t.Errorf("expected suppress %v, got %v", tt.suppress, r.Suppress)
			}
			if c.doc.Line(1) != tt.want {
				t.Errorf("expected line %q, got %q", tt.want, c.doc.Line(1))
			}
			if c.Cursor().Col != tt.col {
				t.Errorf("expected column %d, got %d", tt.col, c.Cursor().Col)
			}
		})
	}
}

func TestHandleChar_ParenMidLine(t *testing.T) {
	store := &memStore{text: "# 10/15/2026\nab", exists: true}
	c := newTestController(t, store, DefaultOptions())
	c.doc.SetCursor(Cursor{Row: 1, Col: 1})

	c.HandleChar('(')

	if c.doc.Line(1) != "a()b" {
		t.Errorf("expected %q, got %q", "a()b", c.doc.Line(1))
	}
	if c.Cursor() != (Cursor{Row: 1, Col: 2}) {
		t.Errorf("expected cursor between the pair, got %v", c.Cursor())
	}
}

func TestHandleEnter_ContinuesBullet(t *testing.T) {
	store := &memStore{text: "# 10/15/2026\n- buy milk", exists: true}
	c := newTestController(t, store, DefaultOptions())
	c.doc.SetCursor(Cursor{Row: 1, Col: len("- buy milk")})

	r := c.HandleEnter()
	if !r.Suppress {
		t.Fatal("expected enter to be suppressed on a bullet line")
	}
	if c.doc.Line(2) != "- " {
		t.Errorf("expected new line %q, got %q", "- ", c.doc.Line(2))
	}
	if c.Cursor() != (Cursor{Row: 2, Col: 2}) {
		t.Errorf("expected cursor {2 2}, got %v", c.Cursor())
	}
}

func TestHandleEnter_Variants(t *testing.T) {
	tests := []struct {
		line     string
		ceiling  int
		suppress bool
	}{
		{"- item", 0, true},
		{"   - indented", 0, true},
		{"-", 0, true},
		{"plain text", 0, false},
		{"1. ordered", 0, false},
		{"", 0, false},
		{"      - past the ceiling", 3, false},
	}

	for _, tt := range tests {
		opts := DefaultOptions()
		opts.LineCeiling = tt.ceiling

		store := &memStore{text: "# 10/15/2026\n" + tt.line, exists: true}
		c := newTestController(t, store, opts)
		c.doc.SetCursor(Cursor{Row: 1, Col: len(tt.line)})
		before := c.Serialize()

		r := c.HandleEnter()
		if r.Suppress != tt.suppress {
			t.Errorf("line %q: expected suppress %v, got %v", tt.line, tt.suppress, r.Suppress)
		}
		if !tt.suppress && c.Serialize() != before {
			t.Errorf("line %q: expected buffer untouched, got %q", tt.line, c.Serialize())
		}
	}
}

func TestHandleEnter_OnlyCursorLine(t *testing.T) {
	store := &memStore{text: "# 10/15/2026\n- bullet\nafter", exists: true}
	c := newTestController(t, store, DefaultOptions())
	c.doc.SetCursor(Cursor{Row: 2, Col: 5})

	if r := c.HandleEnter(); r.Suppress {
		t.Error("expected the previous line's bullet to be ignored")
	}
}

func TestTogglePreview(t *testing.T) {
	c := newTestController(t, &memStore{}, DefaultOptions())

	state, err := c.TogglePreview()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StatePreview {
		t.Fatalf("expected preview state, got %s", state)
	}
	if r := c.HandleChar('('); r.Suppress {
		t.Error("expected preview to be read-only")
	}

	state, _ = c.TogglePreview()
	if state != StateEditing {
		t.Errorf("expected editing state, got %s", state)
	}
}

func TestTogglePreview_Disabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Preview = false
	c := newTestController(t, &memStore{}, opts)

	if _, err := c.TogglePreview(); !errors.Is(err, ErrPreviewDisabled) {
		t.Errorf("expected ErrPreviewDisabled, got %v", err)
	}
	if c.State() != StateEditing {
		t.Errorf("expected editing state, got %s", c.State())
	}
}

func TestQuit_WritesBuffer(t *testing.T) {
	store := &memStore{text: "# 10/15/2026\n", exists: true}
	c := newTestController(t, store, DefaultOptions())

	if err := c.InsertText("- naïve café "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.HandleChar('(')
	c.InsertText("ok")

	if err := c.Quit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.text != c.Serialize() {
		t.Errorf("expected file %q, got %q", c.Serialize(), store.text)
	}
	if !strings.HasSuffix(store.text, "- naïve café (ok)") {
		t.Errorf("unexpected file content %q", store.text)
	}
	if c.State() != StateTerminated {
		t.Errorf("expected terminated state, got %s", c.State())
	}
	if err := c.InsertText("late"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing after quit, got %v", err)
	}
}

func TestQuit_FromPreview(t *testing.T) {
	store := &memStore{}
	c := newTestController(t, store, DefaultOptions())
	c.TogglePreview()

	if err := c.Quit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("expected one write, got %d", store.saves)
	}
}

func TestQuit_WriteError(t *testing.T) {
	store := &memStore{}
	c := newTestController(t, store, DefaultOptions())
	store.err = errors.New("disk full")

	if err := c.Quit(); err == nil {
		t.Fatal("expected write error")
	}
	if c.State() != StateEditing {
		t.Errorf("expected state unchanged after failed write, got %s", c.State())
	}
}

func TestSyncAndJump(t *testing.T) {
	c := newTestController(t, &memStore{}, DefaultOptions())

	c.Sync("# 10/14/2026\n- a\n# 10/15/2026\n- b", Cursor{Row: 3, Col: 3})
	if c.Cursor() != (Cursor{Row: 3, Col: 3}) {
		t.Errorf("expected synced cursor, got %v", c.Cursor())
	}

	headings := c.Headings()
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}

	c.JumpTo(headings[0].Line)
	if c.Cursor() != (Cursor{Row: 1, Col: 0}) {
		t.Errorf("expected cursor {1 0}, got %v", c.Cursor())
	}
}

func TestSyncRendered_KeepsUneditedLines(t *testing.T) {
	store := &memStore{text: "# 10/15/2026\n\t- nested\n", exists: true}
	c := newTestController(t, store, DefaultOptions())

	shown, cursor := c.Rendered(expandTabs)
	if shown != "# 10/15/2026\n    - nested\n" {
		t.Fatalf("unexpected rendering %q", shown)
	}

	// The host typed "x" on the empty last line
	c.SyncRendered(shown+"x", Cursor{Row: cursor.Row, Col: 1}, expandTabs)

	if c.Serialize() != "# 10/15/2026\n\t- nested\nx" {
		t.Errorf("expected tab preserved, got %q", c.Serialize())
	}
	if c.Cursor() != (Cursor{Row: 2, Col: 1}) {
		t.Errorf("expected cursor {2 1}, got %v", c.Cursor())
	}

	// Cursor after the tab on the nested line maps back to rune columns
	c.SyncRendered(shown+"x", Cursor{Row: 1, Col: 6}, expandTabs)
	if c.Cursor() != (Cursor{Row: 1, Col: 3}) {
		t.Errorf("expected cursor {1 3}, got %v", c.Cursor())
	}
}
