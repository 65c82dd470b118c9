package journal

import (
	"fmt"
	"os"
	"strings"
)

// Store reads and writes the persistent journal text
type Store interface {
	// Load returns the stored text. exists is false, with a nil error, when
	// nothing has been stored yet.
	Load() (text string, exists bool, err error)
	// Save overwrites the stored text
	Save(text string) error
	// Path describes where the text lives
	Path() string
}

// FileStore keeps the journal in a single markdown file. A file whose line
// endings are all CRLF is handed out with LF endings and written back with
// CRLF; any other mix of endings is passed through untouched.
type FileStore struct {
	path string
	crlf bool
}

// NewFileStore creates a store for the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading journal %s: %w", s.path, err)
	}
	text := string(data)
	s.crlf = usesCRLF(text)
	if s.crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return text, true, nil
}

// usesCRLF reports whether every line break in text is CRLF
func usesCRLF(text string) bool {
	lf := strings.Count(text, "\n")
	return lf > 0 && strings.Count(text, "\r\n") == lf
}

// Save truncates the file and writes text verbatim, restoring CRLF endings
// when the file had them.
func (s *FileStore) Save(text string) error {
	if s.crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if err := os.WriteFile(s.path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing journal %s: %w", s.path, err)
	}
	return nil
}
