package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitialize_WritesToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	if err := Initialize(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Logger.Printf("hello from test")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("expected debug.log: %v", err)
	}
	if !strings.Contains(string(data), "[mdjournal] ") || !strings.Contains(string(data), "hello from test") {
		t.Errorf("unexpected log content %q", string(data))
	}
}

func TestInitialize_EmptyDirIsNoop(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if Logger == nil {
		t.Error("expected logger to stay usable")
	}
}
