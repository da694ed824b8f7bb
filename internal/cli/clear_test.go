package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/internal/snapshot"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := NewRootCommand("dev", "none", "unknown")

	want := []string{"ingest", "search", "ask", "chat", "watch", "status", "clear", "version"}
	have := make(map[string]bool)
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestClearCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, snapshot.IndexFile), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DOCSIFT_STORAGE_VECTOR_STORE_DIR", dir)

	cmd := newClearCommand()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("snapshot directory still present after clear")
	}

	// Idempotent on a missing directory.
	if err := cmd.Execute(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestClearCacheOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{snapshot.IndexFile, snapshot.ItemsFile, snapshot.QueryCacheFile} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	t.Setenv("DOCSIFT_STORAGE_VECTOR_STORE_DIR", dir)

	cmd := newClearCommand()
	cmd.SetArgs([]string{"--cache-only"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("clear --cache-only: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, snapshot.QueryCacheFile)); !os.IsNotExist(err) {
		t.Error("query cache still present")
	}
	for _, name := range []string{snapshot.IndexFile, snapshot.ItemsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s removed by --cache-only", name)
		}
	}
}
