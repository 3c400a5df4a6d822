// Package testutil provides shared test helpers for setting up fonts
// roots and snapshot stores.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vladelaina/Catime/internal/fontstore"
	"github.com/vladelaina/Catime/internal/storage"
)

// Logger returns a JSON logger that only surfaces errors, keeping test
// output readable.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestStore creates a temporary SQLite snapshot store that is
// automatically cleaned up.
func TestStore(t *testing.T) *fontstore.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "catime-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := fontstore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// FontsRoot creates a temporary fonts directory with a storage provider.
func FontsRoot(t *testing.T) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	fs, err := storage.NewFS(root, storage.Limits{}, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return root, fs
}

// WriteFont drops a stub font file at rel (slash-separated) under root.
func WriteFont(t *testing.T, root, rel string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
}
