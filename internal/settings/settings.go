// Package settings owns the single mutable piece of user state: the
// currently selected font, stored in config-path form. The value is kept
// in memory and persisted atomically so a crash never leaves a torn file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

type state struct {
	CurrentFont string `json:"current_font"`
}

// Service loads and persists the current-font selection.
type Service struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
	st state
}

// New creates a service backed by the given state file. A missing file is
// not an error; the selection starts empty.
func New(path string, logger *slog.Logger) (*Service, error) {
	s := &Service{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read state: %w", err)
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		// A corrupt state file should not prevent startup.
		logger.Warn("settings: discarding unreadable state file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		s.st = state{}
	}
	return s, nil
}

// CurrentFont returns the persisted selection in config-path form, or ""
// when no font has been selected.
func (s *Service) CurrentFont() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CurrentFont
}

// SetCurrentFont updates the selection and persists it. The in-memory
// value only changes once the write succeeds.
func (s *Service) SetCurrentFont(configPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	next.CurrentFont = configPath
	if err := s.persist(next); err != nil {
		return err
	}
	s.st = next
	return nil
}

// persist writes the state via a temp file and rename, fsyncing before
// the swap. Callers must hold s.mu.
func (s *Service) persist(st state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("settings: create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catime-settings-*")
	if err != nil {
		return fmt.Errorf("settings: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("settings: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("settings: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("settings: replace state file: %w", err)
	}
	return nil
}
