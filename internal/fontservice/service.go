// Package fontservice coordinates the cache, settings, and menu layers
// behind one facade. Transports (HTTP, MCP) only talk to this package.
package fontservice

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/vladelaina/Catime/internal/apperr"
	"github.com/vladelaina/Catime/internal/fontcache"
	"github.com/vladelaina/Catime/internal/fontpath"
	"github.com/vladelaina/Catime/internal/menu"
	"github.com/vladelaina/Catime/internal/models"
)

// Settings owns the persisted current-font selection.
type Settings interface {
	CurrentFont() string
	SetCurrentFont(configPath string) error
}

// SelectionStore mirrors selection changes into snapshot persistence.
type SelectionStore interface {
	UpdateCurrent(relativePath string) error
}

// Extractor copies bundled fonts into the managed root.
type Extractor interface {
	ExtractBundled(src fs.FS) (int, error)
}

// Events receives selection notifications for connected clients.
type Events interface {
	PublishFontSelected(path string)
}

// Options carries the optional collaborators. Any nil field disables the
// corresponding side effect.
type Options struct {
	Selections SelectionStore
	Extractor  Extractor
	Bundled    fs.FS
	Events     Events
}

// Service is the single entry point for font menu operations.
type Service struct {
	cache    *fontcache.Cache
	settings Settings
	marker   string
	logger   *slog.Logger

	selections SelectionStore
	extractor  Extractor
	bundled    fs.FS
	events     Events

	remediateOnce sync.Once
}

// NewService creates the facade. marker is the config-path prefix that
// identifies managed fonts; empty picks the default.
func NewService(cache *fontcache.Cache, settings Settings, marker string, logger *slog.Logger, opts Options) *Service {
	if marker == "" {
		marker = fontpath.DefaultMarkerPrefix
	}
	return &Service{
		cache:      cache,
		settings:   settings,
		marker:     marker,
		logger:     logger,
		selections: opts.Selections,
		extractor:  opts.Extractor,
		bundled:    opts.Bundled,
		events:     opts.Events,
	}
}

// MarkerPrefix returns the config-path prefix for managed fonts.
func (s *Service) MarkerPrefix() string { return s.marker }

// ListFonts returns the snapshot in canonical order plus its state. The
// call never blocks on scanning.
func (s *Service) ListFonts(_ context.Context) ([]models.FontRecord, fontcache.State) {
	records, state := s.cache.GetEntries()
	return menu.SortRecords(records), state
}

// BuildMenu returns the menu tree for the current snapshot, with the
// current selection checked down the folder path.
//
// A first call before any scan does one synchronous scan so the user
// never sees an empty menu on a populated folder. If the scan still
// yields nothing and bundled fonts are available, they are extracted
// once per process followed by exactly one rescan.
func (s *Service) BuildMenu(ctx context.Context) (*models.MenuNode, error) {
	records, state := s.cache.GetEntries()

	if state == fontcache.StateEmpty {
		if err := s.cache.Scan(); err != nil {
			s.logger.Warn("fontservice: initial scan failed",
				slog.String("error", err.Error()))
		}
		records, _ = s.cache.GetEntries()
	}

	if len(records) == 0 {
		records = s.remediate(ctx, records)
	}

	current := fontpath.Normalize(s.settings.CurrentFont(), s.marker, records)
	root, _ := menu.Build(records, current)
	return root, nil
}

// remediate extracts bundled fonts into an empty root and rescans once.
// Both happen at most once per process; a still-empty result is final.
func (s *Service) remediate(_ context.Context, records []models.FontRecord) []models.FontRecord {
	if s.extractor == nil || s.bundled == nil {
		return records
	}
	s.remediateOnce.Do(func() {
		n, err := s.extractor.ExtractBundled(s.bundled)
		if err != nil {
			s.logger.Warn("fontservice: bundled extraction failed",
				slog.String("error", err.Error()))
			return
		}
		s.logger.Info("fontservice: extracted bundled fonts", slog.Int("fonts", n))
		if err := s.cache.Scan(); err != nil {
			s.logger.Warn("fontservice: rescan after extraction failed",
				slog.String("error", err.Error()))
		}
		records, _ = s.cache.GetEntries()
	})
	return records
}

// ResolvePath maps a menu identifier back to the config-path form of the
// font it was issued for, against the current snapshot. Identifiers from
// a menu built on an older snapshot may miss; that returns ErrNotFound,
// never a wrong font.
func (s *Service) ResolvePath(_ context.Context, id int) (string, error) {
	records, _ := s.cache.GetEntries()
	rel, ok := menu.Resolve(records, id)
	if !ok {
		return "", fmt.Errorf("fontservice: menu id %d: %w", id, apperr.ErrNotFound)
	}
	return fontpath.BuildConfigPath(rel, s.marker), nil
}

// SelectFont resolves a menu identifier and makes that font current. It
// returns the config-path form that was persisted.
func (s *Service) SelectFont(ctx context.Context, id int) (string, error) {
	configPath, err := s.ResolvePath(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.applySelection(configPath); err != nil {
		return "", err
	}
	return configPath, nil
}

// NotifyCurrentFontChanged records a selection made outside the menu (a
// config edit, another frontend). raw may be any accepted reference
// shape; managed references are persisted in canonical config-path form.
func (s *Service) NotifyCurrentFontChanged(_ context.Context, raw string) error {
	records, _ := s.cache.GetEntries()
	ref := fontpath.Normalize(raw, s.marker, records)

	configPath := raw
	if ref.Kind == models.ManagedFont {
		configPath = fontpath.BuildConfigPath(ref.RelativePath, s.marker)
	}
	return s.applySelection(configPath)
}

// applySelection persists the selection, retags the live snapshot and the
// stored one, and notifies clients. The settings write is the source of
// truth; everything after it is best-effort.
func (s *Service) applySelection(configPath string) error {
	if err := s.settings.SetCurrentFont(configPath); err != nil {
		return fmt.Errorf("fontservice: persist selection: %w", err)
	}

	rel, _ := fontpath.ExtractRelative(configPath, s.marker)
	s.cache.UpdateCurrent(rel)
	if s.selections != nil {
		if err := s.selections.UpdateCurrent(rel); err != nil {
			s.logger.Warn("fontservice: selection store update failed",
				slog.String("error", err.Error()))
		}
	}
	if s.events != nil {
		s.events.PublishFontSelected(configPath)
	}
	return nil
}

// RequestRefresh asks for a background rescan. It returns immediately;
// concurrent requests collapse into at most one queued scan.
func (s *Service) RequestRefresh(_ context.Context) {
	s.cache.RequestRefresh()
}
