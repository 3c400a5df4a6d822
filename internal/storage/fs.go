// Package storage provides file-system access to the managed fonts root:
// the bounded recursive scan that feeds the cache, and the bundled-font
// extraction used as remediation when a scan comes back empty.
package storage

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vladelaina/Catime/internal/models"
)

// Default scan limits, matching the original desktop build.
const (
	DefaultMaxDepth   = 10
	DefaultMaxEntries = 1024
)

// DefaultExtensions is the allow-list of selectable font files.
var DefaultExtensions = []string{".ttf", ".otf"}

// Limits bounds a single scan of the fonts root.
type Limits struct {
	// MaxDepth is the deepest directory level entered; the root is
	// level 0. Deeper directories are skipped with a warning.
	MaxDepth int

	// MaxEntries caps the number of records one scan may produce.
	// Further files are dropped with a warning, never an error.
	MaxEntries int

	// Extensions is the case-insensitive allow-list (with leading dot).
	Extensions []string
}

// DefaultLimits returns the limits used when the configuration leaves
// them unset.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:   DefaultMaxDepth,
		MaxEntries: DefaultMaxEntries,
		Extensions: DefaultExtensions,
	}
}

// FS provides access to the managed fonts root on the local file system.
// The root does not have to exist: a missing root simply scans to zero
// records, and remediation (extracting bundled fonts) is the caller's
// decision.
type FS struct {
	root   string // absolute path to the fonts root
	limits Limits
	exts   map[string]bool
	logger *slog.Logger
}

// NewFS creates a provider rooted at the given directory.
func NewFS(root string, limits Limits, logger *slog.Logger) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	if limits.MaxEntries <= 0 {
		limits.MaxEntries = DefaultMaxEntries
	}
	if len(limits.Extensions) == 0 {
		limits.Extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(limits.Extensions))
	for _, e := range limits.Extensions {
		exts[strings.ToLower(e)] = true
	}
	return &FS{root: abs, limits: limits, exts: exts, logger: logger}, nil
}

// Root returns the absolute fonts root path.
func (f *FS) Root() string {
	return f.root
}

// Extensions returns the effective allow-list after defaulting. Anything
// watching the root for font changes must filter with this exact list, or
// a config leaving extensions unset would scan with defaults while the
// watcher ignores every event.
func (f *FS) Extensions() []string {
	return f.limits.Extensions
}

// safePath resolves a relative path against the fonts root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes fonts root: %s", rel)
	}
	return abs, nil
}

// Exists reports whether a managed relative path currently points at a
// regular file.
func (f *FS) Exists(rel string) bool {
	abs, err := f.safePath(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// dirFrame is one pending directory of the scan worklist.
type dirFrame struct {
	abs   string
	rel   string // slash-separated, "" for the root
	depth int
}

// ScanFonts walks the fonts root and returns a record for every allowed
// font file, unsorted. currentRel, when non-empty, tags the matching
// record as current during the walk.
//
// Per-entry failures are skipped and the walk continues; only an
// unreadable root is reported as an error, and even then the record list
// is empty rather than partial. Depth overflow and the entry cap are
// warnings, never errors.
func (f *FS) ScanFonts(currentRel string) ([]models.FontRecord, error) {
	if _, err := os.Stat(f.root); err != nil {
		f.logger.Warn("scan: fonts root unavailable",
			slog.String("root", f.root),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("storage: fonts root: %w", err)
	}

	var records []models.FontRecord
	capped := false

	// Explicit worklist instead of call-stack recursion, so pathological
	// nesting cannot exhaust the stack.
	work := []dirFrame{{abs: f.root, rel: "", depth: 0}}

	for len(work) > 0 {
		frame := work[len(work)-1]
		work = work[:len(work)-1]

		entries, err := os.ReadDir(frame.abs)
		if err != nil {
			if frame.rel == "" {
				f.logger.Warn("scan: fonts root unreadable",
					slog.String("root", f.root),
					slog.String("error", err.Error()))
				return nil, fmt.Errorf("storage: read fonts root: %w", err)
			}
			f.logger.Warn("scan: skipping unreadable directory",
				slog.String("path", frame.rel),
				slog.String("error", err.Error()))
			continue
		}

		for _, entry := range entries {
			rel := entry.Name()
			if frame.rel != "" {
				rel = frame.rel + "/" + entry.Name()
			}

			if entry.IsDir() {
				if frame.depth+1 >= f.limits.MaxDepth {
					f.logger.Warn("scan: max depth reached, not descending",
						slog.String("path", rel),
						slog.Int("max_depth", f.limits.MaxDepth))
					continue
				}
				work = append(work, dirFrame{
					abs:   filepath.Join(frame.abs, entry.Name()),
					rel:   rel,
					depth: frame.depth + 1,
				})
				continue
			}

			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if !f.exts[ext] {
				continue
			}

			if len(records) >= f.limits.MaxEntries {
				if !capped {
					f.logger.Warn("scan: entry cap reached, dropping further fonts",
						slog.Int("max_entries", f.limits.MaxEntries))
					capped = true
				}
				continue
			}

			records = append(records, models.FontRecord{
				RelativePath: rel,
				DisplayName:  strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
				Depth:        frame.depth,
				IsCurrent:    currentRel != "" && strings.EqualFold(rel, currentRel),
			})
		}
	}

	return records, nil
}

// ExtractBundled copies every allowed font file from src into the fonts
// root, creating it if needed. Existing files are overwritten. This is
// the remediation hook for a scan that found nothing: the original
// desktop build ships a set of fonts and unpacks them on first run.
//
// Returns the number of files written. Per-file failures are logged and
// skipped.
func (f *FS) ExtractBundled(src fs.FS) (int, error) {
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return 0, fmt.Errorf("storage: create fonts root: %w", err)
	}

	var names []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		if f.exts[strings.ToLower(filepath.Ext(p))] {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storage: walk bundled fonts: %w", err)
	}
	sort.Strings(names)

	written := 0
	for _, name := range names {
		if err := f.extractOne(src, name); err != nil {
			f.logger.Warn("extract: skipping bundled font",
				slog.String("name", name),
				slog.String("error", err.Error()))
			continue
		}
		written++
	}
	return written, nil
}

// extractOne writes a single bundled file atomically: tmp → fsync → rename.
func (f *FS) extractOne(src fs.FS, name string) error {
	abs, err := f.safePath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	in, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("storage: open bundled: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".catime-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return fmt.Errorf("storage: copy bundled: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
