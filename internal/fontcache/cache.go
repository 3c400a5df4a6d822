// Package fontcache holds the in-memory snapshot of the managed fonts
// folder. Readers always get an immediate answer from the last completed
// scan; scanning happens on a background worker and never blocks a menu
// build or an id lookup.
package fontcache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vladelaina/Catime/internal/models"
)

// DefaultTTL is how long a completed scan is served as fresh before
// readers start triggering background refreshes.
const DefaultTTL = 60 * time.Second

// State describes what the snapshot a reader just received represents.
type State int

const (
	// StateEmpty means no scan has ever completed; the snapshot is empty.
	StateEmpty State = iota
	// StateFresh means the snapshot completed within the TTL.
	StateFresh
	// StateStale means the snapshot is usable but a refresh is due.
	StateStale
	// StateScanning means a scan is in flight; the snapshot is the
	// previous one (possibly empty).
	StateScanning
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateScanning:
		return "scanning"
	default:
		return "unknown"
	}
}

// Scanner produces a fresh enumeration of the fonts root. Records carry
// the IsCurrent tag for currentRel already applied.
type Scanner interface {
	ScanFonts(currentRel string) ([]models.FontRecord, error)
}

// Persister receives every successfully completed snapshot. Persistence
// failures are logged, never surfaced to readers.
type Persister interface {
	SaveSnapshot(records []models.FontRecord, generatedAt time.Time) error
}

// Options configures optional cache behavior. Zero values pick defaults.
type Options struct {
	TTL        time.Duration
	Persister  Persister
	OnSnapshot func(records []models.FontRecord) // called after each successful install
	Now        func() time.Time                  // test hook
}

// Cache is safe for concurrent use.
type Cache struct {
	scanner    Scanner
	persist    Persister
	onSnapshot func(records []models.FontRecord)
	ttl        time.Duration
	now        func() time.Time
	logger     *slog.Logger

	mu          sync.RWMutex
	records     []models.FontRecord
	generatedAt time.Time
	hasSnapshot bool
	seeded      bool // snapshot came from disk, serve as stale until rescanned
	scanning    int

	refreshCh chan struct{}
}

// New creates a cache with no snapshot. The first reader sees StateEmpty
// until Scan or Seed installs one.
func New(scanner Scanner, logger *slog.Logger, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		scanner:    scanner,
		persist:    opts.Persister,
		onSnapshot: opts.OnSnapshot,
		ttl:        opts.TTL,
		now:        opts.Now,
		logger:     logger,
		refreshCh:  make(chan struct{}, 1),
	}
}

// Seed installs a snapshot recovered from persistence. It is served as
// stale regardless of age, so readers get a usable menu immediately while
// the first real scan is triggered in the background.
func (c *Cache) Seed(records []models.FontRecord, generatedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.generatedAt = generatedAt
	c.hasSnapshot = true
	c.seeded = true
}

// GetEntries returns a copy of the current snapshot and its state. It
// never blocks on scanning. A stale read enqueues a background refresh.
func (c *Cache) GetEntries() ([]models.FontRecord, State) {
	c.mu.RLock()
	records := make([]models.FontRecord, len(c.records))
	copy(records, c.records)
	state := c.stateLocked()
	c.mu.RUnlock()

	if state == StateStale {
		c.RequestRefresh()
	}
	return records, state
}

// stateLocked computes the snapshot state. Callers hold c.mu.
func (c *Cache) stateLocked() State {
	switch {
	case c.scanning > 0:
		return StateScanning
	case !c.hasSnapshot:
		return StateEmpty
	case c.seeded:
		return StateStale
	case c.now().Sub(c.generatedAt) <= c.ttl:
		return StateFresh
	default:
		return StateStale
	}
}

// State reports the snapshot state without copying records.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked()
}

// RequestRefresh asks the worker for a rescan. Requests arriving while a
// scan is in flight collapse into at most one follow-up scan.
func (c *Cache) RequestRefresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// Run processes refresh requests until ctx is cancelled. Exactly one Run
// loop should be active per cache.
func (c *Cache) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.refreshCh:
			if err := c.Scan(); err != nil {
				c.logger.Warn("fontcache: background scan failed",
					slog.String("error", err.Error()))
			}
		}
	}
}

// Scan enumerates the fonts root synchronously and installs the result.
// On failure the previous snapshot is kept; an empty snapshot is
// installed only when none exists, so readers stop seeing StateEmpty
// forever on a broken root.
func (c *Cache) Scan() error {
	c.mu.Lock()
	c.scanning++
	currentRel := c.currentRelLocked()
	c.mu.Unlock()

	records, err := c.scanner.ScanFonts(currentRel)
	generatedAt := c.now()

	c.mu.Lock()
	c.scanning--
	if err != nil {
		if !c.hasSnapshot {
			c.records = nil
			c.generatedAt = generatedAt
			c.hasSnapshot = true
		}
		c.mu.Unlock()
		return err
	}
	c.records = records
	c.generatedAt = generatedAt
	c.hasSnapshot = true
	c.seeded = false
	c.mu.Unlock()

	c.logger.Info("fontcache: snapshot installed",
		slog.Int("fonts", len(records)))

	if c.persist != nil {
		if perr := c.persist.SaveSnapshot(records, generatedAt); perr != nil {
			c.logger.Warn("fontcache: persist snapshot failed",
				slog.String("error", perr.Error()))
		}
	}
	if c.onSnapshot != nil {
		c.onSnapshot(records)
	}
	return nil
}

// UpdateCurrent retags the snapshot in place for a new selection without
// a rescan. An empty path clears every tag.
func (c *Cache) UpdateCurrent(relativePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		c.records[i].IsCurrent = relativePath != "" &&
			strings.EqualFold(c.records[i].RelativePath, relativePath)
	}
}

// currentRelLocked finds the tagged record so a rescan preserves the
// selection. Callers hold c.mu.
func (c *Cache) currentRelLocked() string {
	for _, r := range c.records {
		if r.IsCurrent {
			return r.RelativePath
		}
	}
	return ""
}
