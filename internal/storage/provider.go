package storage

import (
	"io/fs"

	"github.com/vladelaina/Catime/internal/models"
)

// Provider abstracts access to the managed fonts root so the cache and
// service layers can be tested against fakes.
type Provider interface {
	Root() string
	ScanFonts(currentRel string) ([]models.FontRecord, error)
	Exists(rel string) bool
	ExtractBundled(src fs.FS) (int, error)
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
