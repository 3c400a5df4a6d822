// Package fontpath canonicalizes configured font references.
//
// The current-font setting is a single string that historically carried
// several shapes: a managed-folder path with a marker prefix, a plain
// relative path, an absolute OS path, or a bare file name. Normalize folds
// all of them into one comparable FontRef.
package fontpath

import (
	"strings"

	"github.com/vladelaina/Catime/internal/menu"
	"github.com/vladelaina/Catime/internal/models"
)

// DefaultMarkerPrefix is the marker the configuration layer prepends to a
// managed-folder relative path when persisting the current-font setting.
const DefaultMarkerPrefix = `%LOCALAPPDATA%\Catime\resources\fonts\`

// IsManagedPath reports whether raw carries the managed-folder marker
// prefix. The match is case-insensitive, like the setting it guards.
func IsManagedPath(raw, marker string) bool {
	return len(raw) >= len(marker) && strings.EqualFold(raw[:len(marker)], marker)
}

// ExtractRelative strips the marker prefix and returns the slash-separated
// relative path. ok is false when raw does not carry the marker.
func ExtractRelative(raw, marker string) (rel string, ok bool) {
	if !IsManagedPath(raw, marker) {
		return "", false
	}
	return toRelative(raw[len(marker):]), true
}

// BuildConfigPath is the inverse of ExtractRelative: it prepends the
// marker to a relative path, using the marker's own separator style.
func BuildConfigPath(rel, marker string) string {
	if strings.ContainsRune(marker, '\\') {
		rel = strings.ReplaceAll(rel, "/", `\`)
	}
	return marker + rel
}

// Normalize canonicalizes a raw font reference. Rules apply in order:
//
//  1. A marker prefix identifies a managed path; strip it.
//  2. No drive/volume separator but a folder separator present: already a
//     managed-relative path. This must run before rule 3 — an absolute
//     check first would misclassify relative custom-folder paths.
//  3. A drive/volume separator (or rooted path) is a system font, the OS
//     font folder included.
//  4. A bare file name is searched in the snapshot by exact file-name
//     match; multiple hits prefer the shortest relative path, equal
//     lengths the first in canonical sort order. No hit degrades to a
//     system reference, never an error.
func Normalize(raw, marker string, records []models.FontRecord) models.FontRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.System()
	}

	if rel, ok := ExtractRelative(raw, marker); ok {
		return models.Managed(rel)
	}

	abs := isAbsoluteRef(raw)
	if !abs && strings.ContainsAny(raw, `/\`) {
		return models.Managed(toRelative(raw))
	}
	if abs {
		return models.System()
	}

	if rel, ok := searchByName(raw, records); ok {
		return models.Managed(rel)
	}
	return models.System()
}

// isAbsoluteRef detects references that can only live outside the managed
// root: Windows drive paths, UNC paths, and rooted paths on either
// separator convention.
func isAbsoluteRef(raw string) bool {
	if len(raw) >= 2 && raw[1] == ':' && isDriveLetter(raw[0]) {
		return true
	}
	return strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, `\`)
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// searchByName finds records whose file name equals name exactly
// (case-insensitive, never a substring match). Ties on path length break
// to the canonical sort order.
func searchByName(name string, records []models.FontRecord) (string, bool) {
	best := ""
	for _, rec := range records {
		base := rec.RelativePath
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		if !strings.EqualFold(base, name) {
			continue
		}
		if best == "" || better(rec.RelativePath, best) {
			best = rec.RelativePath
		}
	}
	return best, best != ""
}

func better(candidate, best string) bool {
	if len(candidate) != len(best) {
		return len(candidate) < len(best)
	}
	return menu.ComparePaths(candidate, best) < 0
}

// toRelative folds separators to slashes and drops a leading "./".
func toRelative(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
