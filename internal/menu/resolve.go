package menu

import (
	"github.com/vladelaina/Catime/internal/models"
)

// Resolve translates a previously issued menu identifier back to the
// relative path of its font, by re-deriving the exact assignment Build
// produced for the same snapshot: same comparator, same BaseID.
//
// An identifier issued against a different snapshot (for example after a
// rescan changed the directory tree) may miss or hit a different path;
// that staleness window is accepted because menus are rebuilt on every
// open. A miss returns ok=false, never an error.
func Resolve(records []models.FontRecord, id int) (relativePath string, ok bool) {
	if id < BaseID || id >= BaseID+len(records) {
		return "", false
	}
	rel, ok := AssignIDs(SortRecords(records))[id]
	return rel, ok
}
