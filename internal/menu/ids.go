package menu

import (
	"sort"

	"github.com/vladelaina/Catime/internal/models"
)

// BaseID is the first identifier handed out to a menu leaf. Identifiers
// grow sequentially in sort order from here; the same constant anchors
// both menu construction and resolution.
const BaseID = 2000

// SortRecords returns a copy of records ordered by the canonical menu key:
// ComparePaths on the relative path. Build and Resolve both start from
// this ordering, so equal snapshots always produce equal id assignments
// regardless of enumeration order.
func SortRecords(records []models.FontRecord) []models.FontRecord {
	sorted := make([]models.FontRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ComparePaths(sorted[i].RelativePath, sorted[j].RelativePath) < 0
	})
	return sorted
}

// AssignIDs maps each record of an already-sorted snapshot to its menu
// identifier, starting at BaseID. The i-th sorted record gets BaseID+i;
// nothing else about the records participates.
func AssignIDs(sorted []models.FontRecord) map[int]string {
	ids := make(map[int]string, len(sorted))
	for i, rec := range sorted {
		ids[BaseID+i] = rec.RelativePath
	}
	return ids
}
