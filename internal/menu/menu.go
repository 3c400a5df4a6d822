package menu

import (
	"strings"

	"github.com/vladelaina/Catime/internal/models"
)

// Build synthesizes the menu tree for a snapshot. Records are sorted by
// the canonical key, folder nodes are created on demand (and reused across
// siblings sharing a prefix), and each leaf receives the next sequential
// identifier from BaseID in strict global sort order — folders never
// regroup the numbering.
//
// The checked leaf is the record tagged IsCurrent, or failing that the one
// whose relative path equals current (for a managed reference). Every
// folder on the checked leaf's path is checked as well, so a folder is
// checked iff it is an ancestor of the checked leaf. A system reference
// with no tagged record checks nothing.
//
// The returned nextID is the first unissued identifier. An empty snapshot
// yields a childless root.
func Build(records []models.FontRecord, current models.FontRef) (root *models.MenuNode, nextID int) {
	sorted := SortRecords(records)

	selected := selectedIndex(sorted, current)

	// Folder prefixes that contain the selected leaf.
	checkedDirs := make(map[string]bool)
	if selected >= 0 {
		segs := strings.Split(sorted[selected].RelativePath, "/")
		for i := 1; i < len(segs); i++ {
			checkedDirs[strings.Join(segs[:i], "/")] = true
		}
	}

	root = &models.MenuNode{}
	id := BaseID

	for idx, rec := range sorted {
		segs := strings.Split(rec.RelativePath, "/")
		node := root
		for i, seg := range segs[:len(segs)-1] {
			prefix := strings.Join(segs[:i+1], "/")
			child := folderChild(node, seg)
			if child == nil {
				child = &models.MenuNode{Name: seg}
				node.Children = append(node.Children, child)
			}
			if checkedDirs[prefix] {
				child.Checked = true
			}
			node = child
		}

		node.Children = append(node.Children, &models.MenuNode{
			Name:    rec.DisplayName,
			Leaf:    true,
			ID:      id,
			Checked: idx == selected,
		})
		id++
	}

	return root, id
}

// folderChild finds the folder node named name among node's children.
// Leaves are skipped: a file and a folder can share a name at one level
// ("a.ttf" next to "a/"), and the walk must never mistake the leaf for
// the folder it is about to fill.
func folderChild(node *models.MenuNode, name string) *models.MenuNode {
	for _, c := range node.Children {
		if !c.Leaf && c.Name == name {
			return c
		}
	}
	return nil
}

// selectedIndex finds the record to check: the IsCurrent tag wins, then a
// path match against a managed reference. Returns -1 when nothing matches.
func selectedIndex(sorted []models.FontRecord, current models.FontRef) int {
	for i, rec := range sorted {
		if rec.IsCurrent {
			return i
		}
	}
	if current.Kind != models.ManagedFont {
		return -1
	}
	for i, rec := range sorted {
		if strings.EqualFold(rec.RelativePath, current.RelativePath) {
			return i
		}
	}
	return -1
}
