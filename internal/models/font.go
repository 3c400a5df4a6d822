// Package models defines the domain types for the Catime font service.
package models

// FontRecord describes one font file found under the managed fonts root.
// Records are value types: every reader gets its own copy and may mutate
// it without affecting the cache.
type FontRecord struct {
	// RelativePath is the slash-separated path of the file relative to
	// the fonts root, e.g. "nerd/Hack Nerd Font.ttf". Unique within a
	// snapshot.
	RelativePath string `json:"relative_path"`

	// DisplayName is the file name with its extension stripped.
	DisplayName string `json:"display_name"`

	// Depth is the directory nesting level; 0 for files directly under
	// the root.
	Depth int `json:"depth"`

	// IsCurrent marks the record matching the configured current font.
	IsCurrent bool `json:"is_current"`
}

// FontRefKind distinguishes the two canonical forms of a font reference.
type FontRefKind int

const (
	// SystemFont means the reference points outside the managed fonts
	// root (an installed font, an OS font-folder path, or an unresolved
	// bare name).
	SystemFont FontRefKind = iota

	// ManagedFont means the reference resolves to a file under the
	// managed fonts root, identified by its relative path.
	ManagedFont
)

// FontRef is the canonical, comparable form of the current-font setting.
type FontRef struct {
	Kind FontRefKind

	// RelativePath is set only when Kind is ManagedFont.
	RelativePath string
}

// Managed builds a managed-font reference for the given relative path.
func Managed(rel string) FontRef {
	return FontRef{Kind: ManagedFont, RelativePath: rel}
}

// System is the canonical reference for any font outside the managed root.
func System() FontRef {
	return FontRef{Kind: SystemFont}
}

// MenuNode is one node of a synthesized font menu. Folder nodes carry
// ordered children; leaf nodes carry the issued identifier. The tree is
// rebuilt fresh for every menu open and owned by the caller.
type MenuNode struct {
	Name     string      `json:"name"`
	Children []*MenuNode `json:"children,omitempty"`

	// Leaf is true for font entries, false for folders.
	Leaf bool `json:"leaf"`

	// ID is the sequential menu identifier, valid only on leaves.
	ID int `json:"id,omitempty"`

	// Checked marks the current font on a leaf, and on a folder marks
	// that some descendant leaf is checked.
	Checked bool `json:"checked"`
}

// Child returns the direct child with the given name, or nil.
func (n *MenuNode) Child(name string) *MenuNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Leaves appends all leaf nodes under n, in menu order.
func (n *MenuNode) Leaves() []*MenuNode {
	var out []*MenuNode
	var walk func(*MenuNode)
	walk = func(m *MenuNode) {
		if m.Leaf {
			out = append(out, m)
			return
		}
		for _, c := range m.Children {
			walk(c)
		}
	}
	for _, c := range n.Children {
		walk(c)
	}
	return out
}
