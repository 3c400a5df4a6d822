package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func tempRoot(t *testing.T, limits Limits) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir, limits, testLogger())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f, dir
}

func writeFile(t *testing.T, dir, rel string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtensions_DefaultedWhenUnset(t *testing.T) {
	// A zero Limits scans with the default allow-list; Extensions must
	// report that same defaulted list so watchers filter consistently.
	f, _ := tempRoot(t, Limits{})
	got := f.Extensions()
	if len(got) != len(DefaultExtensions) {
		t.Fatalf("Extensions() = %v, want %v", got, DefaultExtensions)
	}
	for i, e := range DefaultExtensions {
		if got[i] != e {
			t.Errorf("Extensions()[%d] = %q, want %q", i, got[i], e)
		}
	}

	custom, _ := tempRoot(t, Limits{Extensions: []string{".woff2"}})
	if got := custom.Extensions(); len(got) != 1 || got[0] != ".woff2" {
		t.Errorf("custom Extensions() = %v, want [.woff2]", got)
	}
}

func TestScanFonts_FiltersAndDisplayName(t *testing.T) {
	f, dir := tempRoot(t, Limits{})
	writeFile(t, dir, "Wallpoet Essence.ttf")
	writeFile(t, dir, "nerd/Hack.OTF")
	writeFile(t, dir, "readme.txt")
	writeFile(t, dir, "nerd/license.md")

	records, err := f.ScanFonts("")
	if err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (extension allow-list)", len(records))
	}

	byPath := map[string]string{}
	depths := map[string]int{}
	for _, r := range records {
		byPath[r.RelativePath] = r.DisplayName
		depths[r.RelativePath] = r.Depth
	}
	if byPath["Wallpoet Essence.ttf"] != "Wallpoet Essence" {
		t.Errorf("display name = %q", byPath["Wallpoet Essence.ttf"])
	}
	if byPath["nerd/Hack.OTF"] != "Hack" {
		t.Errorf("display name = %q", byPath["nerd/Hack.OTF"])
	}
	if depths["Wallpoet Essence.ttf"] != 0 || depths["nerd/Hack.OTF"] != 1 {
		t.Errorf("depths = %v", depths)
	}
}

func TestScanFonts_CurrentTagging(t *testing.T) {
	f, dir := tempRoot(t, Limits{})
	writeFile(t, dir, "a.ttf")
	writeFile(t, dir, "sub/b.ttf")

	records, err := f.ScanFonts("SUB/B.TTF")
	if err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}
	for _, r := range records {
		want := r.RelativePath == "sub/b.ttf"
		if r.IsCurrent != want {
			t.Errorf("IsCurrent for %q = %v, want %v", r.RelativePath, r.IsCurrent, want)
		}
	}
}

func TestScanFonts_DepthBound(t *testing.T) {
	f, dir := tempRoot(t, Limits{MaxDepth: 2})
	writeFile(t, dir, "top.ttf")
	writeFile(t, dir, "d1/mid.ttf")
	writeFile(t, dir, "d1/d2/deep.ttf") // beyond MaxDepth=2, never entered

	records, err := f.ScanFonts("")
	if err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}
	for _, r := range records {
		if r.RelativePath == "d1/d2/deep.ttf" {
			t.Error("scan descended past max depth")
		}
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}
}

func TestScanFonts_EntryCap(t *testing.T) {
	f, dir := tempRoot(t, Limits{MaxEntries: 3})
	for _, name := range []string{"a.ttf", "b.ttf", "c.ttf", "d.ttf", "e.ttf"} {
		writeFile(t, dir, name)
	}

	records, err := f.ScanFonts("")
	if err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("records = %d, want 3 (cap)", len(records))
	}
}

func TestScanFonts_MissingRoot(t *testing.T) {
	f, err := NewFS(filepath.Join(t.TempDir(), "never-created"), Limits{}, testLogger())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	records, err := f.ScanFonts("")
	if err == nil {
		t.Error("missing root should report an error to the cache layer")
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}

func TestExists(t *testing.T) {
	f, dir := tempRoot(t, Limits{})
	writeFile(t, dir, "sub/x.ttf")

	if !f.Exists("sub/x.ttf") {
		t.Error("expected sub/x.ttf to exist")
	}
	if f.Exists("sub/y.ttf") {
		t.Error("sub/y.ttf should not exist")
	}
	if f.Exists("../outside.ttf") {
		t.Error("traversal should not resolve")
	}
}

func TestExtractBundled(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fonts")
	f, err := NewFS(root, Limits{}, testLogger())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	bundled := fstest.MapFS{
		"Wallpoet Essence.ttf": {Data: []byte("font-a")},
		"nerd/Hack.ttf":        {Data: []byte("font-b")},
		"LICENSE.txt":          {Data: []byte("not a font")},
	}

	n, err := f.ExtractBundled(bundled)
	if err != nil {
		t.Fatalf("ExtractBundled: %v", err)
	}
	if n != 2 {
		t.Errorf("written = %d, want 2", n)
	}

	records, err := f.ScanFonts("")
	if err != nil {
		t.Fatalf("ScanFonts after extract: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}

	// No leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(root, ".catime-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
