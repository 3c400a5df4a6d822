package fontpath

import (
	"testing"

	"github.com/vladelaina/Catime/internal/models"
)

const marker = DefaultMarkerPrefix

func snapshot() []models.FontRecord {
	return []models.FontRecord{
		{RelativePath: "Wallpoet Essence.ttf", DisplayName: "Wallpoet Essence"},
		{RelativePath: "nerd/Hack Nerd Font.ttf", DisplayName: "Hack Nerd Font"},
		{RelativePath: "nerd/mono/Hack Nerd Font.ttf", DisplayName: "Hack Nerd Font"},
		{RelativePath: "b/Agave.otf", DisplayName: "Agave"},
		{RelativePath: "a/Agave.otf", DisplayName: "Agave"},
	}
}

func TestNormalize_MarkerPrefix(t *testing.T) {
	ref := Normalize(marker+`nerd\Hack Nerd Font.ttf`, marker, snapshot())
	if ref.Kind != models.ManagedFont || ref.RelativePath != "nerd/Hack Nerd Font.ttf" {
		t.Errorf("ref = %+v", ref)
	}
}

func TestNormalize_MarkerPrefixCaseInsensitive(t *testing.T) {
	raw := `%localappdata%\catime\resources\fonts\Wallpoet Essence.ttf`
	ref := Normalize(raw, marker, snapshot())
	if ref.Kind != models.ManagedFont || ref.RelativePath != "Wallpoet Essence.ttf" {
		t.Errorf("ref = %+v", ref)
	}
}

func TestNormalize_RelativePathBeforeAbsoluteCheck(t *testing.T) {
	// A relative path with a folder separator is managed; the order of
	// rules 2 and 3 is what keeps it out of the system bucket.
	for _, raw := range []string{"nerd/Hack Nerd Font.ttf", `nerd\Hack Nerd Font.ttf`} {
		ref := Normalize(raw, marker, snapshot())
		if ref.Kind != models.ManagedFont || ref.RelativePath != "nerd/Hack Nerd Font.ttf" {
			t.Errorf("Normalize(%q) = %+v", raw, ref)
		}
	}
}

func TestNormalize_AbsolutePathsAreSystem(t *testing.T) {
	cases := []string{
		`C:\Windows\Fonts\arial.ttf`,
		`c:\Windows\Fonts\arial.ttf`,
		"/usr/share/fonts/DejaVuSans.ttf",
		`\\server\share\font.ttf`,
	}
	for _, raw := range cases {
		if ref := Normalize(raw, marker, snapshot()); ref.Kind != models.SystemFont {
			t.Errorf("Normalize(%q) = %+v, want system", raw, ref)
		}
	}
}

func TestNormalize_BareNameExactMatch(t *testing.T) {
	ref := Normalize("Wallpoet Essence.ttf", marker, snapshot())
	if ref.Kind != models.ManagedFont || ref.RelativePath != "Wallpoet Essence.ttf" {
		t.Errorf("ref = %+v", ref)
	}

	// Exact match only — a prefix of a real file name resolves nothing.
	if ref := Normalize("Wallpoet", marker, snapshot()); ref.Kind != models.SystemFont {
		t.Errorf("substring should not match: %+v", ref)
	}
}

func TestNormalize_BareNameShortestPathWins(t *testing.T) {
	ref := Normalize("Hack Nerd Font.ttf", marker, snapshot())
	if ref.RelativePath != "nerd/Hack Nerd Font.ttf" {
		t.Errorf("ref = %+v, want shortest relative path", ref)
	}
}

func TestNormalize_BareNameEqualLengthTieBreak(t *testing.T) {
	// a/Agave.otf and b/Agave.otf tie on length; first in sort order wins.
	ref := Normalize("Agave.otf", marker, snapshot())
	if ref.RelativePath != "a/Agave.otf" {
		t.Errorf("ref = %+v, want a/Agave.otf", ref)
	}
}

func TestNormalize_BareNameNoMatchIsSystem(t *testing.T) {
	if ref := Normalize("Missing Font.ttf", marker, snapshot()); ref.Kind != models.SystemFont {
		t.Errorf("ref = %+v, want system", ref)
	}
}

func TestNormalize_EmptyIsSystem(t *testing.T) {
	if ref := Normalize("", marker, nil); ref.Kind != models.SystemFont {
		t.Error("empty reference should be system")
	}
}

func TestNormalize_IdempotentOverSnapshot(t *testing.T) {
	// Normalizing the prefixed full form of any snapshot path yields
	// exactly that path back.
	for _, rec := range snapshot() {
		raw := BuildConfigPath(rec.RelativePath, marker)
		ref := Normalize(raw, marker, snapshot())
		if ref.Kind != models.ManagedFont || ref.RelativePath != rec.RelativePath {
			t.Errorf("round trip of %q = %+v", rec.RelativePath, ref)
		}
	}
}

func TestExtractRelativeAndBuildConfigPath(t *testing.T) {
	raw := BuildConfigPath("nerd/Hack Nerd Font.ttf", marker)
	rel, ok := ExtractRelative(raw, marker)
	if !ok || rel != "nerd/Hack Nerd Font.ttf" {
		t.Errorf("rel = %q ok = %v", rel, ok)
	}
	if _, ok := ExtractRelative("something else", marker); ok {
		t.Error("non-marker path should not extract")
	}
}
