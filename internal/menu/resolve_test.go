package menu

import (
	"testing"

	"github.com/vladelaina/Catime/internal/models"
)

func TestResolve_RoundTripEveryLeaf(t *testing.T) {
	records := []models.FontRecord{
		rec("b.ttf", 0),
		rec("a/c.ttf", 1),
		rec("a/d.ttf", 1),
		rec("nerd/mono/Hack 2.ttf", 2),
		rec("nerd/mono/Hack 10.ttf", 2),
		rec("Zed Mono.otf", 0),
	}

	root, next := Build(records, models.System())
	leaves := root.Leaves()
	if len(leaves) != len(records) {
		t.Fatalf("leaves = %d, want %d", len(leaves), len(records))
	}
	if next != BaseID+len(records) {
		t.Fatalf("nextID = %d, want %d", next, BaseID+len(records))
	}

	// Every issued id must resolve back to a record whose display name
	// matches the leaf it was issued for.
	byPath := make(map[string]models.FontRecord, len(records))
	for _, r := range records {
		byPath[r.RelativePath] = r
	}
	for _, leaf := range leaves {
		rel, ok := Resolve(records, leaf.ID)
		if !ok {
			t.Fatalf("id %d did not resolve", leaf.ID)
		}
		if byPath[rel].DisplayName != leaf.Name {
			t.Errorf("id %d resolved to %q, leaf is %q", leaf.ID, rel, leaf.Name)
		}
	}
}

func TestResolve_EnumerationOrderIrrelevant(t *testing.T) {
	a := []models.FontRecord{rec("b.ttf", 0), rec("a/c.ttf", 1), rec("a/d.ttf", 1)}
	b := []models.FontRecord{a[2], a[0], a[1]}

	for id := BaseID; id < BaseID+3; id++ {
		relA, okA := Resolve(a, id)
		relB, okB := Resolve(b, id)
		if !okA || !okB || relA != relB {
			t.Errorf("id %d: %q/%v vs %q/%v", id, relA, okA, relB, okB)
		}
	}
}

func TestResolve_StaleIdentifierMisses(t *testing.T) {
	records := []models.FontRecord{rec("only.ttf", 0)}

	if _, ok := Resolve(records, BaseID+5); ok {
		t.Error("out-of-range id should not resolve")
	}
	if _, ok := Resolve(records, BaseID-1); ok {
		t.Error("id below base should not resolve")
	}
	if _, ok := Resolve(nil, BaseID); ok {
		t.Error("empty snapshot should resolve nothing")
	}
}
