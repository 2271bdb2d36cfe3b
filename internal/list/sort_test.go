package list

import (
	"testing"

	"github.com/anlar/tewi-sub001/internal/transmission"
)

func TestApplySortByName(t *testing.T) {
	torrents := []transmission.Torrent{
		{ID: 1, Name: "cherry"},
		{ID: 2, Name: "Apple"},
		{ID: 3, Name: "banana"},
	}

	order, ok := OrderByID("name")
	if !ok {
		t.Fatal("name order missing from catalog")
	}

	ApplySort(torrents, order, true)
	if torrents[0].Name != "Apple" || torrents[1].Name != "banana" || torrents[2].Name != "cherry" {
		t.Errorf("ascending name sort wrong: %v", names(torrents))
	}

	ApplySort(torrents, order, false)
	if torrents[0].Name != "cherry" || torrents[2].Name != "Apple" {
		t.Errorf("descending name sort wrong: %v", names(torrents))
	}
}

func TestApplySortIsStable(t *testing.T) {
	torrents := []transmission.Torrent{
		{ID: 1, Name: "a", TotalSize: 100},
		{ID: 2, Name: "b", TotalSize: 100},
		{ID: 3, Name: "c", TotalSize: 100},
	}

	order, _ := OrderByID("size")
	ApplySort(torrents, order, true)

	for i, want := range []int64{1, 2, 3} {
		if torrents[i].ID != want {
			t.Fatalf("equal keys must keep daemon order, got %v", torrents)
		}
	}
}

func TestOrderByIDUnknown(t *testing.T) {
	if _, ok := OrderByID("bogus"); ok {
		t.Error("unknown order id must not resolve")
	}
}

func TestOrderHotkeysAreUnique(t *testing.T) {
	seen := map[string]string{}
	for _, o := range Orders {
		for _, key := range []string{o.KeyAsc, o.KeyDesc} {
			if prev, dup := seen[key]; dup {
				t.Errorf("hotkey %q used by both %s and %s", key, prev, o.ID)
			}
			seen[key] = o.ID
		}
	}
}

func names(torrents []transmission.Torrent) []string {
	out := make([]string, len(torrents))
	for i, t := range torrents {
		out[i] = t.Name
	}
	return out
}
