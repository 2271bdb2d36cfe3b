package list

import (
	"testing"

	"github.com/anlar/tewi-sub001/internal/transmission"
)

func TestSearchScenario(t *testing.T) {
	e := New(4)
	e.SetTorrents(registry("Alpha", "Bravo", "Charlie", "Bingo"))
	e.MoveTop() // Alpha

	e.Search("b")
	if got := selectedName(t, e); got != "Bravo" {
		t.Fatalf("first match = %s, want Bravo", got)
	}

	e.SearchNext()
	if got := selectedName(t, e); got != "Bingo" {
		t.Fatalf("second match = %s, want Bingo", got)
	}

	e.SearchNext()
	if got := selectedName(t, e); got != "Bravo" {
		t.Fatalf("wraparound match = %s, want Bravo again", got)
	}
}

func TestSearchWraparoundVisitsEveryMatchOnce(t *testing.T) {
	names := []string{"miso", "oak", "mist", "pine", "misfit", "elm"}
	matching := map[string]bool{"miso": true, "mist": true, "misfit": true}

	// from every possible starting row, one full cycle of SearchNext hits
	// each matching name exactly once
	for start := 0; start < len(names); start++ {
		e := New(2)
		e.SetTorrents(registry(names...))
		e.MoveTop()
		for i := 0; i < start; i++ {
			e.MoveDown()
		}

		e.Search("mis")
		seen := map[string]int{selectedName(t, e): 1}
		for i := 1; i < len(matching); i++ {
			e.SearchNext()
			seen[selectedName(t, e)]++
		}

		for name := range matching {
			if seen[name] != 1 {
				t.Errorf("start=%d: %s visited %d times in one cycle, want 1", start, name, seen[name])
			}
		}
		for name := range seen {
			if !matching[name] {
				t.Errorf("start=%d: selected non-matching %s", start, name)
			}
		}
	}
}

func TestSearchBackwardMirrorsForward(t *testing.T) {
	e := New(10)
	e.SetTorrents(registry("red fox", "owl", "red deer", "bear", "red wolf"))
	e.MoveTop()
	e.MoveDown()
	e.MoveDown() // red deer (index 2)

	e.Search("red") // forward from index 3: red wolf
	if got := selectedName(t, e); got != "red wolf" {
		t.Fatalf("forward match = %s, want red wolf", got)
	}

	e.SearchPrevious() // backward from index 4: red deer
	if got := selectedName(t, e); got != "red deer" {
		t.Fatalf("backward match = %s, want red deer", got)
	}

	e.SearchPrevious()
	if got := selectedName(t, e); got != "red fox" {
		t.Fatalf("backward match = %s, want red fox", got)
	}

	e.SearchPrevious() // wraps to the high end
	if got := selectedName(t, e); got != "red wolf" {
		t.Fatalf("backward wraparound = %s, want red wolf", got)
	}
}

func TestSearchJumpSelectsExactMatch(t *testing.T) {
	e := New(2)
	e.SetTorrents(registry("Alpha", "Beta", "Gamma", "Delta", "Omega"))
	e.MoveTop()

	events := e.Search("omega")

	sel, ok := e.Selected()
	if !ok || sel.Name != "Omega" {
		t.Fatalf("selected = %+v ok=%v, want Omega", sel, ok)
	}
	// Omega has index 4, page floor(4/2)=2
	if cur, _ := e.Page(); cur != 2 {
		t.Errorf("page = %d, want 2", cur)
	}
	pcs := pageChanges(events)
	if len(pcs) != 1 || pcs[0].Current != 2 {
		t.Errorf("page change = %v, want jump to page 2", pcs)
	}
}

func TestSearchNoMatchLeavesStateUnchanged(t *testing.T) {
	e := New(2)
	e.SetTorrents(registry("Alpha", "Beta", "Gamma"))
	e.MoveTop()

	events := e.Search("zzz")

	ns := notices(events)
	if len(ns) != 1 || ns[0].Severity != SeverityInfo {
		t.Fatalf("want one informational notice, got %v", events)
	}
	if got := selectedName(t, e); got != "Alpha" {
		t.Errorf("selection = %s, want Alpha unchanged", got)
	}
	if cur, _ := e.Page(); cur != 0 {
		t.Errorf("page = %d, want 0 unchanged", cur)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	e := New(5)
	e.SetTorrents(registry("Ubuntu ISO", "debian"))

	e.Search("UBUNTU")
	if got := selectedName(t, e); got != "Ubuntu ISO" {
		t.Errorf("selected = %s, want Ubuntu ISO", got)
	}
}

func TestSearchBlankTermWarns(t *testing.T) {
	e := New(5)
	e.SetTorrents(registry("Alpha"))

	events := e.Search("   ")
	ns := notices(events)
	if len(ns) != 1 || ns[0].Severity != SeverityWarning {
		t.Fatalf("want a warning notice, got %v", events)
	}
	if _, active := e.SearchTerm(); active {
		t.Error("blank term must not activate search")
	}
}

func TestSearchNextWithoutActiveSearch(t *testing.T) {
	e := New(5)
	e.SetTorrents(registry("Alpha"))

	for _, events := range [][]Event{e.SearchNext(), e.SearchPrevious()} {
		ns := notices(events)
		if len(ns) != 1 || ns[0].Text != "No active search" {
			t.Errorf("want 'No active search' notice, got %v", events)
		}
	}
}

func TestSearchTermPersistsAcrossRefresh(t *testing.T) {
	e := New(2)
	e.SetTorrents(registry("Alpha", "Bravo", "Charlie"))
	e.MoveTop()

	e.Search("o")
	if got := selectedName(t, e); got != "Bravo" {
		t.Fatalf("match = %s, want Bravo", got)
	}

	// refresh with an extra torrent; the stored term still drives SearchNext
	e.SetTorrents(registry("Alpha", "Bravo", "Charlie", "Oscar"))
	e.SearchNext()
	if got := selectedName(t, e); got != "Oscar" {
		t.Errorf("match after refresh = %s, want Oscar", got)
	}
}

func TestResetSearch(t *testing.T) {
	e := New(5)
	e.SetTorrents(registry("Alpha"))
	e.Search("alp")

	e.ResetSearch()

	if term, active := e.SearchTerm(); term != "" || active {
		t.Errorf("after reset term=%q active=%v, want empty and inactive", term, active)
	}
	events := e.SearchNext()
	ns := notices(events)
	if len(ns) != 1 || ns[0].Text != "No active search" {
		t.Errorf("SearchNext after reset must notice, got %v", events)
	}
}

func TestSearchWithNoSelectionStartsFromTop(t *testing.T) {
	e := New(2)
	e.SetTorrents([]transmission.Torrent{
		{ID: 1, Name: "zeta"},
		{ID: 2, Name: "alpha"},
		{ID: 3, Name: "beta"},
	})

	e.Search("a")
	if got := selectedName(t, e); got != "zeta" {
		t.Errorf("first forward match = %s, want zeta (scan starts at index 0)", got)
	}
}
