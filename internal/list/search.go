package list

import (
	"fmt"
	"strings"
)

// Search stores the term, activates search state, and jumps to the first
// name match after the cursor. The term persists across refreshes until a
// new search is issued.
func (e *Engine) Search(term string) []Event {
	if strings.TrimSpace(term) == "" {
		return []Event{Notice{Text: "Search term is empty", Severity: SeverityWarning}}
	}

	e.searchTerm = term
	e.searchActive = true

	return e.search(term, true)
}

// SearchNext jumps to the next match of the stored term
func (e *Engine) SearchNext() []Event {
	if !e.searchActive || e.searchTerm == "" {
		return []Event{Notice{Text: "No active search", Severity: SeverityWarning}}
	}
	return e.search(e.searchTerm, true)
}

// SearchPrevious jumps to the previous match of the stored term
func (e *Engine) SearchPrevious() []Event {
	if !e.searchActive || e.searchTerm == "" {
		return []Event{Notice{Text: "No active search", Severity: SeverityWarning}}
	}
	return e.search(e.searchTerm, false)
}

// ResetSearch clears the stored term, used when the search dialog opens
func (e *Engine) ResetSearch() {
	e.searchTerm = ""
	e.searchActive = false
}

// SearchTerm returns the stored term and whether a search is active
func (e *Engine) SearchTerm() (string, bool) {
	return e.searchTerm, e.searchActive
}

// search scans the registry for a case-insensitive substring match in
// display names. Forward order is (cur, end) then [0, cur]; backward is the
// mirror: [cur) down to 0, then (end) down past cur. Pagination plays no
// part: the window follows the match, not the other way around.
func (e *Engine) search(term string, forward bool) []Event {
	if term == "" || len(e.torrents) == 0 {
		return nil
	}

	term = strings.ToLower(term)

	cur := -1
	if e.hasSel {
		cur = e.torrentIdx(e.selID)
	}

	n := len(e.torrents)

	if forward {
		for i := cur + 1; i < n; i++ {
			if e.matches(i, term) {
				return e.selectFound(i)
			}
		}
		for i := 0; i <= cur && i < n; i++ {
			if e.matches(i, term) {
				return e.selectFound(i)
			}
		}
	} else {
		for i := cur - 1; i >= 0; i-- {
			if e.matches(i, term) {
				return e.selectFound(i)
			}
		}
		for i := n - 1; i > cur; i-- {
			if e.matches(i, term) {
				return e.selectFound(i)
			}
		}
	}

	return []Event{Notice{
		Text:     fmt.Sprintf("No torrents matching '%s'", term),
		Severity: SeverityInfo,
	}}
}

func (e *Engine) matches(idx int, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(e.torrents[idx].Name), lowerTerm)
}

// selectFound shows the page containing the match and puts the cursor on
// that exact torrent, not merely the first row of its page.
func (e *Engine) selectFound(idx int) []Event {
	start := (idx / e.pageSize) * e.pageSize
	events := e.updatePage(start, selectKeep, false)

	id := e.torrents[idx].ID
	for i := range e.rows {
		if e.rows[i].Torrent.ID == id {
			e.setSelection(i)
			break
		}
	}

	return events
}
