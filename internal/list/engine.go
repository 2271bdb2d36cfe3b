// Package list implements the paginated torrent list engine: a fixed-size
// window over the full torrent collection with identity-stable selection,
// multi-marking that survives refreshes, and wraparound name search.
//
// The engine is pure state — no rendering, no I/O. All methods mutate the
// engine and return events for the UI layer. Callers serialize access on
// their event loop; the engine does no locking of its own.
package list

import (
	"fmt"

	"github.com/anlar/tewi-sub001/internal/transmission"
)

// Row is one materialized line of the current page. Rows live in a flat
// slice; neighbors are addressed by index, so a rebuild can never leave a
// dangling link.
type Row struct {
	Torrent  transmission.Torrent
	Selected bool
	Marked   bool
}

type selectMode int

const (
	selectKeep selectMode = iota
	selectFirst
	selectLast
)

// Engine owns the registry of all known torrents, the materialized page
// window, the selection cursor and the mark set.
type Engine struct {
	pageSize int

	torrents []transmission.Torrent // full registry, replaced on refresh
	rows     []Row                  // current page window
	start    int                    // registry index of rows[0]

	selID  int64 // identity of the selected torrent
	hasSel bool
	selRow int // row index of selection, -1 when not materialized

	marked map[int64]struct{}

	searchTerm   string
	searchActive bool
}

// New creates an engine with a fixed page size
func New(pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Engine{
		pageSize: pageSize,
		selRow:   -1,
		marked:   make(map[int64]struct{}),
	}
}

// Rows returns the materialized page. The slice is owned by the engine and
// valid until the next mutating call.
func (e *Engine) Rows() []Row {
	return e.rows
}

// Len returns the registry size
func (e *Engine) Len() int {
	return len(e.torrents)
}

// Torrents returns the full registry
func (e *Engine) Torrents() []transmission.Torrent {
	return e.torrents
}

// Selected returns the torrent under the cursor, if any
func (e *Engine) Selected() (transmission.Torrent, bool) {
	if !e.hasSel {
		return transmission.Torrent{}, false
	}
	if idx := e.torrentIdx(e.selID); idx >= 0 {
		return e.torrents[idx], true
	}
	return transmission.Torrent{}, false
}

// Page reports the current page number and the total page count
func (e *Engine) Page() (current, total int) {
	return e.start / e.pageSize, e.totalPages()
}

// PageSize returns the fixed page size
func (e *Engine) PageSize() int {
	return e.pageSize
}

func (e *Engine) totalPages() int {
	if len(e.torrents) == 0 {
		return 0
	}
	return (len(e.torrents) + e.pageSize - 1) / e.pageSize
}

// torrentIdx finds a torrent's registry index by identity, -1 when absent
func (e *Engine) torrentIdx(id int64) int {
	for i, t := range e.torrents {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SetTorrents replaces the registry with a fresh snapshot from the daemon.
// Marks are pruned to surviving identities, the selection is re-anchored by
// identity, and the window showing the selection is reconciled.
func (e *Engine) SetTorrents(torrents []transmission.Torrent) []Event {
	e.torrents = torrents

	present := make(map[int64]struct{}, len(torrents))
	for _, t := range torrents {
		present[t.ID] = struct{}{}
	}
	for id := range e.marked {
		if _, ok := present[id]; !ok {
			delete(e.marked, id)
		}
	}

	page := 0
	if e.hasSel {
		if idx := e.torrentIdx(e.selID); idx >= 0 {
			page = idx / e.pageSize
		} else {
			// selected torrent disappeared during the update
			e.hasSel = false
			e.selRow = -1
		}
	}

	return e.updatePage(page*e.pageSize, selectKeep, false)
}

// updatePage reconciles the window at startIndex. When the incoming slice
// matches the current rows identity-for-identity it patches row contents in
// place; otherwise it rebuilds the window and reports the page change.
// force skips the fast path so per-row render state is reset.
func (e *Engine) updatePage(startIndex int, mode selectMode, force bool) []Event {
	if startIndex < 0 {
		startIndex = 0
	}

	end := startIndex + e.pageSize
	if end > len(e.torrents) {
		end = len(e.torrents)
	}
	var page []transmission.Torrent
	if startIndex < end {
		page = e.torrents[startIndex:end]
	}

	var events []Event

	if !force && e.isEqualToPage(page) {
		for i := range e.rows {
			e.rows[i].Torrent = page[i]
		}
	} else {
		rows := make([]Row, len(page))
		for i, t := range page {
			rows[i] = Row{Torrent: t}
		}
		e.rows = rows
		e.start = startIndex

		events = append(events, PageChanged{
			Current: startIndex / e.pageSize,
			Total:   e.totalPages(),
		})
	}

	e.updateSelection(mode)
	e.refreshMarkFlags()

	return events
}

// isEqualToPage compares identities positionally. A re-sort that keeps the
// same identity set in a different order is not equal and forces a rebuild.
func (e *Engine) isEqualToPage(page []transmission.Torrent) bool {
	if len(page) != len(e.rows) {
		return false
	}
	for i, t := range page {
		if t.ID != e.rows[i].Torrent.ID {
			return false
		}
	}
	return true
}

// updateSelection re-derives the selection cursor against current rows.
// Exactly one row carries the selected flag at any time.
func (e *Engine) updateSelection(mode selectMode) {
	for i := range e.rows {
		e.rows[i].Selected = false
	}

	switch mode {
	case selectFirst:
		if len(e.rows) > 0 {
			e.setSelection(0)
			return
		}
	case selectLast:
		if len(e.rows) > 0 {
			e.setSelection(len(e.rows) - 1)
			return
		}
	case selectKeep:
		if e.hasSel {
			for i := range e.rows {
				if e.rows[i].Torrent.ID == e.selID {
					e.setSelection(i)
					return
				}
			}
		}
	}

	// selection not on this page (or nothing to select)
	e.selRow = -1
}

func (e *Engine) setSelection(row int) {
	if e.selRow >= 0 && e.selRow < len(e.rows) {
		e.rows[e.selRow].Selected = false
	}
	e.selRow = row
	e.selID = e.rows[row].Torrent.ID
	e.hasSel = true
	e.rows[row].Selected = true
}

func (e *Engine) refreshMarkFlags() {
	for i := range e.rows {
		_, ok := e.marked[e.rows[i].Torrent.ID]
		e.rows[i].Marked = ok
	}
}

// MoveUp moves the cursor one row up, crossing to the previous page at the
// window boundary.
func (e *Engine) MoveUp() []Event {
	if len(e.rows) == 0 {
		return nil
	}

	if e.selRow < 0 {
		e.setSelection(len(e.rows) - 1)
		return nil
	}

	if e.selRow > 0 {
		e.setSelection(e.selRow - 1)
		return nil
	}

	// top of page: is there a torrent before this one in the registry?
	if idx := e.torrentIdx(e.selID); idx > 0 {
		return e.updatePage(idx-e.pageSize, selectLast, false)
	}
	return nil
}

// MoveDown moves the cursor one row down, crossing to the next page at the
// window boundary.
func (e *Engine) MoveDown() []Event {
	if len(e.rows) == 0 {
		return nil
	}

	if e.selRow < 0 {
		e.setSelection(0)
		return nil
	}

	if e.selRow < len(e.rows)-1 {
		e.setSelection(e.selRow + 1)
		return nil
	}

	if idx := e.torrentIdx(e.selID); idx >= 0 && idx < len(e.torrents)-1 {
		return e.updatePage(idx+1, selectFirst, false)
	}
	return nil
}

// MoveTop jumps to the first torrent on the first page
func (e *Engine) MoveTop() []Event {
	return e.updatePage(0, selectFirst, false)
}

// MoveBottom jumps to the last torrent on the last page
func (e *Engine) MoveBottom() []Event {
	total := e.totalPages()
	if total == 0 {
		return nil
	}
	return e.updatePage((total-1)*e.pageSize, selectLast, false)
}

// ToggleMark flips the mark on the selected torrent and advances the cursor
// so repeated presses mark a run of torrents.
func (e *Engine) ToggleMark() []Event {
	if e.selRow < 0 {
		return nil
	}

	id := e.selID
	if _, ok := e.marked[id]; ok {
		delete(e.marked, id)
		e.rows[e.selRow].Marked = false
	} else {
		e.marked[id] = struct{}{}
		e.rows[e.selRow].Marked = true
	}

	if e.selRow < len(e.rows)-1 {
		e.setSelection(e.selRow + 1)
		return nil
	}

	if idx := e.torrentIdx(id); idx >= 0 && idx < len(e.torrents)-1 {
		return e.updatePage(idx+1, selectFirst, false)
	}
	return nil
}

// ClearMarks empties the mark set and clears the flag on visible rows
func (e *Engine) ClearMarks() []Event {
	clear(e.marked)
	for i := range e.rows {
		e.rows[i].Marked = false
	}
	return nil
}

// MarkedCount returns the number of marked torrents
func (e *Engine) MarkedCount() int {
	return len(e.marked)
}

// Marked returns marked torrent ids in registry order
func (e *Engine) Marked() []int64 {
	if len(e.marked) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(e.marked))
	for _, t := range e.torrents {
		if _, ok := e.marked[t.ID]; ok {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Targets returns the ids a bulk operation applies to: the marked set when
// non-empty, otherwise the selected torrent. Every bulk action shares this
// precedence.
func (e *Engine) Targets() []int64 {
	if ids := e.Marked(); len(ids) > 0 {
		return ids
	}
	if t, ok := e.Selected(); ok {
		return []int64{t.ID}
	}
	return nil
}

// ToggleTargets decides whether a start/stop toggle should start or stop its
// targets: start when at least one target is stopped.
func (e *Engine) ToggleTargets() (ids []int64, start bool, ok bool) {
	ids = e.Targets()
	if len(ids) == 0 {
		return nil, false, false
	}

	target := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		target[id] = struct{}{}
	}
	for _, t := range e.torrents {
		if _, hit := target[t.ID]; hit && t.Status == transmission.StatusStopped {
			start = true
			break
		}
	}
	return ids, start, true
}

// RemoveRequest prepares a confirmed removal of the marked torrents, or of
// the selected torrent when nothing is marked. Engine state stays untouched
// until the returned pending action resolves.
func (e *Engine) RemoveRequest(deleteData bool) []Event {
	if count := len(e.marked); count > 0 {
		pending := &PendingRemoval{
			engine:     e,
			IDs:        e.Marked(),
			DeleteData: deleteData,
			notice:     fmt.Sprintf("%d marked %s removed", count, plural(count, "torrent")),
		}

		var message, description string
		if deleteData {
			message = fmt.Sprintf("Remove %d marked %s and delete data?", count, plural(count, "torrent"))
			description = fmt.Sprintf("All data downloaded for these %s will be deleted. "+
				"Are you sure you want to remove them?", plural(count, "torrent"))
			pending.notice = fmt.Sprintf("%d marked %s and their data removed", count, plural(count, "torrent"))
		} else {
			message = fmt.Sprintf("Remove %d marked %s?", count, plural(count, "torrent"))
			description = fmt.Sprintf("Once removed, continuing the transfer will require the "+
				"torrent %s. Are you sure you want to remove them?", plural(count, "file"))
		}

		return []Event{ConfirmRemoval{Message: message, Description: description, Pending: pending}}
	}

	t, selected := e.Selected()
	if !selected {
		return []Event{Notice{Text: "No torrent selected", Severity: SeverityWarning}}
	}

	pending := &PendingRemoval{
		engine:     e,
		IDs:        []int64{t.ID},
		DeleteData: deleteData,
		single:     true,
	}

	var message, description string
	if deleteData {
		message = "Remove torrent and delete data?"
		description = "All data downloaded for this torrent will be deleted. " +
			"Are you sure you want to remove it?"
		pending.notice = "Torrent and its data removed"
	} else {
		message = "Remove torrent?"
		description = "Once removed, continuing the transfer will require the torrent file. " +
			"Are you sure you want to remove it?"
		pending.notice = "Torrent removed"
	}

	return []Event{ConfirmRemoval{Message: message, Description: description, Pending: pending}}
}

// removeByID splices one torrent out of the registry and its row out of the
// window, moving the cursor to the nearest neighbor. Runs when a confirmed
// single removal resolves; the next refresh remains authoritative.
func (e *Engine) removeByID(id int64, notice string) []Event {
	idx := e.torrentIdx(id)
	if idx < 0 {
		// already gone, a refresh beat us to it
		return []Event{Notice{Text: notice, Severity: SeverityInfo}}
	}

	e.torrents = append(e.torrents[:idx:idx], e.torrents[idx+1:]...)
	delete(e.marked, id)

	row := -1
	for i := range e.rows {
		if e.rows[i].Torrent.ID == id {
			row = i
			break
		}
	}

	if row >= 0 {
		e.rows = append(e.rows[:row], e.rows[row+1:]...)

		if e.hasSel && e.selID == id {
			switch {
			case row < len(e.rows): // the old next row slid into place
				e.selRow = -1
				e.setSelection(row)
			case row > 0:
				e.selRow = -1
				e.setSelection(row - 1)
			default:
				e.hasSel = false
				e.selRow = -1
			}
		} else if e.hasSel {
			e.updateSelection(selectKeep)
		}
	} else if e.hasSel && e.selID == id {
		e.hasSel = false
		e.selRow = -1
	}

	return []Event{Notice{Text: notice, Severity: SeverityInfo}}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
