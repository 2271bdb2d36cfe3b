package list

import (
	"sort"
	"strings"

	"github.com/anlar/tewi-sub001/internal/transmission"
)

// SortOrder describes one way to order the torrent list. KeyAsc/KeyDesc are
// the hotkeys shown in the sort dialog.
type SortOrder struct {
	ID      string
	Name    string
	KeyAsc  string
	KeyDesc string
	Less    func(a, b transmission.Torrent) bool
}

// Orders is the sort dialog catalog
var Orders = []SortOrder{
	{"age", "Age", "a", "A",
		func(a, b transmission.Torrent) bool { return a.AddedDate < b.AddedDate }},
	{"name", "Name", "n", "N",
		func(a, b transmission.Torrent) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}},
	{"size", "Size", "z", "Z",
		func(a, b transmission.Torrent) bool { return a.TotalSize < b.TotalSize }},
	{"status", "Status", "t", "T",
		func(a, b transmission.Torrent) bool { return a.Status < b.Status }},
	{"priority", "Priority", "i", "I",
		func(a, b transmission.Torrent) bool { return a.Priority < b.Priority }},
	{"queue_order", "Queue Order", "o", "O",
		func(a, b transmission.Torrent) bool { return a.QueuePosition < b.QueuePosition }},
	{"ratio", "Ratio", "r", "R",
		func(a, b transmission.Torrent) bool { return a.Ratio < b.Ratio }},
	{"progress", "Progress", "p", "P",
		func(a, b transmission.Torrent) bool { return a.PercentDone < b.PercentDone }},
	{"activity", "Activity", "y", "Y",
		func(a, b transmission.Torrent) bool { return a.ActivityDate < b.ActivityDate }},
	{"uploaded", "Uploaded", "u", "U",
		func(a, b transmission.Torrent) bool { return a.UploadedEver < b.UploadedEver }},
	{"peers", "Peers", "e", "E",
		func(a, b transmission.Torrent) bool { return a.PeersConnected < b.PeersConnected }},
	{"seeders", "Seeders", "s", "S",
		func(a, b transmission.Torrent) bool { return a.PeersSending < b.PeersSending }},
	{"leechers", "Leechers", "l", "L",
		func(a, b transmission.Torrent) bool { return a.PeersGetting < b.PeersGetting }},
}

// OrderByID looks up a sort order by its id
func OrderByID(id string) (SortOrder, bool) {
	for _, o := range Orders {
		if o.ID == id {
			return o, true
		}
	}
	return SortOrder{}, false
}

// ApplySort orders torrents in place. The sort is stable so equal keys keep
// the daemon's order.
func ApplySort(torrents []transmission.Torrent, order SortOrder, asc bool) {
	sort.SliceStable(torrents, func(i, j int) bool {
		if asc {
			return order.Less(torrents[i], torrents[j])
		}
		return order.Less(torrents[j], torrents[i])
	})
}
