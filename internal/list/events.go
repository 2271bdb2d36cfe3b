package list

// Severity classifies a notice for rendering
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// Event is emitted by the engine for the UI layer to act on.
// Events never carry engine internals, only what a renderer needs.
type Event interface {
	event()
}

// PageChanged reports that the materialized window moved or was rebuilt
type PageChanged struct {
	Current int
	Total   int
}

// Notice is a non-blocking user notification
type Notice struct {
	Text     string
	Severity Severity
}

// ConfirmRemoval asks the UI to confirm a destructive operation before it
// is applied. The decision is delivered through Pending.Resolve.
type ConfirmRemoval struct {
	Message     string
	Description string
	Pending     *PendingRemoval
}

func (PageChanged) event()    {}
func (Notice) event()         {}
func (ConfirmRemoval) event() {}

// PendingRemoval is a removal suspended on user confirmation. The engine
// state is not touched until Resolve(true); Resolve(false) is a no-op.
type PendingRemoval struct {
	engine *Engine

	// IDs to remove and whether downloaded data goes with them. The caller
	// forwards these to the backend client on confirmation.
	IDs        []int64
	DeleteData bool

	single   bool
	notice   string
	resolved bool
}

// Resolve completes the pending removal. It may be called once; later
// calls are ignored.
func (p *PendingRemoval) Resolve(confirmed bool) []Event {
	if p.resolved {
		return nil
	}
	p.resolved = true

	if !confirmed {
		return nil
	}

	if p.single && len(p.IDs) == 1 {
		return p.engine.removeByID(p.IDs[0], p.notice)
	}

	// Marked removals leave the registry to the next refresh tick.
	return []Event{Notice{Text: p.notice, Severity: SeverityInfo}}
}
