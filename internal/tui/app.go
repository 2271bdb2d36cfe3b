// Package tui implements the terminal user interface using Bubble Tea.
// It renders the paginated torrent list, dispatches key presses to the
// list engine, and talks to the Transmission daemon through tea.Cmd
// closures so the Update loop never blocks.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anlar/tewi-sub001/internal/config"
	"github.com/anlar/tewi-sub001/internal/list"
	"github.com/anlar/tewi-sub001/internal/logx"
	"github.com/anlar/tewi-sub001/internal/theme"
	"github.com/anlar/tewi-sub001/internal/transmission"
	"github.com/anlar/tewi-sub001/internal/version"
	"github.com/anlar/tewi-sub001/internal/websearch"
)

// Dialogs
type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogConfirm
	dialogAdd
	dialogSearch
	dialogLabels
	dialogSort
	dialogInfo
	dialogStats
	dialogHelp
	dialogWebSearch
	dialogPrefs
)

// prefsFields are the editable settings in the preferences dialog
var prefsFields = []string{"view_mode", "page_size", "refresh_interval"}

// Model is the main application state
type Model struct {
	cfg config.Config

	// Components
	input   textinput.Model
	spinner spinner.Model

	// Core state
	engine   *list.Engine
	viewMode string

	// Dialog state
	dialog      dialogKind
	pending     *list.PendingRemoval
	confirmMsg  string
	confirmDesc string
	labelIDs    []int64 // targets captured when the labels dialog opened

	// Preferences dialog state
	prefsCursor  int
	prefsEditing bool

	// Web search state
	webResults   []websearch.Result
	webCursor    int
	webSearching bool
	webDone      bool // results phase vs query phase

	// Sorting
	sortOrder list.SortOrder
	sortAsc   bool

	// Daemon state for the bottom panel
	session transmission.Session
	stats   transmission.Stats
	online  bool

	// Page indicator, fed by PageChanged events
	pageCurrent int
	pageTotal   int

	// Transient notification line
	statusMsg  string
	statusWarn bool

	isFetching bool
	loaded     bool // first successful list fetch happened

	// Dimensions
	width  int
	height int

	// Services
	client   *transmission.Client
	searcher *websearch.Multi
}

// Messages
type torrentListMsg struct {
	torrents []transmission.Torrent
	err      error
}

type sessionMsg struct {
	session transmission.Session
	stats   transmission.Stats
	err     error
}

type actionMsg struct {
	action string
	err    error
}

type altSpeedMsg struct {
	enabled bool
	err     error
}

type websearchMsg struct {
	results []websearch.Result
	err     error
}

type updateCheckMsg struct {
	info version.UpdateInfo
}

type tickMsg time.Time

// ThemeChangedMsg is sent by the theme watcher when terminal config files
// change; styles are re-read on the next render.
type ThemeChangedMsg struct{}

// NewModel creates the initial model
func NewModel(cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.CurrentPalette.Accent))

	client := transmission.NewClient(
		cfg.Client.Host,
		cfg.Client.Port,
		cfg.Client.Username,
		cfg.Client.Password,
	)

	order, _ := list.OrderByID("queue_order")

	return Model{
		cfg:       cfg,
		input:     ti,
		spinner:   sp,
		engine:    list.New(cfg.UI.PageSize),
		viewMode:  cfg.UI.ViewMode,
		sortOrder: order,
		sortAsc:   true,
		client:    client,
		searcher:  websearch.NewMulti(websearch.NewNyaa(), websearch.NewTorrentsCSV()),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.fetchTorrents(),
		m.fetchSession(),
		m.tickCmd(),
	)
}

// tickCmd schedules the next refresh at the configured interval
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.UI.RefreshInterval)*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		newModel, cmd := m.handleKeyPress(msg)
		if cmd != nil {
			return newModel, cmd
		}
		m = newModel.(Model)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 20

	case spinner.TickMsg:
		if m.webSearching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case torrentListMsg:
		m.isFetching = false
		if msg.err != nil {
			m.online = false
			m.statusMsg = fmt.Sprintf("Connection failed: %v", msg.err)
			m.statusWarn = true
			logx.L.Error().Err(msg.err).Msg("torrent fetch failed")
		} else {
			m.online = true
			list.ApplySort(msg.torrents, m.sortOrder, m.sortAsc)
			m = m.applyEvents(m.engine.SetTorrents(msg.torrents))
			// Select the first torrent once the list first comes up
			if !m.loaded && m.engine.Len() > 0 {
				m.loaded = true
				m = m.applyEvents(m.engine.MoveTop())
			}
		}

	case sessionMsg:
		if msg.err == nil {
			m.session = msg.session
			m.stats = msg.stats
		}

	case actionMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			m.statusWarn = true
			logx.L.Error().Err(msg.err).Str("action", msg.action).Msg("action failed")
		} else {
			m.statusMsg = msg.action
			m.statusWarn = false
		}
		// Refresh so the list reflects the action
		if !m.isFetching {
			m.isFetching = true
			cmds = append(cmds, m.fetchTorrents())
		}

	case altSpeedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Alt speed toggle failed: %v", msg.err)
			m.statusWarn = true
		} else {
			m.session.AltSpeedEnabled = msg.enabled
			if msg.enabled {
				m.statusMsg = "Alternative speed limits enabled"
			} else {
				m.statusMsg = "Alternative speed limits disabled"
			}
			m.statusWarn = false
		}

	case websearchMsg:
		m.webSearching = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Web search failed: %v", msg.err)
			m.statusWarn = true
		} else if len(msg.results) == 0 {
			m.statusMsg = "No web results found"
			m.statusWarn = false
			m.webDone = false
		} else {
			m.webResults = msg.results
			m.webCursor = 0
			m.webDone = true
			m.input.Blur()
		}

	case updateCheckMsg:
		if msg.info.Error != nil {
			m.statusMsg = fmt.Sprintf("Update check failed: %v", msg.info.Error)
			m.statusWarn = true
		} else if msg.info.UpdateAvailable {
			m.statusMsg = fmt.Sprintf("Update available: v%s -> v%s",
				msg.info.CurrentVersion, msg.info.LatestVersion)
			m.statusWarn = false
		} else {
			m.statusMsg = fmt.Sprintf("You're on the latest version (v%s)", msg.info.CurrentVersion)
			m.statusWarn = false
		}

	case tickMsg:
		// Skip if a fetch is already in-flight to prevent goroutine pile-up
		if !m.isFetching {
			m.isFetching = true
			cmds = append(cmds, m.fetchTorrents())
		}
		cmds = append(cmds, m.fetchSession(), m.tickCmd())

	case ThemeChangedMsg:
		// Styles are read from theme.Current at render time
	}

	// Forward remaining messages to an active text input
	if m.inputActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// inputActive reports whether the current dialog owns the text input
func (m Model) inputActive() bool {
	switch m.dialog {
	case dialogAdd, dialogSearch, dialogLabels:
		return true
	case dialogWebSearch:
		return !m.webDone
	case dialogPrefs:
		return m.prefsEditing
	}
	return false
}

// applyEvents folds engine events into UI state
func (m Model) applyEvents(events []list.Event) Model {
	for _, ev := range events {
		switch ev := ev.(type) {
		case list.PageChanged:
			m.pageCurrent = ev.Current
			m.pageTotal = ev.Total
		case list.Notice:
			m.statusMsg = ev.Text
			m.statusWarn = ev.Severity == list.SeverityWarning
		case list.ConfirmRemoval:
			m.pending = ev.Pending
			m.confirmMsg = ev.Message
			m.confirmDesc = ev.Description
			m.dialog = dialogConfirm
		}
	}
	return m
}

// handled returns a no-op command to signal the key was handled
func handled() tea.Cmd {
	return func() tea.Msg { return nil }
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global quit - always works
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.dialog != dialogNone {
		return m.handleDialogKey(key)
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "k", "up":
		m = m.applyEvents(m.engine.MoveUp())
		return m, handled()

	case "j", "down":
		m = m.applyEvents(m.engine.MoveDown())
		return m, handled()

	case "g", "home":
		m = m.applyEvents(m.engine.MoveTop())
		return m, handled()

	case "G", "end":
		m = m.applyEvents(m.engine.MoveBottom())
		return m, handled()

	case "enter", "l":
		if _, ok := m.engine.Selected(); ok {
			m.dialog = dialogInfo
		}
		return m, handled()

	case " ":
		m = m.applyEvents(m.engine.ToggleMark())
		return m, handled()

	case "esc":
		m = m.applyEvents(m.engine.ClearMarks())
		return m, handled()

	case "a":
		m.dialog = dialogAdd
		m.input.Placeholder = "Magnet link, URL or path to .torrent..."
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "L":
		// Marked torrents take precedence over the selection, like the
		// other bulk actions
		ids := m.engine.Targets()
		if len(ids) == 0 {
			m.statusMsg = "No torrent selected"
			m.statusWarn = true
			return m, handled()
		}
		m.dialog = dialogLabels
		m.labelIDs = ids
		m.input.Placeholder = "Comma-separated labels..."
		m.input.SetValue("")
		if len(ids) == 1 {
			for _, t := range m.engine.Torrents() {
				if t.ID == ids[0] {
					m.input.SetValue(strings.Join(t.Labels, ", "))
					break
				}
			}
		}
		m.input.Focus()
		return m, textinput.Blink

	case "s":
		m.dialog = dialogSort
		return m, handled()

	case "p":
		ids, start, ok := m.engine.ToggleTargets()
		if !ok {
			m.statusMsg = "No torrent selected"
			m.statusWarn = true
			return m, handled()
		}
		return m, m.toggleTorrents(ids, start)

	case "r":
		m = m.applyEvents(m.engine.RemoveRequest(false))
		return m, handled()

	case "R":
		m = m.applyEvents(m.engine.RemoveRequest(true))
		return m, handled()

	case "v":
		ids := m.engine.Targets()
		if len(ids) == 0 {
			m.statusMsg = "No torrent selected"
			m.statusWarn = true
			return m, handled()
		}
		return m, m.verifyTorrents(ids)

	case "c":
		ids := m.engine.Targets()
		if len(ids) == 0 {
			m.statusMsg = "No torrent selected"
			m.statusWarn = true
			return m, handled()
		}
		return m, m.reannounceTorrents(ids)

	case "y":
		return m, m.startAll()

	case "Y":
		return m, m.stopAll()

	case "x":
		return m, m.toggleAltSpeed()

	case "m":
		m.viewMode = nextViewMode(m.viewMode)
		return m, handled()

	case "/":
		m.engine.ResetSearch()
		m.dialog = dialogSearch
		m.input.Placeholder = "Search torrents..."
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "n":
		m = m.applyEvents(m.engine.SearchNext())
		return m, handled()

	case "N":
		m = m.applyEvents(m.engine.SearchPrevious())
		return m, handled()

	case "w":
		m.dialog = dialogWebSearch
		m.webDone = false
		m.webResults = nil
		m.input.Placeholder = "Search the web for torrents..."
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "S":
		m.dialog = dialogStats
		return m, handled()

	case "u":
		m.statusMsg = "Checking for updates..."
		m.statusWarn = false
		return m, checkForUpdate()

	case "o":
		m.dialog = dialogPrefs
		m.prefsCursor = 0
		m.prefsEditing = false
		return m, handled()

	case "?":
		m.dialog = dialogHelp
		return m, handled()
	}

	return m, handled()
}

func (m Model) handleDialogKey(key string) (tea.Model, tea.Cmd) {
	switch m.dialog {
	case dialogConfirm:
		pending := m.pending
		m.dialog = dialogNone
		m.pending = nil
		if pending == nil {
			return m, handled()
		}
		switch key {
		case "y", "enter":
			m = m.applyEvents(pending.Resolve(true))
			return m, m.removeTorrents(pending.IDs, pending.DeleteData)
		default:
			pending.Resolve(false)
			return m, handled()
		}

	case dialogAdd:
		switch key {
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			m = m.closeDialog()
			if value == "" {
				return m, handled()
			}
			return m, m.addTorrent(value)
		case "esc":
			return m.closeDialog(), handled()
		}
		return m, nil // let the text input see the key

	case dialogSearch:
		switch key {
		case "enter":
			term := m.input.Value()
			m = m.closeDialog()
			m = m.applyEvents(m.engine.Search(term))
			return m, handled()
		case "esc":
			return m.closeDialog(), handled()
		}
		return m, nil

	case dialogLabels:
		switch key {
		case "enter":
			value := m.input.Value()
			ids := m.labelIDs
			m = m.closeDialog()
			if len(ids) == 0 {
				return m, handled()
			}
			return m, m.setLabels(ids, splitLabels(value))
		case "esc":
			return m.closeDialog(), handled()
		}
		return m, nil

	case dialogSort:
		if key == "esc" {
			m.dialog = dialogNone
			return m, handled()
		}
		for _, o := range list.Orders {
			if key == o.KeyAsc || key == o.KeyDesc {
				m.sortOrder = o
				m.sortAsc = key == o.KeyAsc
				m.dialog = dialogNone
				m = m.resort()
				return m, handled()
			}
		}
		return m, handled()

	case dialogInfo, dialogStats, dialogHelp:
		// Any key closes
		m.dialog = dialogNone
		return m, handled()

	case dialogPrefs:
		return m.handlePrefsKey(key)

	case dialogWebSearch:
		if !m.webDone {
			switch key {
			case "enter":
				query := strings.TrimSpace(m.input.Value())
				if query == "" {
					return m, handled()
				}
				m.webSearching = true
				return m, tea.Batch(m.spinner.Tick, m.webSearch(query))
			case "esc":
				return m.closeDialog(), handled()
			}
			return m, nil
		}
		switch key {
		case "j", "down":
			if m.webCursor < len(m.webResults)-1 {
				m.webCursor++
			}
		case "k", "up":
			if m.webCursor > 0 {
				m.webCursor--
			}
		case "enter":
			r := m.webResults[m.webCursor]
			m = m.closeDialog()
			return m, m.addTorrent(r.Magnet)
		case "esc":
			return m.closeDialog(), handled()
		}
		return m, handled()
	}

	return m, handled()
}

func (m Model) handlePrefsKey(key string) (tea.Model, tea.Cmd) {
	if m.prefsEditing {
		switch key {
		case "enter":
			m = m.commitPrefValue(strings.TrimSpace(m.input.Value()))
			m.prefsEditing = false
			m.input.Blur()
			return m, handled()
		case "esc":
			m.prefsEditing = false
			m.input.Blur()
			return m, handled()
		}
		return m, nil // let the text input see the key
	}

	switch key {
	case "j", "down":
		if m.prefsCursor < len(prefsFields)-1 {
			m.prefsCursor++
		}
	case "k", "up":
		if m.prefsCursor > 0 {
			m.prefsCursor--
		}
	case "enter":
		m.prefsEditing = true
		m.input.Placeholder = ""
		m.input.SetValue(m.prefValue(m.prefsCursor))
		m.input.Focus()
		return m, textinput.Blink
	case "esc", "o":
		m.dialog = dialogNone
		if err := config.Save(m.cfg); err != nil {
			m.statusMsg = fmt.Sprintf("Failed to save config: %v", err)
			m.statusWarn = true
		}
	}
	return m, handled()
}

func (m Model) prefValue(field int) string {
	switch prefsFields[field] {
	case "view_mode":
		return m.viewMode
	case "page_size":
		return strconv.Itoa(m.cfg.UI.PageSize)
	default:
		return strconv.Itoa(m.cfg.UI.RefreshInterval)
	}
}

// commitPrefValue validates and applies one edited setting. A page size
// change swaps in a new engine over the same registry, since the window
// size is fixed per engine.
func (m Model) commitPrefValue(value string) Model {
	switch prefsFields[m.prefsCursor] {
	case "view_mode":
		switch value {
		case "card", "compact", "oneline":
			m.viewMode = value
			m.cfg.UI.ViewMode = value
		default:
			m.statusMsg = fmt.Sprintf("Unknown view mode %q", value)
			m.statusWarn = true
		}

	case "page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			m.statusMsg = "Page size must be a positive number"
			m.statusWarn = true
			return m
		}
		m.cfg.UI.PageSize = n
		engine := list.New(n)
		m = m.applyEvents(engine.SetTorrents(m.engine.Torrents()))
		m.engine = engine
		m = m.applyEvents(m.engine.MoveTop())

	case "refresh_interval":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			m.statusMsg = "Refresh interval must be a positive number"
			m.statusWarn = true
			return m
		}
		m.cfg.UI.RefreshInterval = n
	}
	return m
}

func (m Model) closeDialog() Model {
	m.dialog = dialogNone
	m.labelIDs = nil
	m.webDone = false
	m.webResults = nil
	m.webSearching = false
	m.input.Blur()
	m.input.SetValue("")
	return m
}

// resort reorders the registry under the current sort order. The identity
// set is unchanged, so selection and marks survive the rebuild.
func (m Model) resort() Model {
	torrents := append([]transmission.Torrent(nil), m.engine.Torrents()...)
	list.ApplySort(torrents, m.sortOrder, m.sortAsc)
	m = m.applyEvents(m.engine.SetTorrents(torrents))
	direction := "ascending"
	if !m.sortAsc {
		direction = "descending"
	}
	m.statusMsg = fmt.Sprintf("Sorted by %s (%s)", strings.ToLower(m.sortOrder.Name), direction)
	m.statusWarn = false
	return m
}

func nextViewMode(mode string) string {
	switch mode {
	case "card":
		return "compact"
	case "compact":
		return "oneline"
	default:
		return "card"
	}
}

func splitLabels(value string) []string {
	var labels []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// Commands

func (m Model) fetchTorrents() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		torrents, err := client.Torrents(ctx)
		return torrentListMsg{torrents: torrents, err: err}
	}
}

func (m Model) fetchSession() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		session, err := client.Session(ctx)
		if err != nil {
			return sessionMsg{err: err}
		}
		stats, err := client.Stats(ctx)
		return sessionMsg{session: session, stats: stats, err: err}
	}
}

func (m Model) toggleTorrents(ids []int64, start bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var err error
		action := "Stopped"
		if start {
			err = client.Start(context.Background(), ids)
			action = "Started"
		} else {
			err = client.Stop(context.Background(), ids)
		}
		return actionMsg{action: fmt.Sprintf("%s %d torrent(s)", action, len(ids)), err: err}
	}
}

func (m Model) verifyTorrents(ids []int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Verify(context.Background(), ids)
		return actionMsg{action: fmt.Sprintf("Verifying %d torrent(s)", len(ids)), err: err}
	}
}

func (m Model) reannounceTorrents(ids []int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Reannounce(context.Background(), ids)
		return actionMsg{action: fmt.Sprintf("Reannounced %d torrent(s)", len(ids)), err: err}
	}
}

func (m Model) removeTorrents(ids []int64, deleteData bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Remove(context.Background(), ids, deleteData)
		action := "Removed"
		if deleteData {
			action = "Trashed"
		}
		return actionMsg{action: fmt.Sprintf("%s %d torrent(s)", action, len(ids)), err: err}
	}
}

func (m Model) startAll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.StartAll(context.Background())
		return actionMsg{action: "Started all torrents", err: err}
	}
}

func (m Model) stopAll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.StopAll(context.Background())
		return actionMsg{action: "Stopped all torrents", err: err}
	}
}

func (m Model) toggleAltSpeed() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		enabled, err := client.ToggleAltSpeed(context.Background())
		return altSpeedMsg{enabled: enabled, err: err}
	}
}

func (m Model) addTorrent(value string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Add(context.Background(), value)
		return actionMsg{action: fmt.Sprintf("Added: %s", TruncateString(value, 40)), err: err}
	}
}

func (m Model) setLabels(ids []int64, labels []string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.SetLabels(context.Background(), ids, labels)
		return actionMsg{action: "Labels updated", err: err}
	}
}

func checkForUpdate() tea.Cmd {
	return func() tea.Msg {
		return updateCheckMsg{info: version.CheckForUpdate()}
	}
}

func (m Model) webSearch(query string) tea.Cmd {
	searcher := m.searcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		results, err := searcher.Search(ctx, query)
		return websearchMsg{results: results, err: err}
	}
}
