package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anlar/tewi-sub001/internal/list"
	"github.com/anlar/tewi-sub001/internal/transmission"
	"github.com/anlar/tewi-sub001/internal/version"
)

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTopBar())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatePanel())

	base := b.String()

	switch m.dialog {
	case dialogConfirm:
		return m.overlayModal(base, m.renderConfirmDialog())
	case dialogAdd, dialogSearch, dialogLabels:
		return m.overlayModal(base, m.renderInputDialog())
	case dialogSort:
		return m.overlayModal(base, m.renderSortDialog())
	case dialogInfo:
		return m.overlayModal(base, m.renderInfoDialog())
	case dialogStats:
		return m.overlayModal(base, m.renderStatsDialog())
	case dialogHelp:
		return m.overlayModal(base, m.renderHelpDialog())
	case dialogWebSearch:
		return m.overlayModal(base, m.renderWebSearchDialog())
	case dialogPrefs:
		return m.overlayModal(base, m.renderPrefsDialog())
	}

	return base
}

func (m Model) renderTopBar() string {
	styles := GetStyles()

	title := styles.TopBar.Render("tewi " + version.Version)

	conn := styles.Muted.Render(fmt.Sprintf("%s:%d", m.cfg.Client.Host, m.cfg.Client.Port))
	if !m.online {
		conn = styles.Error.Render("disconnected")
	} else if m.session.Version != "" {
		conn = styles.Muted.Render(fmt.Sprintf("Transmission %s @ %s:%d",
			m.session.Version, m.cfg.Client.Host, m.cfg.Client.Port))
	}

	alt := ""
	if m.session.AltSpeedEnabled {
		alt = " " + styles.NoticeWarn.Render("[turtle]")
	}

	return title + " " + conn + alt
}

func (m Model) renderList() string {
	styles := GetStyles()
	rows := m.engine.Rows()

	if len(rows) == 0 {
		return styles.Muted.Render("  No torrents")
	}

	width := m.width
	if width < 40 {
		width = 80
	}

	var b strings.Builder
	for i, row := range rows {
		switch m.viewMode {
		case "oneline":
			b.WriteString(m.renderOneline(row, width))
		case "compact":
			b.WriteString(m.renderCompact(row, width))
		default:
			b.WriteString(m.renderCard(row, width))
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// rowPrefix renders the selection and mark glyphs
func rowPrefix(row list.Row) string {
	sel := " "
	if row.Selected {
		sel = ">"
	}
	mark := " "
	if row.Marked {
		mark = "*"
	}
	return sel + mark + " "
}

func (m Model) rowStyle(row list.Row) lipgloss.Style {
	styles := GetStyles()
	if row.Selected {
		return styles.RowSelected
	}
	if row.Marked {
		return styles.RowMarked
	}
	return styles.Row
}

func statusStyle(status string) lipgloss.Style {
	styles := GetStyles()
	switch status {
	case transmission.StatusDownloading:
		return styles.Downloading
	case transmission.StatusSeeding:
		return styles.Seeding
	case transmission.StatusChecking, transmission.StatusCheckWait:
		return styles.Checking
	default:
		return styles.Stopped
	}
}

func (m Model) renderOneline(row list.Row, width int) string {
	t := row.Torrent
	style := m.rowStyle(row)

	meta := fmt.Sprintf(" %5.1f%% %9s %10s %10s %-8s",
		t.PercentDone*100,
		formatSize(t.SizeWhenDone),
		formatSpeed(t.RateDownload),
		formatSpeed(t.RateUpload),
		t.Status,
	)

	nameWidth := width - len(meta) - 4
	if nameWidth < 10 {
		nameWidth = 10
	}

	return style.Render(rowPrefix(row)+PadRight(TruncateString(t.Name, nameWidth), nameWidth)) +
		statusStyle(t.Status).Render(meta)
}

func (m Model) renderCompact(row list.Row, width int) string {
	t := row.Torrent
	style := m.rowStyle(row)
	styles := GetStyles()

	name := style.Render(rowPrefix(row) + TruncateString(t.Name, width-4))
	detail := fmt.Sprintf("   %s  %s of %s  ↓%s ↑%s  ratio %s  eta %s",
		t.Status,
		formatSize(t.SizeWhenDone-t.LeftUntilDone),
		formatSize(t.SizeWhenDone),
		formatSpeed(t.RateDownload),
		formatSpeed(t.RateUpload),
		formatRatio(t.Ratio),
		formatETA(t.ETA),
	)

	return name + "\n" + styles.Muted.Render(detail)
}

func (m Model) renderCard(row list.Row, width int) string {
	t := row.Torrent
	style := m.rowStyle(row)
	styles := GetStyles()

	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}

	name := style.Render(rowPrefix(row) + TruncateString(t.Name, width-4))
	bar := "   " + ProgressBar(t.PercentDone, barWidth) +
		styles.Muted.Render(fmt.Sprintf(" %5.1f%%", t.PercentDone*100))

	labels := ""
	if len(t.Labels) > 0 {
		labels = "  [" + strings.Join(t.Labels, ", ") + "]"
	}
	detail := fmt.Sprintf("   %s  %s  ↓%s ↑%s  peers %d  ratio %s  eta %s%s",
		t.Status,
		formatSize(t.SizeWhenDone),
		formatSpeed(t.RateDownload),
		formatSpeed(t.RateUpload),
		t.PeersConnected,
		formatRatio(t.Ratio),
		formatETA(t.ETA),
		labels,
	)

	return name + "\n" + bar + "\n" + styles.Muted.Render(detail)
}

func (m Model) renderStatePanel() string {
	styles := GetStyles()

	counts := transmission.CountByStatus(m.engine.Torrents())
	summary := fmt.Sprintf("%d torrents (%d down, %d seed, %d stop)",
		counts.Count, counts.Down, counts.Seed, counts.Stop)

	speeds := styles.SpeedDown.Render("↓"+formatSpeed(m.stats.DownloadSpeed)) + " " +
		styles.SpeedUp.Render("↑"+formatSpeed(m.stats.UploadSpeed))

	page := ""
	if m.pageTotal > 0 {
		page = styles.PageNumber.Render(fmt.Sprintf("page %d/%d", m.pageCurrent+1, m.pageTotal))
	}

	search := ""
	if term, active := m.engine.SearchTerm(); active {
		search = styles.SearchHint.Render(fmt.Sprintf("search: %q", term))
	}

	notice := ""
	if m.statusMsg != "" {
		if m.statusWarn {
			notice = styles.NoticeWarn.Render(m.statusMsg)
		} else {
			notice = styles.Notice.Render(m.statusMsg)
		}
	}

	parts := []string{styles.StatePanel.Render(summary), speeds}
	if page != "" {
		parts = append(parts, page)
	}
	if search != "" {
		parts = append(parts, search)
	}
	if notice != "" {
		parts = append(parts, notice)
	}

	return strings.Join(parts, "  ")
}

// overlayModal renders a modal over the base content
func (m Model) overlayModal(base, modal string) string {
	if m.width == 0 || m.height == 0 {
		return modal
	}

	baseLines := strings.Split(base, "\n")
	modalLines := strings.Split(modal, "\n")

	topOffset := 2
	modalWidth := lipgloss.Width(modal)
	leftOffset := (m.width - modalWidth) / 2
	if leftOffset < 0 {
		leftOffset = 0
	}

	for i, modalLine := range modalLines {
		baseIdx := topOffset + i
		for len(baseLines) <= baseIdx {
			baseLines = append(baseLines, "")
		}
		baseLines[baseIdx] = strings.Repeat(" ", leftOffset) + modalLine
	}

	return strings.Join(baseLines, "\n")
}

func (m Model) renderConfirmDialog() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(m.confirmMsg))
	b.WriteString("\n\n")
	b.WriteString(styles.Notice.Render(m.confirmDesc))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpKey.Render("y/enter") + styles.HelpDesc.Render(" confirm  "))
	b.WriteString(styles.HelpKey.Render("any other key") + styles.HelpDesc.Render(" cancel"))

	return styles.Dialog.Render(b.String())
}

func (m Model) renderInputDialog() string {
	styles := GetStyles()

	title := "Add torrent"
	switch m.dialog {
	case dialogSearch:
		title = "Search"
	case dialogLabels:
		title = "Labels"
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.HelpKey.Render("enter") + styles.HelpDesc.Render(" confirm  "))
	b.WriteString(styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" cancel"))

	return styles.Dialog.Render(b.String())
}

func (m Model) renderSortDialog() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Sort order"))
	b.WriteString("\n\n")
	for _, o := range list.Orders {
		marker := "  "
		if o.ID == m.sortOrder.ID {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n",
			marker,
			styles.HelpKey.Render(o.KeyAsc+"/"+o.KeyDesc),
			styles.HelpDesc.Render(PadRight(o.Name, 12)),
			styles.Muted.Render("asc/desc"),
		))
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" cancel"))

	return styles.Dialog.Render(b.String())
}

func (m Model) renderInfoDialog() string {
	styles := GetStyles()

	t, ok := m.engine.Selected()
	if !ok {
		return styles.Dialog.Render(styles.Muted.Render("Nothing selected"))
	}

	line := func(label, value string) string {
		return styles.HelpKey.Render(PadRight(label, 12)) + styles.HelpDesc.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(TruncateString(t.Name, 60)))
	b.WriteString("\n\n")
	b.WriteString(line("Status", t.Status))
	b.WriteString(line("Hash", t.Hash))
	b.WriteString(line("Size", fmt.Sprintf("%s of %s (%.1f%%)",
		formatSize(t.SizeWhenDone-t.LeftUntilDone), formatSize(t.SizeWhenDone), t.PercentDone*100)))
	b.WriteString(line("Speed", fmt.Sprintf("↓%s ↑%s", formatSpeed(t.RateDownload), formatSpeed(t.RateUpload))))
	b.WriteString(line("Ratio", formatRatio(t.Ratio)))
	b.WriteString(line("Uploaded", formatSize(t.UploadedEver)))
	b.WriteString(line("Peers", fmt.Sprintf("%d connected (%d up, %d down)",
		t.PeersConnected, t.PeersSending, t.PeersGetting)))
	b.WriteString(line("ETA", formatETA(t.ETA)))
	b.WriteString(line("Location", t.DownloadDir))
	if len(t.Labels) > 0 {
		b.WriteString(line("Labels", strings.Join(t.Labels, ", ")))
	}

	return styles.Dialog.Render(b.String())
}

func (m Model) renderStatsDialog() string {
	styles := GetStyles()

	line := func(label, value string) string {
		return styles.HelpKey.Render(PadRight(label, 14)) + styles.HelpDesc.Render(value) + "\n"
	}

	section := func(b *strings.Builder, title string, ts transmission.TransferStats) {
		b.WriteString(styles.Notice.Render(title))
		b.WriteString("\n")
		b.WriteString(line("  Uploaded", formatSize(ts.UploadedBytes)))
		b.WriteString(line("  Downloaded", formatSize(ts.DownloadedBytes)))
		b.WriteString(line("  Ratio", transferRatio(ts.UploadedBytes, ts.DownloadedBytes)))
		b.WriteString(line("  Running time", formatETA(ts.SecondsActive)))
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Statistics"))
	b.WriteString("\n\n")
	section(&b, "Current session", m.stats.Current)
	b.WriteString("\n")
	section(&b, "Total", m.stats.Total)
	b.WriteString(line("  Started", fmt.Sprintf("%d times", m.stats.Total.SessionCount)))

	return styles.Dialog.Render(b.String())
}

// transferRatio formats uploaded/downloaded, infinite when nothing came in
func transferRatio(uploaded, downloaded int64) string {
	if downloaded == 0 {
		return "∞"
	}
	return fmt.Sprintf("%.2f", float64(uploaded)/float64(downloaded))
}

func (m Model) renderHelpDialog() string {
	styles := GetStyles()

	bindings := []struct{ key, desc string }{
		{"k/j, up/down", "move selection"},
		{"g/G, home/end", "first/last torrent"},
		{"enter, l", "torrent details"},
		{"space", "mark/unmark torrent"},
		{"esc", "clear marks"},
		{"a", "add torrent"},
		{"w", "web search"},
		{"L", "edit labels"},
		{"s", "sort order"},
		{"p", "start/stop torrent(s)"},
		{"r", "remove torrent(s)"},
		{"R", "remove torrent(s) with data"},
		{"v", "verify torrent(s)"},
		{"c", "reannounce torrent(s)"},
		{"y/Y", "start/stop all"},
		{"x", "toggle alt speed limits"},
		{"S", "session statistics"},
		{"m", "cycle view mode"},
		{"o", "preferences"},
		{"u", "check for updates"},
		{"/", "search by name"},
		{"n/N", "next/previous match"},
		{"?", "this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Key bindings"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		b.WriteString(styles.HelpKey.Render(PadRight(bind.key, 16)))
		b.WriteString(styles.HelpDesc.Render(bind.desc))
		b.WriteString("\n")
	}

	return styles.Dialog.Render(b.String())
}

func (m Model) renderPrefsDialog() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Preferences"))
	b.WriteString("\n\n")

	for i, field := range prefsFields {
		marker := "  "
		style := styles.Row
		if i == m.prefsCursor {
			marker = "> "
			style = styles.RowSelected
		}

		value := m.prefValue(i)
		if m.prefsEditing && i == m.prefsCursor {
			b.WriteString(marker + styles.HelpKey.Render(PadRight(field, 18)) + m.input.View())
		} else {
			b.WriteString(style.Render(marker + PadRight(field, 18) + value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.prefsEditing {
		b.WriteString(styles.HelpKey.Render("enter") + styles.HelpDesc.Render(" apply  "))
		b.WriteString(styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" cancel"))
	} else {
		b.WriteString(styles.HelpKey.Render("j/k") + styles.HelpDesc.Render(" select  "))
		b.WriteString(styles.HelpKey.Render("enter") + styles.HelpDesc.Render(" edit  "))
		b.WriteString(styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" save and close"))
	}

	return styles.Dialog.Render(b.String())
}

func (m Model) renderWebSearchDialog() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Web search"))
	b.WriteString("\n\n")

	if m.webSearching {
		b.WriteString(m.spinner.View() + " Searching...")
		return styles.Dialog.Render(b.String())
	}

	if !m.webDone {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpKey.Render("enter") + styles.HelpDesc.Render(" search  "))
		b.WriteString(styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" cancel"))
		return styles.Dialog.Render(b.String())
	}

	for i, r := range m.webResults {
		marker := "  "
		style := styles.Row
		if i == m.webCursor {
			marker = "> "
			style = styles.RowSelected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s  %s  S:%d L:%d  (%s)",
			marker, PadRight(TruncateString(r.Name, 48), 48), PadLeft(r.Size, 10),
			r.Seeders, r.Leechers, r.Source)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpKey.Render("enter") + styles.HelpDesc.Render(" add to Transmission  "))
	b.WriteString(styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" close"))

	return styles.Dialog.Render(b.String())
}
