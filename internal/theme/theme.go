// Package theme provides terminal theming with automatic detection.
// Colors are read from Alacritty, Kitty, or Foot terminal configs when
// present, with TEWI_* environment variable overrides on top.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette holds the color scheme for the TUI
type Palette struct {
	BG       string // background
	FG       string // foreground (primary text)
	Muted    string // secondary info, separators
	Accent   string // progress bars, highlights
	AccentBg string // selection background
	Warning  string // notices, checking state
	Error    string // errors, stopped-with-error state
}

// DefaultPalette returns the fallback blue-on-dark theme
func DefaultPalette() Palette {
	return Palette{
		BG:       "#0f111a",
		FG:       "#c8d3f5",
		Muted:    "#545c7e",
		Accent:   "#82aaff",
		AccentBg: "#2f334d",
		Warning:  "#ffc777",
		Error:    "#ff757f",
	}
}

// Styles holds all lipgloss styles derived from a palette
type Styles struct {
	App          lipgloss.Style
	TopBar       lipgloss.Style
	Title        lipgloss.Style
	StatePanel   lipgloss.Style
	Notice       lipgloss.Style
	NoticeWarn   lipgloss.Style
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
	RowMarked    lipgloss.Style
	Name         lipgloss.Style
	Muted        lipgloss.Style
	Error        lipgloss.Style
	ProgressDone lipgloss.Style
	ProgressLeft lipgloss.Style
	SpeedDown    lipgloss.Style
	SpeedUp      lipgloss.Style
	Downloading  lipgloss.Style
	Seeding      lipgloss.Style
	Stopped      lipgloss.Style
	Checking     lipgloss.Style
	PageNumber   lipgloss.Style
	SearchHint   lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Background(lipgloss.Color(p.BG)),

		TopBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		StatePanel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		NoticeWarn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)),

		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		RowSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Background(lipgloss.Color(p.AccentBg)).
			Bold(true),

		RowMarked: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)),

		Name: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),

		ProgressDone: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)),

		ProgressLeft: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		SpeedDown: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8bc34a")),

		SpeedUp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffb347")),

		Downloading: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)),

		Seeding: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8bc34a")),

		Stopped: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Checking: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)),

		PageNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		SearchHint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Dialog: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		DialogTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),
	}
}

// Current holds the active palette and styles
var Current Styles
var CurrentPalette Palette

func init() {
	CurrentPalette = Detect()
	Current = NewStyles(CurrentPalette)
}

// Refresh reloads the theme from terminal config files
func Refresh() {
	CurrentPalette = Detect()
	Current = NewStyles(CurrentPalette)
}
