package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseAlacrittyTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "alacritty.toml", `
[colors.primary]
background = "0x1a1b26"
foreground = "#c0caf5"

[colors.selection]
background = "#33467c"
`)

	p, ok := parseAlacrittyTOML(path)
	if !ok {
		t.Fatal("expected palette")
	}
	if p.BG != "#1a1b26" {
		t.Errorf("BG = %q", p.BG)
	}
	if p.FG != "#c0caf5" {
		t.Errorf("FG = %q", p.FG)
	}
	if p.AccentBg != "#33467c" {
		t.Errorf("AccentBg = %q", p.AccentBg)
	}
}

func TestParseAlacrittyTOMLMissingColors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "alacritty.toml", `
[window]
opacity = 0.95
`)

	if _, ok := parseAlacrittyTOML(path); ok {
		t.Error("expected no palette without primary colors")
	}
}

func TestParseKittyConf(t *testing.T) {
	path := writeFile(t, t.TempDir(), "kitty.conf", `
# theme
background #282a36
foreground #f8f8f2
selection_background #44475a
font_size 12
`)

	p, ok := parseKittyConf(path)
	if !ok {
		t.Fatal("expected palette")
	}
	if p.BG != "#282a36" || p.FG != "#f8f8f2" {
		t.Errorf("got BG=%q FG=%q", p.BG, p.FG)
	}
	if p.AccentBg != "#44475a" {
		t.Errorf("AccentBg = %q", p.AccentBg)
	}
}

func TestParseFootINI(t *testing.T) {
	path := writeFile(t, t.TempDir(), "foot.ini", `
[colors]
background=2e3440
foreground=d8dee9
`)

	p, ok := parseFootINI(path)
	if !ok {
		t.Fatal("expected palette")
	}
	if p.BG != "#2e3440" || p.FG != "#d8dee9" {
		t.Errorf("got BG=%q FG=%q", p.BG, p.FG)
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#aabbcc", "#aabbcc"},
		{"0xAABBCC", "#AABBCC"},
		{"aabbcc", "#aabbcc"},
		{"#abc", "#aabbcc"},
		{"  #aabbcc  ", "#aabbcc"},
	}
	for _, tt := range tests {
		if got := normalizeHex(tt.in); got != tt.want {
			t.Errorf("normalizeHex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMixColors(t *testing.T) {
	got := mixColors("#000000", "#ffffff", 0.5)
	if got != "#7f7f7f" {
		t.Errorf("mixColors = %q", got)
	}
}
