package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// Detect loads the palette from terminal configs in priority order:
// Alacritty, Kitty, Foot, then the built-in default. TEWI_* environment
// variables override individual colors afterwards.
func Detect() Palette {
	home, err := os.UserHomeDir()
	if err != nil {
		return applyEnvOverrides(DefaultPalette())
	}

	if p, ok := detectAlacritty(home); ok {
		return applyEnvOverrides(p)
	}

	if p, ok := detectKitty(home); ok {
		return applyEnvOverrides(p)
	}

	if p, ok := detectFoot(home); ok {
		return applyEnvOverrides(p)
	}

	return applyEnvOverrides(DefaultPalette())
}

func detectAlacritty(home string) (Palette, bool) {
	paths := []string{
		filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
		filepath.Join(home, ".alacritty.toml"),
	}

	for _, path := range paths {
		if p, ok := parseAlacrittyTOML(path); ok {
			return p, true
		}
	}
	return Palette{}, false
}

// alacrittyConfig covers the relevant parts of alacritty.toml
type alacrittyConfig struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
	} `toml:"colors"`
}

func parseAlacrittyTOML(path string) (Palette, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, false
	}

	var cfg alacrittyConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Palette{}, false
	}

	// Need at least bg and fg
	if cfg.Colors.Primary.Background == "" || cfg.Colors.Primary.Foreground == "" {
		return Palette{}, false
	}

	p := DefaultPalette()
	p.BG = normalizeHex(cfg.Colors.Primary.Background)
	p.FG = normalizeHex(cfg.Colors.Primary.Foreground)
	p.Muted = dimColor(p.FG, 0.5)

	if cfg.Colors.Selection.Background != "" {
		p.AccentBg = normalizeHex(cfg.Colors.Selection.Background)
	} else {
		p.AccentBg = mixColors(p.BG, p.FG, 0.15)
	}

	return p, true
}

func detectKitty(home string) (Palette, bool) {
	return parseKittyConf(filepath.Join(home, ".config", "kitty", "kitty.conf"))
}

func parseKittyConf(path string) (Palette, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, false
	}

	p := DefaultPalette()
	found := false

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		switch parts[0] {
		case "background":
			p.BG = normalizeHex(parts[1])
			found = true
		case "foreground":
			p.FG = normalizeHex(parts[1])
			found = true
		case "selection_background":
			p.AccentBg = normalizeHex(parts[1])
		}
	}

	if found {
		p.Muted = dimColor(p.FG, 0.5)
	}

	return p, found
}

func detectFoot(home string) (Palette, bool) {
	return parseFootINI(filepath.Join(home, ".config", "foot", "foot.ini"))
}

func parseFootINI(path string) (Palette, bool) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Palette{}, false
	}

	colors := cfg.Section("colors")

	bg := colors.Key("background").String()
	fg := colors.Key("foreground").String()
	if bg == "" || fg == "" {
		return Palette{}, false
	}

	p := DefaultPalette()
	p.BG = normalizeHex(bg)
	p.FG = normalizeHex(fg)
	p.Muted = dimColor(p.FG, 0.5)

	if sel := colors.Key("selection-background").String(); sel != "" {
		p.AccentBg = normalizeHex(sel)
	} else {
		p.AccentBg = mixColors(p.BG, p.FG, 0.15)
	}

	return p, true
}

func applyEnvOverrides(p Palette) Palette {
	if v := os.Getenv("TEWI_BG"); v != "" {
		p.BG = normalizeHex(v)
	}
	if v := os.Getenv("TEWI_FG"); v != "" {
		p.FG = normalizeHex(v)
	}
	if v := os.Getenv("TEWI_MUTED"); v != "" {
		p.Muted = normalizeHex(v)
	}
	if v := os.Getenv("TEWI_ACCENT"); v != "" {
		p.Accent = normalizeHex(v)
	}
	return p
}

// normalizeHex ensures color is in #RRGGBB format
func normalizeHex(color string) string {
	color = strings.TrimSpace(color)

	if strings.HasPrefix(color, "0x") || strings.HasPrefix(color, "0X") {
		color = "#" + color[2:]
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}

	if matched, _ := regexp.MatchString(`^#[0-9a-fA-F]{6}$`, color); matched {
		return color
	}

	// Expand shorthand #RGB
	if matched, _ := regexp.MatchString(`^#[0-9a-fA-F]{3}$`, color); matched {
		r, g, b := color[1:2], color[2:3], color[3:4]
		return "#" + r + r + g + g + b + b
	}

	return color
}

// dimColor reduces the brightness of a hex color
func dimColor(hex string, factor float64) string {
	hex = normalizeHex(hex)
	if len(hex) != 7 {
		return hex
	}

	r := byte(float64(hexToByte(hex[1:3])) * factor)
	g := byte(float64(hexToByte(hex[3:5])) * factor)
	b := byte(float64(hexToByte(hex[5:7])) * factor)

	return "#" + byteToHex(r) + byteToHex(g) + byteToHex(b)
}

// mixColors blends two colors together
func mixColors(hex1, hex2 string, t float64) string {
	hex1, hex2 = normalizeHex(hex1), normalizeHex(hex2)
	if len(hex1) != 7 || len(hex2) != 7 {
		return hex1
	}

	r1, g1, b1 := hexToByte(hex1[1:3]), hexToByte(hex1[3:5]), hexToByte(hex1[5:7])
	r2, g2, b2 := hexToByte(hex2[1:3]), hexToByte(hex2[3:5]), hexToByte(hex2[5:7])

	r := byte(float64(r1)*(1-t) + float64(r2)*t)
	g := byte(float64(g1)*(1-t) + float64(g2)*t)
	b := byte(float64(b1)*(1-t) + float64(b2)*t)

	return "#" + byteToHex(r) + byteToHex(g) + byteToHex(b)
}

func hexToByte(s string) byte {
	var v byte
	for _, c := range strings.ToLower(s) {
		v *= 16
		if c >= '0' && c <= '9' {
			v += byte(c - '0')
		} else if c >= 'a' && c <= 'f' {
			v += byte(c - 'a' + 10)
		}
	}
	return v
}

func byteToHex(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}
