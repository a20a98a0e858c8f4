package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a panel color scheme plus the class colors used for particles.
// Background is only used by SVG export.
type Theme struct {
	Name       string
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Attract    lipgloss.Color
	Repel      lipgloss.Color
	Background string
	Classes    []lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:       "neon",
		Accent:     lipgloss.Color("#00ffff"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
		Attract:    lipgloss.Color("#00ff88"),
		Repel:      lipgloss.Color("#ff4444"),
		Background: "#0a0a0a",
		Classes: []lipgloss.Color{
			"#ff2e63", "#08d9d6", "#f9ed69", "#a3f7bf", "#b983ff", "#ff9a3c",
		},
	}

	ThemePastel = Theme{
		Name:       "pastel",
		Accent:     lipgloss.Color("#bdb2ff"),
		Text:       lipgloss.Color("#f0f0f0"),
		Muted:      lipgloss.Color("#8b8b9c"),
		Attract:    lipgloss.Color("#caffbf"),
		Repel:      lipgloss.Color("#ffadad"),
		Background: "#1e1e2a",
		Classes: []lipgloss.Color{
			"#ffadad", "#9bf6ff", "#fdffb6", "#caffbf", "#bdb2ff", "#ffd6a5",
		},
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Accent:     lipgloss.Color("#ffd700"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Attract:    lipgloss.Color("#00ff88"),
		Repel:      lipgloss.Color("#ff4444"),
		Background: "#001a33",
		Classes: []lipgloss.Color{
			"#0077be", "#00a8cc", "#ffd700", "#00ff88", "#e0f0ff", "#ff6b6b",
		},
	}

	Themes = []Theme{ThemeNeon, ThemePastel, ThemeOcean}
)

// GetTheme returns a theme by name, defaulting to neon.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Palette returns m class colors. Themes define six; beyond that hues are
// spaced evenly around the color wheel.
func (t Theme) Palette(m int) []lipgloss.Color {
	if m <= 0 {
		return nil
	}
	if m <= len(t.Classes) {
		return t.Classes[:m]
	}
	out := make([]lipgloss.Color, m)
	for i := range out {
		out[i] = lipgloss.Color(hueColor(float64(i) / float64(m)))
	}
	return out
}

// Palette is the default theme's palette.
func Palette(m int) []lipgloss.Color {
	return ThemeNeon.Palette(m)
}

// hueColor converts a hue in [0, 1) at full value and 0.75 saturation to hex.
func hueColor(h float64) string {
	const s, v = 0.75, 1.0
	h = math.Mod(h, 1) * 6
	i := math.Floor(h)
	f := h - i
	p, q, t := v*(1-s), v*(1-s*f), v*(1-s*(1-f))

	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return hexColor(int(r*255+0.5), int(g*255+0.5), int(b*255+0.5))
}

func hexColor(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
