// Package theme holds the color schemes shared by the terminal chart and the
// SVG exporter.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines a color scheme. Palette colors categories in the
// order they first appear in the dataset.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Palette    []lipgloss.Color
}

// Available themes
var (
	Cyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"), // Magenta
		Secondary:  lipgloss.Color("#00ffff"), // Cyan
		Accent:     lipgloss.Color("#ffff00"), // Yellow
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ff8800"),
		Error:      lipgloss.Color("#ff0000"),
		Palette:    []lipgloss.Color{lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffff00"), lipgloss.Color("#00ff88"), lipgloss.Color("#ff8800"), lipgloss.Color("#8888ff")},
	}

	RetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"), // Green phosphor
		Secondary:  lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Success:    lipgloss.Color("#88ff88"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
		Palette:    []lipgloss.Color{lipgloss.Color("#00ff00"), lipgloss.Color("#88ff88"), lipgloss.Color("#00aa44"), lipgloss.Color("#ccff66"), lipgloss.Color("#ffff00"), lipgloss.Color("#66ccaa")},
	}

	Minimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff0000"),
		Palette:    []lipgloss.Color{lipgloss.Color("#0088ff"), lipgloss.Color("#ffaa00"), lipgloss.Color("#00cc66"), lipgloss.Color("#ff4466"), lipgloss.Color("#aa66ff"), lipgloss.Color("#cccccc")},
	}

	Ocean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"), // Ocean blue
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
		Palette:    []lipgloss.Color{lipgloss.Color("#00a8cc"), lipgloss.Color("#ffd700"), lipgloss.Color("#00ff88"), lipgloss.Color("#0077be"), lipgloss.Color("#ff7f50"), lipgloss.Color("#e0f0ff")},
	}

	Sunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"), // Coral
		Secondary:  lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
		Palette:    []lipgloss.Color{lipgloss.Color("#ff6b6b"), lipgloss.Color("#feca57"), lipgloss.Color("#ff9ff3"), lipgloss.Color("#5fd068"), lipgloss.Color("#48dbfb"), lipgloss.Color("#fff5f5")},
	}

	// All lists the available themes in cycling order.
	All = []Theme{
		Cyberpunk,
		RetroGreen,
		Minimal,
		Ocean,
		Sunset,
	}
)

// Get returns a theme by name, falling back to Cyberpunk.
func Get(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Cyberpunk
}

// Next returns the theme after name, wrapping around.
func Next(name string) Theme {
	for i, t := range All {
		if t.Name == name {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}

// Names returns list of available theme names
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// CategoryColor returns the palette color for category, given the ordered
// category list. Unknown categories get the muted color.
func (t Theme) CategoryColor(category string, categories []string) lipgloss.Color {
	for i, c := range categories {
		if c == category && len(t.Palette) > 0 {
			return t.Palette[i%len(t.Palette)]
		}
	}
	return t.Muted
}
