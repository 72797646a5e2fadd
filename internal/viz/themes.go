package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the player
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Scramble  lipgloss.Color
	Muted     lipgloss.Color
	Cursor    lipgloss.Color
}

// Available themes
var (
	ThemeOrange = Theme{
		Name:      "orange",
		Primary:   lipgloss.Color("#ff7a1a"), // brand orange
		Secondary: lipgloss.Color("#ffb347"),
		Accent:    lipgloss.Color("#ffe0c2"),
		Text:      lipgloss.Color("#f5f5f5"),
		Scramble:  lipgloss.Color("#a0522d"),
		Muted:     lipgloss.Color("#6b6b6b"),
		Cursor:    lipgloss.Color("#ff7a1a"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"), // Magenta
		Secondary: lipgloss.Color("#00ffff"), // Cyan
		Accent:    lipgloss.Color("#ffff00"), // Yellow
		Text:      lipgloss.Color("#ffffff"),
		Scramble:  lipgloss.Color("#008888"),
		Muted:     lipgloss.Color("#666666"),
		Cursor:    lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Scramble:  lipgloss.Color("#007700"),
		Muted:     lipgloss.Color("#005500"),
		Cursor:    lipgloss.Color("#88ff88"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Scramble:  lipgloss.Color("#777777"),
		Muted:     lipgloss.Color("#888888"),
		Cursor:    lipgloss.Color("#ffffff"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"), // Coral
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Scramble:  lipgloss.Color("#8b6b8c"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Cursor:    lipgloss.Color("#feca57"),
	}

	// All available themes
	Themes = []Theme{
		ThemeOrange,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMono,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to orange.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOrange
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
