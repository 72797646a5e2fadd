package config

import (
	"sort"

	"github.com/san-kum/scramble/internal/scramble"
)

func speed(v float64) *float64 { return &v }

var Presets = map[string]*Config{
	"hosting": {
		Lines: []StepConfig{
			{ID: "scramble-text-1", Text: "Deploy sites in seconds.", Chars: scramble.LowerCase, Duration: 2},
			{ID: "scramble-text-2", Text: "Fast NVMe SSD + global edge", Chars: "XO", Duration: 2, Speed: speed(0.4)},
			{ID: "scramble-text-3", Text: "Free SSL, DDoS protection,", Chars: "0123456789", Duration: 2},
			{ID: "scramble-text-4", Text: "AUTOMATED BACKUPS", Chars: scramble.UpperCase, Duration: 1, Speed: speed(0.3)},
			{ID: "scramble-text-5", Text: "and 24/7 expert support.", Chars: scramble.LowerCase, Duration: 1.5, Speed: speed(0.3)},
		},
	},
	"wordpress": {
		Lines: []StepConfig{
			{ID: "wp-1", Text: "One-click WordPress.", Chars: scramble.LowerCase, Duration: 1.5},
			{ID: "wp-2", Text: "Staging environments", Chars: "<>/", Duration: 1.5, Speed: speed(0.2)},
			{ID: "wp-3", Text: "AUTO UPDATES", Chars: scramble.UpperCase, Duration: 1},
		},
	},
	"cloud": {
		Lines: []StepConfig{
			{ID: "cloud-1", Text: "Cloud servers in 60s.", Chars: "01", Duration: 2, Speed: speed(0.35)},
			{ID: "cloud-2", Text: "99.9% uptime SLA", Chars: "0123456789%", Duration: 1.5},
			{ID: "cloud-3", Text: "RESOURCE SCALING", Chars: scramble.UpperCase, Duration: 1},
		},
	},
	"minimal": {
		Lines: []StepConfig{
			{ID: "minimal-1", Text: "hello world", Chars: scramble.LowerCase, Duration: 1},
		},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	lines := make([]StepConfig, len(p.Lines))
	copy(lines, p.Lines)
	return &Config{
		FPS:   DefaultFPS,
		Theme: DefaultTheme,
		Lines: lines,
	}
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
