package render

// Markdown styles understood by glamour, plus the aliases used in config.
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

var styleAliases = map[string]string{
	"tokyonight":  StyleTokyoNight,
	"tokyo_night": StyleTokyoNight,
	"plain":       StyleNoTTY,
}

// StyleInfo describes a markdown style for the settings menu.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the markdown styles offered in the settings menu.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether style names a bundled glamour style.
func IsBuiltinStyle(style string) bool {
	resolved := ResolveStyle(style)
	for _, name := range StyleNames() {
		if name == resolved {
			return true
		}
	}
	return false
}

// ResolveStyle maps config aliases to glamour style names. Anything else,
// including a path to a JSON style file, is returned as is.
func ResolveStyle(style string) string {
	if style == "" {
		return StyleDark
	}
	if alias, ok := styleAliases[style]; ok {
		return alias
	}
	return style
}
