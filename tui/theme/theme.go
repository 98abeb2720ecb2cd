package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/meetwatch/config"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa palette (light, dark) ---
var kanagawa = palette{
	Green:     [2]string{"#4E7C5A", "#98BB6C"},
	Yellow:    [2]string{"#A68A64", "#FF9E3B"},
	Red:       [2]string{"#C34043", "#FF5D62"},
	Orange:    [2]string{"#CC6B4E", "#FFA066"},
	Cyan:      [2]string{"#5B8BBE", "#7E9CD8"},
	Violet:    [2]string{"#674D7A", "#957FB8"},
	LightText: [2]string{"#2B2F42", "#DCD7BA"},
	MutedText: [2]string{"#6C7086", "#727169"},
	Border:    [2]string{"#B5BDC5", "#363646"},
	Selected:  [2]string{"#E2E6F3", "#223249"},
}

// --- Gruvbox palette (light, dark) ---
var gruvbox = palette{
	Green:     [2]string{"#98971A", "#B8BB26"},
	Yellow:    [2]string{"#D79921", "#FABD2F"},
	Red:       [2]string{"#CC241D", "#FB4934"},
	Orange:    [2]string{"#D65D0E", "#FE8019"},
	Cyan:      [2]string{"#458588", "#83A598"},
	Violet:    [2]string{"#8F3F71", "#B16286"},
	LightText: [2]string{"#3C3836", "#EBDBB2"},
	MutedText: [2]string{"#928374", "#BDAE93"},
	Border:    [2]string{"#D5C4A1", "#504945"},
	Selected:  [2]string{"#F2E5BC", "#32302F"},
}

// palette pairs a light and a dark hex value per role.
type palette struct {
	Green, Yellow, Red, Orange, Cyan, Violet [2]string
	LightText, MutedText, Border, Selected   [2]string
}

func (p palette) colors() Colors {
	adaptive := func(v [2]string) lipgloss.TerminalColor {
		return lipgloss.AdaptiveColor{Light: v[0], Dark: v[1]}
	}
	return Colors{
		Green:              adaptive(p.Green),
		Yellow:             adaptive(p.Yellow),
		Red:                adaptive(p.Red),
		Orange:             adaptive(p.Orange),
		Cyan:               adaptive(p.Cyan),
		Violet:             adaptive(p.Violet),
		LightText:          adaptive(p.LightText),
		MutedText:          adaptive(p.MutedText),
		Border:             adaptive(p.Border),
		SelectedBackground: adaptive(p.Selected),
	}
}

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
}

// Theme holds the pre-configured styles for meetwatch output.
type Theme struct {
	Name   string
	Colors Colors

	// Headers and titles
	Header lipgloss.Style
	Title  lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Text hierarchy
	Bold   lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style

	// Panes
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	StatusBar   lipgloss.Style

	// Meeting content
	Current    lipgloss.Style // agendum under discussion
	ItemNumber lipgloss.Style
	Speaker    lipgloss.Style
	Supporters lipgloss.Style
	Author     lipgloss.Style

	Accent lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": kanagawa.colors,
	"gruvbox":  gruvbox.colors,
	"terminal": newTerminalColors,
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"kanagawa-wave":   "kanagawa",
	"gruvbox-dark":    "gruvbox",
	"gruvbox-light":   "gruvbox",
	"ansi":            "terminal",
}

// DefaultTheme is the theme selected by MEETWATCH_THEME or the tui.theme
// configuration, falling back to kanagawa.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the configured theme selection.
func NewTheme() *Theme {
	return NewThemeWithName(getThemeName())
}

// NewThemeWithName constructs a theme from a specific palette name. Unknown
// names use the default palette.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	builder, ok := themeRegistry[key]
	if !ok {
		key = defaultThemeName
		builder = themeRegistry[key]
	}
	return newThemeFromColors(builder(), key)
}

// Names lists the registered palettes.
func Names() []string {
	return []string{"kanagawa", "gruvbox", "terminal"}
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colors.Border).
		Padding(0, 1)

	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),

		Bold:   lipgloss.NewStyle().Bold(true),
		Normal: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Faint(true),

		Pane:        pane,
		PaneFocused: pane.BorderForeground(colors.Violet),

		PaneTitle: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Current: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.Orange).
			Bold(true),

		ItemNumber: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Speaker: lipgloss.NewStyle().
			Foreground(colors.Green),

		Supporters: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Author: lipgloss.NewStyle().
			Foreground(colors.MutedText).
			Italic(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func getThemeName() string {
	if theme := normalizeThemeName(os.Getenv("MEETWATCH_THEME")); theme != "" {
		return theme
	}

	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}

	var tuiCfg struct {
		Theme string `yaml:"theme"`
	}
	if err := cfg.UnmarshalExtension("tui", &tuiCfg); err == nil {
		if theme := normalizeThemeName(tuiCfg.Theme); theme != "" {
			return theme
		}
	}

	return defaultThemeName
}

func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color("2"),
		Yellow:             lipgloss.Color("3"),
		Red:                lipgloss.Color("1"),
		Orange:             lipgloss.Color("208"),
		Cyan:               lipgloss.Color("6"),
		Violet:             lipgloss.Color("5"),
		LightText:          lipgloss.Color("7"),
		MutedText:          lipgloss.Color("8"),
		Border:             lipgloss.Color("8"),
		SelectedBackground: lipgloss.Color("8"),
	}
}
