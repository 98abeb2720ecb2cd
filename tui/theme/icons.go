package theme

import "os"

// Icons used by the meeting panes. Nerd Font glyphs are the default;
// MEETWATCH_ICONS=ascii selects plain fallbacks.
var (
	IconCurrent  = pickIcon("󰁔", ">") // md-arrow_right (U+F0054)
	IconSpeaker  = pickIcon("󰍬", "*") // md-microphone (U+F036C)
	IconQuestion = pickIcon("󰘥", "?") // md-help_circle (U+F0625)
	IconWarning  = pickIcon("", "!") // fa-warning (U+F071)
)

func pickIcon(nerd, ascii string) string {
	if os.Getenv("MEETWATCH_ICONS") == "ascii" {
		return ascii
	}
	return nerd
}
