package view

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Icon constants
const (
	IconChat     = "💬" // U+1F4AC
	IconGear     = "⚙"  // U+2699 without VS16
	IconBell     = "🔔" // U+1F514
	IconUser     = "👤" // U+1F464
	IconCheck    = "✔"  // U+2714
	IconCross    = "❌" // U+274C
	IconHash     = "#"
	IconScroll   = "📜" // U+1F4DC
	IconLink     = "🔗" // U+1F517
	IconQuestion = "❓" // U+2753
)

// SafeIcon wraps an icon with proper spacing to prevent rendering issues
// It ensures that an icon doesn't "swallow" the next character by adding
// spaces depending on the display width of the icon:
//   - If the icon occupies a single cell we append 1 space.
//   - If the icon occupies two cells (common for many emojis / NerdFont glyphs)
//     we append 2 spaces so that at least one space is visible after the icon.
func SafeIcon(icon string) string {
	w := runewidth.StringWidth(icon)
	spaces := 1
	if w >= 2 {
		spaces = 2
	}
	return fmt.Sprintf("%s%s", icon, strings.Repeat(" ", spaces))
}

// IconText formats an icon with text, handling spacing properly
func IconText(icon string, text string) string {
	return fmt.Sprintf("%s%s", SafeIcon(icon), text)
}
