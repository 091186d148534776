package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// digitMap holds 5-row block glyphs for the digits and the colon.
var digitMap = map[rune][5]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// bigTimeMinWidth is the narrowest terminal that gets the block digits.
const bigTimeMinWidth = 40

// renderBigTime draws an MM:SS string in block digits, or as a single bold
// line on narrow terminals or when the string holds a rune without a glyph.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigTimeMinWidth {
		return style.Render(timeStr)
	}

	var rows [5]strings.Builder
	for i, ch := range timeStr {
		glyph, ok := digitMap[ch]
		if !ok {
			return style.Render(timeStr)
		}
		for row := range rows {
			if i > 0 {
				rows[row].WriteByte(' ')
			}
			rows[row].WriteString(glyph[row])
		}
	}

	styled := make([]string, len(rows))
	for row := range rows {
		styled[row] = style.Render(rows[row].String())
	}
	return strings.Join(styled, "\n")
}
