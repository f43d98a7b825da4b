package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/wish-sky/internal/sky"
)

// Color palette - night sky
var (
	primaryColor   = lipgloss.Color("#F4D58D") // Lantern gold
	secondaryColor = lipgloss.Color("#8FB8DE") // Moonlit blue
	accentColor    = lipgloss.Color("#C3A6E8") // Dusk violet
	successColor   = lipgloss.Color("#A8E6CF") // Aurora green
	mutedColor     = lipgloss.Color("#6C7A96") // Slate
	fgColor        = lipgloss.Color("#E8ECF4") // Starlight
	starColor      = lipgloss.Color("#B8C4DC")
	skyColor       = lipgloss.Color("#0B1026")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Align(lipgloss.Center)

	highlightStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	instructionStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	counterStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	counterFullStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E07B7B"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E07B7B")).
			Bold(true)

	confirmStyle = lipgloss.NewStyle().
			Foreground(skyColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)
)

// glyph styles, indexed by the key glyphStyleKey returns
const (
	styleEmpty = iota
	styleStar
	styleWarmBorder
	styleWarmText
	styleCoolBorder
	styleCoolText
	styleRising
	styleSelected
)

var glyphStyles = [...]lipgloss.Style{
	styleEmpty:      lipgloss.NewStyle(),
	styleStar:       lipgloss.NewStyle().Foreground(starColor),
	styleWarmBorder: lipgloss.NewStyle().Foreground(primaryColor),
	styleWarmText:   lipgloss.NewStyle().Foreground(fgColor),
	styleCoolBorder: lipgloss.NewStyle().Foreground(secondaryColor),
	styleCoolText:   lipgloss.NewStyle().Foreground(fgColor).Italic(true),
	styleRising:     lipgloss.NewStyle().Foreground(successColor).Bold(true),
	styleSelected:   lipgloss.NewStyle().Foreground(accentColor).Bold(true),
}

// glyphStyleKey picks the style for a composed cell
func glyphStyleKey(g Glyph) int {
	switch g.Kind {
	case GlyphStar:
		return styleStar
	case GlyphBorder, GlyphText:
		switch {
		case g.Selected:
			return styleSelected
		case g.Kind == GlyphBorder && g.Rising:
			return styleRising
		case g.Variant == sky.VariantCool && g.Kind == GlyphBorder:
			return styleCoolBorder
		case g.Variant == sky.VariantCool:
			return styleCoolText
		case g.Kind == GlyphBorder:
			return styleWarmBorder
		}
		return styleWarmText
	}
	return styleEmpty
}
