// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Titles, primary text
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"} // Hints, help bar, footers

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused surfaces
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // The focused occurrence

	// Status
	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Diagnostic overlay badge (instance / parent coordinate)
	BadgeColor   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1A1A1A"}
	BadgeBgColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#FECA57"}
)

var (
	// TitleStyle renders surface titles in card and container frames.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	// BadgeStyle renders the id/instance overlay badge.
	BadgeStyle = lipgloss.NewStyle().
			Foreground(BadgeColor).
			Background(BadgeBgColor).
			Padding(0, 1)

	// SurfaceStyle frames an unfocused occurrence.
	SurfaceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)

	// FocusedSurfaceStyle frames the focused occurrence.
	FocusedSurfaceStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderFocusColor).
				Padding(0, 1)

	// ToolbarButtonStyle renders an id button in the toolbar.
	ToolbarButtonStyle = lipgloss.NewStyle().
				Foreground(TextPrimaryColor).
				Padding(0, 1)

	// ToolbarButtonActiveStyle marks the button of the focused id.
	ToolbarButtonActiveStyle = lipgloss.NewStyle().
					Foreground(BadgeColor).
					Background(BorderFocusColor).
					Padding(0, 1)

	// HelpBarStyle renders the bottom help bar.
	HelpBarStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	// ErrorStyle renders load/render errors in the status line.
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
)

// ApplyTheme overrides the highlight colors from configuration. Empty
// values keep the defaults.
func ApplyTheme(highlight, subtle, errColor string) {
	if highlight != "" {
		BorderFocusColor = lipgloss.AdaptiveColor{Light: highlight, Dark: highlight}
		FocusedSurfaceStyle = FocusedSurfaceStyle.BorderForeground(BorderFocusColor)
		ToolbarButtonActiveStyle = ToolbarButtonActiveStyle.Background(BorderFocusColor)
	}
	if subtle != "" {
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: subtle, Dark: subtle}
		SurfaceStyle = SurfaceStyle.BorderForeground(BorderDefaultColor)
		TextMutedColor = lipgloss.AdaptiveColor{Light: subtle, Dark: subtle}
		HelpBarStyle = HelpBarStyle.Foreground(TextMutedColor)
	}
	if errColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errColor, Dark: errColor}
		ErrorStyle = ErrorStyle.Foreground(StatusErrorColor)
	}
}
