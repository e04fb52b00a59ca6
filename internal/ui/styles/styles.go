// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Saved, valid pages
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Unsaved edits, pending saves
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Failed saves, invalid pages

	// Selection indicator color (used for ">" prefix in option lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// Form colors
	FormTextInputBorderColor        = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}
	FormTextInputFocusedBorderColor = lipgloss.AdaptiveColor{Light: "#FFF", Dark: "#FFF"}
	BorderHighlightFocusColor       = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Page heading
	PageHeadingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextPrimaryColor).
				Padding(0, 1)

	// Question label
	LabelStyle        = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	RequiredMarkStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)
	SaveOKStyle      = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	SavePendingStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	SaveFailedStyle  = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}
)
