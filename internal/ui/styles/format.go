// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	// Need to truncate - leave room for ellipsis
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	// Truncate rune by rune
	result := ""
	for _, r := range s {
		test := result + string(r)
		if lipgloss.Width(test) > maxWidth-3 {
			break
		}
		result = test
	}

	return result + "..."
}

// FormatPageIndicator returns the "Page n/total" status bar fragment.
func FormatPageIndicator(current, total int) string {
	return fmt.Sprintf("Page %d/%d", current+1, total)
}

// FormatValidity returns the per-page validity marker.
func FormatValidity(valid bool) string {
	if valid {
		return "✓"
	}
	return "!"
}
