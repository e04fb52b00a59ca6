package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestRenderFormSection_TitleAndContent(t *testing.T) {
	out := RenderFormSection([]string{"row one", "row two"}, "Question", "required", 30, false, BorderHighlightFocusColor)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4, "top border + 2 content rows + bottom border")
	require.Contains(t, lines[0], "Question")
	require.Contains(t, lines[0], "(required)")
	require.Contains(t, lines[1], "row one")
	require.Contains(t, lines[2], "row two")
	require.Contains(t, lines[0], "╭")
	require.Contains(t, lines[3], "╰")
}

func TestRenderFormSection_NoTitle(t *testing.T) {
	out := RenderFormSection([]string{"content"}, "", "", 20, false, BorderHighlightFocusColor)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.NotContains(t, lines[0], " ") // Plain border, no inline title
}

func TestRenderFormSection_LinesShareWidth(t *testing.T) {
	out := RenderFormSection([]string{"a", "longer row"}, "T", "", 24, true, BorderHighlightFocusColor)

	lines := strings.Split(out, "\n")
	for _, line := range lines {
		require.Equal(t, 24, lipgloss.Width(line), "line %q", line)
	}
}
