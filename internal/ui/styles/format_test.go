package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "short", 10, "short"},
		{"exact fit", "exact", 5, "exact"},
		{"truncated", "a long heading", 9, "a long..."},
		{"tiny width", "anything", 2, ".."},
		{"zero width", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			require.Equal(t, tt.expected, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
		})
	}
}

func TestFormatPageIndicator(t *testing.T) {
	require.Equal(t, "Page 1/3", FormatPageIndicator(0, 3))
	require.Equal(t, "Page 3/3", FormatPageIndicator(2, 3))
}

func TestFormatValidity(t *testing.T) {
	require.Equal(t, "✓", FormatValidity(true))
	require.Equal(t, "!", FormatValidity(false))
}
