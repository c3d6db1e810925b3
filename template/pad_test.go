package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadAlignment(t *testing.T) {
	assert.Equal(t, "ab  ", Pad("ab", 4, AlignLeft, false))
	assert.Equal(t, "  ab", Pad("ab", 4, AlignRight, false))
	assert.Equal(t, " ab ", Pad("ab", 4, AlignCenter, false))
}

func TestPadOverflowVerbatimWithoutTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", Pad("abcdef", 3, AlignLeft, false))
}

func TestPadTruncateLeftKeepsHead(t *testing.T) {
	assert.Equal(t, "abc", Pad("abcdef", 3, AlignLeft, true))
}

func TestPadTruncateRightKeepsTail(t *testing.T) {
	assert.Equal(t, "def", Pad("abcdef", 3, AlignRight, true))
}

func TestPadTruncateCenterTrimsBothSides(t *testing.T) {
	assert.Equal(t, "bcde", Pad("abcdef", 4, AlignCenter, true))
}

func TestDisplayWidthIgnoresANSI(t *testing.T) {
	assert.Equal(t, 2, DisplayWidth("\x1b[31mhi\x1b[0m"))
}
