package template

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")

// DisplayWidth returns the column width of s, ignoring any embedded ANSI
// escape sequences (styling never consumes terminal cells).
func DisplayWidth(s string) int {
	if strings.IndexByte(s, 0x1b) >= 0 {
		s = ansiRe.ReplaceAllString(s, "")
	}
	return runewidth.StringWidth(s)
}

// Pad adjusts s to occupy exactly width display columns: padding the side
// alignment leaves slack on, or truncating from the side opposite alignment
// when truncate is set (Center trims symmetrically). If s already exceeds
// width and truncate is false, it is returned unchanged (spec: overflow is
// emitted verbatim).
func Pad(s string, width int, align Alignment, truncate bool) string {
	cols := DisplayWidth(s)
	if cols > width {
		if !truncate {
			return s
		}
		return truncateWidth(s, width, align)
	}
	if cols == width {
		return s
	}
	diff := width - cols
	switch align {
	case AlignRight:
		return strings.Repeat(" ", diff) + s
	case AlignCenter:
		left := diff / 2
		right := diff - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", diff)
	}
}

// truncateWidth removes runes from the side opposite the alignment so the
// remainder fits within width columns (Center trims both sides evenly).
func truncateWidth(s string, width int, align Alignment) string {
	runes := []rune(s)
	widths := make([]int, len(runes))
	total := 0
	for i, r := range runes {
		w := runewidth.RuneWidth(r)
		widths[i] = w
		total += w
	}
	if total <= width {
		return s
	}

	switch align {
	case AlignRight:
		// keep the tail: trim from the left.
		acc := 0
		for i := len(runes) - 1; i >= 0; i-- {
			acc += widths[i]
			if acc > width {
				return string(runes[i+1:])
			}
		}
		return s
	case AlignCenter:
		overflow := total - width
		trimLeft := overflow / 2
		trimRight := overflow - trimLeft
		lo, hi := 0, len(runes)
		acc := 0
		for acc < trimLeft && lo < hi {
			acc += widths[lo]
			lo++
		}
		acc = 0
		for acc < trimRight && hi > lo {
			hi--
			acc += widths[hi]
		}
		return string(runes[lo:hi])
	default: // AlignLeft: keep the head, trim from the right.
		acc := 0
		for i, w := range widths {
			acc += w
			if acc > width {
				return string(runes[:i])
			}
		}
		return s
	}
}
