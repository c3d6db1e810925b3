// Package ansi turns the dotted style tokens a template places in a
// `.style` or `/alt_style` slot (e.g. "red.bold", "on_blue") into the SGR
// escape sequences that wrap rendered content.
package ansi

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const resetSeq = "\x1b[0m"

var attrByToken = map[string]color.Attribute{
	"bold":      color.Bold,
	"dim":       color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,
	"blink":     color.BlinkSlow,
	"reverse":   color.ReverseVideo,
	"hidden":    color.Concealed,
	"strike":    color.CrossedOut,

	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,

	"on_black":   color.BgBlack,
	"on_red":     color.BgRed,
	"on_green":   color.BgGreen,
	"on_yellow":  color.BgYellow,
	"on_blue":    color.BgBlue,
	"on_magenta": color.BgMagenta,
	"on_cyan":    color.BgCyan,
	"on_white":   color.BgWhite,
}

// Resolve turns a dotted style token into an escape prefix/suffix pair.
// Unknown segments are ignored rather than erroring, so a template author's
// typo degrades to plain text instead of aborting the render.
func Resolve(token string) (prefix, suffix string) {
	if token == "" {
		return "", ""
	}
	var attrs []color.Attribute
	for _, seg := range strings.Split(token, ".") {
		if a, ok := attrByToken[seg]; ok {
			attrs = append(attrs, a)
		}
	}
	if len(attrs) == 0 {
		return "", ""
	}
	codes := make([]string, len(attrs))
	for i, a := range attrs {
		codes[i] = fmt.Sprintf("%d", a)
	}
	return "\x1b[" + strings.Join(codes, ";") + "m", resetSeq
}
