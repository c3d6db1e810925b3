package template

import (
	"fmt"
	"strings"
)

// WideKind identifies which residual-width placeholder a key resolves to.
type WideKind int

const (
	WideNone WideKind = iota
	WideBar
	WideMsg
)

// PlaceholderOpts carries a placeholder's parsed layout options through to
// the Renderer, so it can shape content without re-parsing the template.
type PlaceholderOpts struct {
	Align    Alignment
	Width    int
	HasWidth bool
	Truncate bool
	Style    string
	AltStyle string
}

// Renderer supplies placeholder content against a single, fixed snapshot of
// state. SelfRendered keys (the "bar" family) are responsible for their own
// sizing and styling; every other key is padded/truncated/styled generically
// by Render using the StyleResolver it was given.
type Renderer interface {
	Resolve(key string, opts PlaceholderOpts) string
	SelfRendered(key string) bool
	WideKind(key string) WideKind
	RenderWide(kind WideKind, left int, opts PlaceholderOpts) string
	TabWidth() int
}

// StyleResolver maps a dotted style token (e.g. "red.bold") to the escape
// prefix/suffix pair that wraps content in it. An empty token must resolve
// to ("", "").
type StyleResolver func(token string) (prefix, suffix string)

const wideSentinel = "\x00"

// Render walks tpl's parts against r and produces one output string per
// template line, each clamped to target width by wide-placeholder expansion.
// At most one wide placeholder per line is supported; a second one is a
// render-time error (spec leaves multi-wide-per-line unspecified; we refuse
// rather than guess).
func Render(tpl *Template, targetWidth int, r Renderer, style StyleResolver) ([]string, error) {
	var lines []string
	var cur strings.Builder
	sawWide := false
	var wideKind WideKind
	var wideOpts PlaceholderOpts

	tabWidth := r.TabWidth()
	expandTabs := func(s string) string {
		if tabWidth <= 0 || !strings.Contains(s, "\t") {
			return s
		}
		return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	}

	flush := func() (string, error) {
		line := cur.String()
		cur.Reset()
		if !sawWide {
			return line, nil
		}
		sawWide = false
		stripped := strings.Replace(line, wideSentinel, "", 1)
		left := targetWidth - DisplayWidth(stripped)
		if left < 0 {
			left = 0
		}
		content := r.RenderWide(wideKind, left, wideOpts)
		return strings.Replace(line, wideSentinel, content, 1), nil
	}

	for _, part := range tpl.Parts {
		switch part.Kind {
		case KindLiteral:
			cur.WriteString(expandTabs(part.Literal))
		case KindNewline:
			line, err := flush()
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		case KindPlaceholder:
			opts := PlaceholderOpts{
				Align:    part.Align,
				Width:    part.Width,
				HasWidth: part.HasWidth,
				Truncate: part.Truncate,
				Style:    part.Style,
				AltStyle: part.AltStyle,
			}
			if kind := r.WideKind(part.Key); kind != WideNone {
				if sawWide {
					return nil, fmt.Errorf("template: more than one wide placeholder on a single line")
				}
				sawWide = true
				wideKind = kind
				wideOpts = opts
				cur.WriteString(wideSentinel)
				continue
			}
			content := expandTabs(r.Resolve(part.Key, opts))
			if !r.SelfRendered(part.Key) {
				if opts.HasWidth {
					content = Pad(content, opts.Width, opts.Align, opts.Truncate)
				}
				if opts.Style != "" && style != nil {
					pre, suf := style(opts.Style)
					content = pre + content + suf
				}
			}
			cur.WriteString(content)
		}
	}

	if cur.Len() > 0 {
		line, err := flush()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if lines == nil {
		lines = []string{""}
	}
	return lines, nil
}
