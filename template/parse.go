package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseError reports an unexpected character encountered while parsing a
// template, together with the parser state that was active when it was hit.
type ParseError struct {
	Pos   int
	Char  rune
	State string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template: unexpected %q at rune %d (in %s state)", e.Char, e.Pos, e.State)
}

type parseState int

const (
	stLiteral parseState = iota
	stMaybeOpen
	stKey
	stAlign
	stWidth
	stFirstStyle
	stAltStyle
)

func (s parseState) String() string {
	switch s {
	case stLiteral:
		return "literal"
	case stMaybeOpen:
		return "maybe-open"
	case stKey:
		return "key"
	case stAlign:
		return "align"
	case stWidth:
		return "width"
	case stFirstStyle:
		return "first-style"
	case stAltStyle:
		return "alt-style"
	default:
		return "unknown"
	}
}

// errBacktrack signals that a `{...}` run was not a well-formed placeholder
// and should be emitted verbatim as literal text instead of failing.
var errBacktrack = errors.New("template: backtrack to literal")

// Parse compiles a template string into its sequence of parts.
func Parse(s string) (*Template, error) {
	p := &parser{input: []rune(s)}
	return p.run()
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) run() (*Template, error) {
	t := &Template{}
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			t.Parts = append(t.Parts, Part{Kind: KindLiteral, Literal: lit.String()})
			lit.Reset()
		}
	}

	for p.pos < len(p.input) {
		c := p.input[p.pos]

		switch {
		case c == '\n':
			flushLiteral()
			t.Parts = append(t.Parts, Part{Kind: KindNewline})
			p.pos++
		case c == '{' && p.peekIs('{'):
			lit.WriteByte('{')
			p.pos += 2
		case c == '{':
			part, consumed, err := p.parsePlaceholder()
			if err != nil {
				if errors.Is(err, errBacktrack) {
					lit.WriteString(string(p.input[p.pos : p.pos+consumed]))
					p.pos += consumed
					continue
				}
				return nil, err
			}
			flushLiteral()
			t.Parts = append(t.Parts, part)
			p.pos += consumed
		case c == '}' && p.peekIs('}'):
			lit.WriteByte('}')
			p.pos += 2
		case c == '}':
			return nil, &ParseError{Pos: p.pos, Char: c, State: stLiteral.String()}
		default:
			lit.WriteRune(c)
			p.pos++
		}
	}
	flushLiteral()
	return t, nil
}

func (p *parser) peekIs(r rune) bool {
	return p.pos+1 < len(p.input) && p.input[p.pos+1] == r
}

// parsePlaceholder parses a `{...}` run starting at p.input[p.pos] == '{'.
// It returns the number of runes consumed (including both braces) and, on
// backtrack, that count refers to the literal span to re-emit verbatim.
func (p *parser) parsePlaceholder() (Part, int, error) {
	start := p.pos
	i := start + 1
	n := len(p.input)

	backtrack := func() (Part, int, error) {
		j := i
		for j < n && p.input[j] != '}' {
			j++
		}
		if j < n {
			j++
		}
		return Part{}, j - start, errBacktrack
	}

	if i >= n {
		return Part{}, 0, &ParseError{Pos: start, Char: '{', State: stKey.String()}
	}
	if unicode.IsSpace(p.input[i]) {
		return backtrack()
	}

	keyStart := i
	for i < n && p.input[i] != '}' && p.input[i] != ':' {
		if unicode.IsSpace(p.input[i]) {
			return backtrack()
		}
		i++
	}
	if i >= n {
		return Part{}, 0, &ParseError{Pos: start, Char: '{', State: stKey.String()}
	}
	key := string(p.input[keyStart:i])
	if key == "" {
		return backtrack()
	}

	part := Part{Kind: KindPlaceholder, Key: key, Align: AlignLeft}

	if p.input[i] == '}' {
		return part, i + 1 - start, nil
	}

	i++ // skip ':'

	if i < n {
		switch p.input[i] {
		case '<':
			part.Align = AlignLeft
			i++
		case '^':
			part.Align = AlignCenter
			i++
		case '>':
			part.Align = AlignRight
			i++
		}
	}

	widthStart := i
	for i < n && p.input[i] >= '0' && p.input[i] <= '9' {
		i++
	}
	if i > widthStart {
		w, err := strconv.Atoi(string(p.input[widthStart:i]))
		if err != nil {
			return Part{}, 0, &ParseError{Pos: widthStart, Char: p.input[widthStart], State: stWidth.String()}
		}
		part.Width = w
		part.HasWidth = true
	}

	if i < n && p.input[i] == '!' {
		part.Truncate = true
		i++
	}

	if i < n && p.input[i] == '.' {
		i++
		styleStart := i
		for i < n && p.input[i] != '}' && p.input[i] != '/' {
			if unicode.IsSpace(p.input[i]) {
				return backtrack()
			}
			i++
		}
		part.Style = string(p.input[styleStart:i])
	}

	if i < n && p.input[i] == '/' {
		i++
		altStart := i
		for i < n && p.input[i] != '}' {
			if unicode.IsSpace(p.input[i]) {
				return backtrack()
			}
			i++
		}
		part.AltStyle = string(p.input[altStart:i])
	}

	if i >= n || p.input[i] != '}' {
		if i < n {
			return Part{}, 0, &ParseError{Pos: i, Char: p.input[i], State: stAltStyle.String()}
		}
		return Part{}, 0, &ParseError{Pos: start, Char: '{', State: stKey.String()}
	}

	return part, i + 1 - start, nil
}
