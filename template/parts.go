// Package template parses and renders the small placeholder language used
// by progress bar styles: literal text, newlines, and {key:align width!.style/alt}
// placeholders, including the two "wide" placeholders that consume residual
// line width.
package template

// Alignment controls which side of a padded field absorbs the slack.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// PartKind discriminates the three things a parsed template is made of.
type PartKind int

const (
	KindLiteral PartKind = iota
	KindNewline
	KindPlaceholder
)

// Part is one element of a parsed Template.
type Part struct {
	Kind PartKind

	// valid when Kind == KindLiteral
	Literal string

	// valid when Kind == KindPlaceholder
	Key      string
	Align    Alignment
	Width    int
	HasWidth bool
	Truncate bool
	Style    string
	AltStyle string
}

// Template is an ordered sequence of parts, split into one or more lines by
// KindNewline parts (and the implicit end of input).
type Template struct {
	Parts []Part
}
