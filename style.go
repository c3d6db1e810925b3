package barline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jatill/barline/ansi"
	"github.com/jatill/barline/humanize"
	"github.com/jatill/barline/template"
)

// FinishPolicy decides what a bar's terminal frame looks like once its
// lifecycle reaches a DoneVisible/DoneHidden status without an explicit
// finish_with_message-style call overriding it.
type FinishPolicy int

const (
	// FinishDefault snaps pos to len and leaves the bar's last frame visible.
	FinishDefault FinishPolicy = iota
	// FinishAndClear snaps pos to len but hides the bar entirely.
	FinishAndClear
	// FinishAndLeave leaves pos and the last frame exactly as they were.
	FinishAndLeave
	// FinishAbandon behaves exactly like FinishAndLeave: pos and the last
	// frame stay as they were.
	FinishAbandon
	// FinishWithFinalMessage snaps pos to len and swaps in the style's
	// configured final message.
	FinishWithFinalMessage
	// FinishAbandonWithFinalMessage keeps pos where it is and swaps in
	// the style's configured final message.
	FinishAbandonWithFinalMessage
)

var defaultTickStrings = []string{"⠁", "⠂", "⠄", "⡀", "⢀", "⠠", "⠐", "⠈", "⠿"}
var defaultProgressChars = []string{"█", "░"}

// ProgressStyle is an immutable (after construction) template plus the
// tick/glyph tables and finish policy a Bar renders itself with. Building
// one validates tick and glyph counts and widths up front, so a malformed
// style can never reach a Bar.
type ProgressStyle struct {
	tpl           *template.Template
	tickStrings   []string
	progressChars []string
	glyphWidth    int
	finish        FinishPolicy
	finishMessage string
	customKeys    map[string]func(Snapshot) string
}

// StyleOption configures a ProgressStyle at construction time.
type StyleOption func(*ProgressStyle)

// WithTickStrings overrides the spinner frame sequence. Must supply at
// least 2 strings; the last is reserved for the finished state.
func WithTickStrings(frames []string) StyleOption {
	return func(s *ProgressStyle) { s.tickStrings = append([]string(nil), frames...) }
}

// WithProgressChars overrides the progress-bar glyph palette. Must supply
// at least 2 grapheme clusters, all of equal display width.
func WithProgressChars(glyphs []string) StyleOption {
	return func(s *ProgressStyle) { s.progressChars = append([]string(nil), glyphs...) }
}

// WithFinishPolicy sets the policy consulted by FinishUsingStyle.
func WithFinishPolicy(p FinishPolicy) StyleOption {
	return func(s *ProgressStyle) { s.finish = p }
}

// WithFinishMessage sets the final message the *WithFinalMessage finish
// policies swap in when the bar completes.
func WithFinishMessage(msg string) StyleOption {
	return func(s *ProgressStyle) { s.finishMessage = msg }
}

// WithKey registers a custom placeholder key resolved by fn against a
// Snapshot, for templates that reference application-specific fields
// beyond the built-in set.
func WithKey(key string, fn func(Snapshot) string) StyleOption {
	return func(s *ProgressStyle) {
		if s.customKeys == nil {
			s.customKeys = make(map[string]func(Snapshot) string)
		}
		s.customKeys[key] = fn
	}
}

// NewProgressStyle parses tplStr and applies opts, validating tick
// strings and progress glyphs eagerly so an invalid style never attaches
// to a Bar.
func NewProgressStyle(tplStr string, opts ...StyleOption) (*ProgressStyle, error) {
	tpl, err := template.Parse(tplStr)
	if err != nil {
		return nil, err
	}
	s := &ProgressStyle{
		tpl:           tpl,
		tickStrings:   append([]string(nil), defaultTickStrings...),
		progressChars: append([]string(nil), defaultProgressChars...),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ProgressStyle) validate() error {
	if len(s.tickStrings) < 2 {
		invariant("style must have at least 2 tick strings, got %d", len(s.tickStrings))
	}
	if len(s.progressChars) < 2 {
		invariant("style must have at least 2 progress glyphs, got %d", len(s.progressChars))
	}
	w := runewidth.StringWidth(s.progressChars[0])
	for _, g := range s.progressChars {
		if runewidth.StringWidth(g) != w {
			invariant("progress glyphs must share one display width: %q differs", g)
		}
	}
	s.glyphWidth = w
	if w <= 0 {
		invariant("progress glyphs must have positive display width")
	}
	return nil
}

// Snapshot is a read-only view of a Bar's state at the instant a frame is
// rendered, passed to custom keys registered via WithKey.
type Snapshot struct {
	Pos, Len uint64
	Tick     uint64
	Percent  uint64
	Message  string
	Prefix   string
	Elapsed  time.Duration
	ETA      time.Duration
	PerSec   float64
	Finished bool
}

// styleRenderer adapts a ProgressStyle plus a single Snapshot to the
// template.Renderer contract for one render pass.
type styleRenderer struct {
	style    *ProgressStyle
	snap     Snapshot
	tabWidth int
}

var _ template.Renderer = (*styleRenderer)(nil)

func (r *styleRenderer) TabWidth() int { return r.tabWidth }

func (r *styleRenderer) SelfRendered(key string) bool { return key == "bar" }

func (r *styleRenderer) WideKind(key string) template.WideKind {
	switch key {
	case "wide_bar":
		return template.WideBar
	case "wide_msg":
		return template.WideMsg
	default:
		return template.WideNone
	}
}

func (r *styleRenderer) Resolve(key string, opts template.PlaceholderOpts) string {
	if fn, ok := r.style.customKeys[key]; ok {
		return fn(r.snap)
	}
	switch key {
	case "bar":
		width := 20
		if opts.HasWidth {
			width = opts.Width
		}
		return r.style.renderBarGlyphs(width, r.fraction(), opts.Style, opts.AltStyle)
	case "spinner":
		return r.spinnerFrame()
	case "prefix":
		return r.snap.Prefix
	case "msg":
		return r.snap.Message
	case "pos":
		return strconv.FormatUint(r.snap.Pos, 10)
	case "len":
		if r.snap.Len == Unbounded {
			return "?"
		}
		return strconv.FormatUint(r.snap.Len, 10)
	case "human_pos":
		return humanize.Count(r.snap.Pos)
	case "human_len":
		if r.snap.Len == Unbounded {
			return "?"
		}
		return humanize.Count(r.snap.Len)
	case "percent":
		return strconv.FormatUint(r.snap.Percent, 10)
	case "bytes", "binary_bytes":
		return humanize.BinaryBytes(r.snap.Pos)
	case "total_bytes", "binary_total_bytes":
		return humanize.BinaryBytes(r.snap.Len)
	case "decimal_bytes":
		return humanize.DecimalBytes(r.snap.Pos)
	case "decimal_total_bytes":
		return humanize.DecimalBytes(r.snap.Len)
	case "elapsed":
		return humanize.Duration(r.snap.Elapsed)
	case "elapsed_precise":
		return humanize.PreciseDuration(r.snap.Elapsed)
	case "eta":
		return humanize.Duration(r.snap.ETA)
	case "eta_precise":
		return humanize.PreciseDuration(r.snap.ETA)
	case "duration":
		return humanize.Duration(r.snap.Elapsed + r.snap.ETA)
	case "duration_precise":
		return humanize.PreciseDuration(r.snap.Elapsed + r.snap.ETA)
	case "per_sec":
		return fmt.Sprintf("%.1f/s", r.snap.PerSec)
	case "bytes_per_sec":
		return humanize.DecimalBytes(uint64(r.snap.PerSec)) + "/s"
	case "binary_bytes_per_sec":
		return humanize.BinaryBytes(uint64(r.snap.PerSec)) + "/s"
	default:
		return ""
	}
}

func (r *styleRenderer) fraction() float64 {
	if r.snap.Len == Unbounded {
		return 0
	}
	if r.snap.Len == 0 {
		return 1
	}
	f := float64(r.snap.Pos) / float64(r.snap.Len)
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f
}

func (r *styleRenderer) spinnerFrame() string {
	frames := r.style.tickStrings
	if r.snap.Finished {
		return frames[len(frames)-1]
	}
	n := len(frames) - 1
	return frames[r.snap.Tick%uint64(n)]
}

func (r *styleRenderer) RenderWide(kind template.WideKind, left int, opts template.PlaceholderOpts) string {
	switch kind {
	case template.WideBar:
		return r.style.renderBarGlyphs(left, r.fraction(), opts.Style, opts.AltStyle)
	case template.WideMsg:
		// a wide message always truncates: it owns exactly the residual
		// width, overflow would push the line past the terminal edge
		content := template.Pad(r.snap.Message, left, opts.Align, true)
		if opts.Style != "" {
			pre, suf := ansi.Resolve(opts.Style)
			content = pre + content + suf
		}
		return content
	default:
		return ""
	}
}

// renderBarGlyphs implements the fixed-cell fill/partial/empty layout:
// full cells of glyph[0], one fine-grained partial glyph at the boundary,
// and empty cells of the last glyph, wrapped in style/altStyle.
func (s *ProgressStyle) renderBarGlyphs(width int, fraction float64, style, altStyle string) string {
	glyphs := s.progressChars
	if s.glyphWidth <= 0 || width <= 0 {
		return ""
	}
	k := width / s.glyphWidth
	if k <= 0 {
		return ""
	}
	x := fraction * float64(k)
	full := int(math.Floor(x))
	if full > k {
		full = k
	}
	hasHead := x > 0 && x < float64(k)
	var curIdx int
	if hasHead {
		n := len(glyphs) - 2
		frac := x - math.Floor(x)
		cur := n - int(math.Floor(frac*float64(n)))
		if cur < 1 {
			cur = 1
		}
		curIdx = cur
	}
	empty := k - full
	if hasHead {
		empty--
	}
	if empty < 0 {
		empty = 0
	}

	var filled strings.Builder
	filled.WriteString(strings.Repeat(glyphs[0], full))
	if hasHead {
		filled.WriteString(glyphs[curIdx])
	}
	emptyRun := strings.Repeat(glyphs[len(glyphs)-1], empty)

	if style == "" && altStyle == "" {
		return filled.String() + emptyRun
	}
	pre, suf := ansi.Resolve(style)
	altPre, altSuf := ansi.Resolve(altStyle)
	return pre + filled.String() + suf + altPre + emptyRun + altSuf
}
