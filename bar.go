package barline

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/jatill/barline/ansi"
	"github.com/jatill/barline/template"
	"github.com/jatill/barline/term"
)

// defaultDrawHz is the default cap on a direct target's draw rate.
const defaultDrawHz = 15.0

// Bar is a single progress indicator. It is safe to share across
// goroutines: every mutator acquires the bar's lock internally.
type Bar struct {
	mu    sync.Mutex
	state *barState
}

// BarOption configures a Bar at construction time.
type BarOption func(*Bar)

// WithStyle attaches a style other than the package default.
func WithStyle(style *ProgressStyle) BarOption {
	return func(b *Bar) { b.state.style = style }
}

// WithDrawTarget overrides the bar's default stderr target.
func WithDrawTarget(t term.Terminal) BarOption {
	return func(b *Bar) { b.state.target = newDirectTarget(t, newLeakyBucket(defaultDrawHz)) }
}

// WithUncappedDrawTarget overrides the bar's target with no rate limit.
func WithUncappedDrawTarget(t term.Terminal) BarOption {
	return func(b *Bar) { b.state.target = newDirectTarget(t, nil) }
}

// WithHiddenDrawTarget disables rendering entirely.
func WithHiddenDrawTarget() BarOption {
	return func(b *Bar) { b.state.target = hiddenTarget{} }
}

// WithStdout renders to stdout instead of the default stderr, at the
// default rate cap.
func WithStdout() BarOption {
	return func(b *Bar) {
		b.state.target = newDirectTarget(term.NewReal(os.Stdout), newLeakyBucket(defaultDrawHz))
	}
}

// WithMaxDrawRate caps the terminal refresh rate at hz redraws/sec in
// place of the default. It applies to the current direct target, so it
// must come after any option that replaces the target.
func WithMaxDrawRate(hz float64) BarOption {
	return func(b *Bar) {
		if d, ok := b.state.target.(*directTarget); ok {
			d.bucket = newLeakyBucket(hz)
		}
	}
}

// WithPosition sets the initial position.
func WithPosition(pos uint64) BarOption {
	return func(b *Bar) { b.state.pos = pos }
}

// WithElapsed backdates the bar's start time, for resuming work that
// began before the bar existed.
func WithElapsed(d time.Duration) BarOption {
	return func(b *Bar) {
		b.state.started = b.state.started.Add(-d)
		b.state.est.started = b.state.est.started.Add(-d)
	}
}

// WithDrawDelta sets the initial position-delta redraw policy.
func WithDrawDelta(n uint64) BarOption {
	return func(b *Bar) { b.state.setDrawDelta(n) }
}

// WithDrawRate sets the initial throughput redraw policy (updates/sec).
func WithDrawRate(n uint64) BarOption {
	return func(b *Bar) { b.state.setDrawRate(n) }
}

// WithMessage sets the initial message.
func WithMessage(msg string) BarOption {
	return func(b *Bar) { b.state.message = msg }
}

// WithPrefix sets the initial prefix.
func WithPrefix(prefix string) BarOption {
	return func(b *Bar) { b.state.prefix = prefix }
}

var (
	defaultStyle        = mustStyle("{wide_bar} {pos}/{len}")
	defaultSpinnerStyle = mustStyle("{spinner} {msg}")
)

func mustStyle(tpl string) *ProgressStyle {
	s, err := NewProgressStyle(tpl)
	if err != nil {
		panic(err)
	}
	return s
}

// NewBar builds a Bar of the given length (Unbounded for "unknown
// total"), rendering to stderr at the default rate cap until an option
// overrides it.
func NewBar(length uint64, opts ...BarOption) *Bar {
	now := time.Now()
	b := &Bar{state: newBarState(length, defaultStyle, now)}
	b.state.target = newDirectTarget(term.NewReal(os.Stderr), newLeakyBucket(defaultDrawHz))
	for _, opt := range opts {
		opt(b)
	}
	runtime.SetFinalizer(b, (*Bar).finalize)
	b.emit(true)
	return b
}

// finalize is the collection-time fallback for a bar whose last user
// reference went away while still in progress: it is hidden as if
// FinishAndClear had been called, unless the style's finish policy asks
// for a different final frame. Explicitly finished bars are left alone,
// so a frame a finish policy meant to keep visible stays visible.
func (b *Bar) finalize() {
	b.mu.Lock()
	terminal := b.state.status.terminal()
	policy := b.state.style.finish
	b.mu.Unlock()
	if terminal {
		return
	}
	if policy == FinishDefault {
		b.FinishAndClear()
		return
	}
	b.FinishUsingStyle()
}

// NewSpinner is NewBar with an unbounded length and the spinner default
// style, for tasks with no known total.
func NewSpinner(opts ...BarOption) *Bar {
	return NewBar(Unbounded, append([]BarOption{WithStyle(defaultSpinnerStyle)}, opts...)...)
}

func (b *Bar) snapshotLocked(now time.Time) Snapshot {
	s := b.state
	return Snapshot{
		Pos:      s.pos,
		Len:      s.length,
		Tick:     s.tick,
		Percent:  s.percent(),
		Message:  s.message,
		Prefix:   s.prefix,
		Elapsed:  s.elapsed(now),
		ETA:      s.etaDuration(),
		PerSec:   s.est.perSec(),
		Finished: s.status.terminal(),
	}
}

// renderLocked must be called while holding b.mu.
func (b *Bar) renderLocked(now time.Time) Frame {
	if b.state.status == DoneHidden {
		return Frame{}
	}
	snap := b.snapshotLocked(now)
	r := &styleRenderer{style: b.state.style, snap: snap, tabWidth: b.state.tabWidth}
	width := b.state.target.width()
	if width <= 0 {
		width = 80
	}
	lines, err := template.Render(b.state.style.tpl, width, r, ansi.Resolve)
	if err != nil {
		lines = []string{fmt.Sprintf("<template error: %v>", err)}
	}
	return Frame{Lines: lines}
}

// emit renders and applies the current state without going through the
// draw-suppression policy; NewBar uses it for the initial frame.
func (b *Bar) emit(force bool) error {
	b.mu.Lock()
	frame := b.renderLocked(time.Now())
	frame.Force = force
	target := b.state.target
	b.mu.Unlock()
	return target.apply(frame)
}

// mutate runs fn under the bar lock through the update chokepoint and
// draws only if the draw-suppression policy admits it.
func (b *Bar) mutate(fn func(*barState)) error {
	b.mu.Lock()
	now := time.Now()
	shouldDraw := b.state.update(now, fn)
	var frame Frame
	var target drawTarget
	if shouldDraw {
		frame = b.renderLocked(now)
		target = b.state.target
	}
	b.mu.Unlock()
	if !shouldDraw {
		return nil
	}
	return target.apply(frame)
}

// forceMutate is like mutate but always draws, bypassing draw-delta/rate
// suppression (finish and abandon paths use this).
func (b *Bar) forceMutate(fn func(*barState)) error {
	b.mu.Lock()
	now := time.Now()
	b.state.forceUpdate(now, fn)
	frame := b.renderLocked(now)
	frame.Force = true
	target := b.state.target
	b.mu.Unlock()
	return target.apply(frame)
}

// Inc advances the position by delta (saturating on overflow).
func (b *Bar) Inc(delta uint64) error {
	return b.mutate(func(s *barState) {
		if s.pos+delta < s.pos {
			s.pos = ^uint64(0)
			return
		}
		s.pos += delta
	})
}

// Tick advances the spinner counter without touching position.
func (b *Bar) Tick() error {
	return b.mutate(func(s *barState) { s.tick++ })
}

// SetPosition sets the absolute position.
func (b *Bar) SetPosition(pos uint64) error {
	return b.mutate(func(s *barState) { s.pos = pos })
}

// SetLength sets the total length (Unbounded for "unknown").
func (b *Bar) SetLength(length uint64) error {
	return b.mutate(func(s *barState) { s.length = length })
}

// IncLength increases the total length by delta.
func (b *Bar) IncLength(delta uint64) error {
	return b.mutate(func(s *barState) { s.length += delta })
}

// SetMessage replaces the bar's message field.
func (b *Bar) SetMessage(msg string) error {
	return b.mutate(func(s *barState) { s.message = msg })
}

// SetPrefix replaces the bar's prefix field.
func (b *Bar) SetPrefix(prefix string) error {
	return b.mutate(func(s *barState) { s.prefix = prefix })
}

// SetStyle swaps the bar's ProgressStyle.
func (b *Bar) SetStyle(style *ProgressStyle) error {
	return b.mutate(func(s *barState) { s.style = style })
}

// SetTabWidth sets how many spaces a literal tab expands to; 0 disables
// expansion.
func (b *Bar) SetTabWidth(n int) {
	b.mu.Lock()
	b.state.tabWidth = n
	b.mu.Unlock()
}

// SetDrawDelta sets the position-delta redraw policy: a redraw is
// admitted at most once every n position units.
func (b *Bar) SetDrawDelta(n uint64) {
	b.mu.Lock()
	b.state.setDrawDelta(n)
	b.mu.Unlock()
}

// SetDrawRate sets the throughput redraw policy (updates/sec); it takes
// precedence over draw-delta while nonzero.
func (b *Bar) SetDrawRate(n uint64) {
	b.mu.Lock()
	b.state.setDrawRate(n)
	b.mu.Unlock()
}

// Position returns the current position.
func (b *Bar) Position() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.pos
}

// Length returns the current length.
func (b *Bar) Length() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.length
}

// Snapshot returns a read-only copy of the bar's current state.
func (b *Bar) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked(time.Now())
}

// IsFinished reports whether the bar has reached a terminal status.
func (b *Bar) IsFinished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.status.terminal()
}

// SetDrawTarget points the bar at a different terminal, rate-capped at
// the default Hz.
func (b *Bar) SetDrawTarget(t term.Terminal) {
	b.bindTarget(newDirectTarget(t, newLeakyBucket(defaultDrawHz)))
}

// ResetElapsed restarts the elapsed clock and discards ETA samples.
func (b *Bar) ResetElapsed() error {
	return b.mutate(func(s *barState) {
		now := time.Now()
		s.started = now
		s.est = newETAEstimator(now)
	})
}

// Reset returns the bar to a fresh in-progress state: position and tick
// zeroed, elapsed clock restarted, ETA samples discarded.
func (b *Bar) Reset() error {
	return b.forceMutate(func(s *barState) {
		now := time.Now()
		s.pos = 0
		s.tick = 0
		s.status = InProgress
		s.started = now
		s.est = newETAEstimator(now)
		s.drawNext = 0
	})
}

// bindTarget swaps the bar's draw target; used by Multi when inserting
// or removing a bar.
func (b *Bar) bindTarget(t drawTarget) {
	b.mu.Lock()
	b.state.target = t
	b.mu.Unlock()
}

// stopTicker halts the steady-tick worker if one is running; it must be
// called without b.mu held.
func (b *Bar) stopTicker() {
	b.mu.Lock()
	stop := b.state.tickerStop
	b.state.tickerStop = nil
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Finish marks the bar DoneVisible and snaps position to length.
func (b *Bar) Finish() error {
	defer b.stopTicker()
	return b.forceMutate(func(s *barState) {
		if s.length != Unbounded {
			s.pos = s.length
		}
		s.status = DoneVisible
	})
}

// FinishWithMessage is Finish plus a final message.
func (b *Bar) FinishWithMessage(msg string) error {
	defer b.stopTicker()
	return b.forceMutate(func(s *barState) {
		if s.length != Unbounded {
			s.pos = s.length
		}
		s.message = msg
		s.status = DoneVisible
	})
}

// FinishAtCurrentPos marks the bar DoneVisible without moving pos.
func (b *Bar) FinishAtCurrentPos() error {
	defer b.stopTicker()
	return b.forceMutate(func(s *barState) { s.status = DoneVisible })
}

// Abandon marks the bar DoneVisible, leaving pos exactly where it was.
func (b *Bar) Abandon() error {
	defer b.stopTicker()
	return b.forceMutate(func(s *barState) { s.status = DoneVisible })
}

// AbandonWithMessage is Abandon plus a final message.
func (b *Bar) AbandonWithMessage(msg string) error {
	defer b.stopTicker()
	return b.forceMutate(func(s *barState) {
		s.message = msg
		s.status = DoneVisible
	})
}

// FinishAndClear snaps pos to length and hides the bar's output.
func (b *Bar) FinishAndClear() error {
	defer b.stopTicker()
	return b.forceMutate(func(s *barState) {
		if s.length != Unbounded {
			s.pos = s.length
		}
		s.status = DoneHidden
	})
}

// FinishUsingStyle applies the bar's attached style's FinishPolicy.
func (b *Bar) FinishUsingStyle() error {
	b.mu.Lock()
	policy := b.state.style.finish
	msg := b.state.style.finishMessage
	b.mu.Unlock()
	switch policy {
	case FinishAndClear:
		return b.FinishAndClear()
	case FinishAndLeave, FinishAbandon:
		return b.Abandon()
	case FinishWithFinalMessage:
		return b.FinishWithMessage(msg)
	case FinishAbandonWithFinalMessage:
		return b.AbandonWithMessage(msg)
	default:
		return b.Finish()
	}
}

// Println synchronously emits a log line above the bar's current frame
// (or, for a bar owned by a Multi, above the whole composed block).
func (b *Bar) Println(line string) error {
	b.mu.Lock()
	now := time.Now()
	target := b.state.target
	if rt, ok := target.(*remoteTarget); ok {
		b.mu.Unlock()
		rt.multi.pushOrphan(line)
		return rt.multi.composeAndDraw(true)
	}
	frame := b.renderLocked(now)
	b.mu.Unlock()
	frame.Lines = append([]string{line}, frame.Lines...)
	frame.OrphanLines = 1
	frame.Force = true
	return target.apply(frame)
}

// Suspend clears the bar's display, runs fn with the terminal free for
// external writers, then forces a redraw.
func (b *Bar) Suspend(fn func()) error {
	b.mu.Lock()
	target := b.state.target
	if rt, ok := target.(*remoteTarget); ok {
		b.mu.Unlock()
		return rt.multi.Suspend(fn)
	}
	defer b.mu.Unlock()
	if err := target.apply(Frame{Force: true}); err != nil {
		return err
	}
	fn()
	frame := b.renderLocked(time.Now())
	frame.Force = true
	return target.apply(frame)
}

// EnableSteadyTick starts a background worker that advances the spinner
// every period, until the bar finishes, period is set to 0, or the bar is
// dropped. A weak back-reference is used so the ticker can never keep a
// bar alive past its last strong owner.
func (b *Bar) EnableSteadyTick(period time.Duration) {
	b.stopTicker()
	b.mu.Lock()
	b.state.steadyTickMs = uint64(period.Milliseconds())
	if period > 0 {
		b.state.tickerStop = startSteadyTicker(b, period)
	}
	b.mu.Unlock()
}
