package barline

import (
	"math"
	"time"
)

// Unbounded is the sentinel length meaning "total unknown".
const Unbounded uint64 = math.MaxUint64

// Status is a Bar's lifecycle stage. Once terminal (anything but
// InProgress) a Bar only goes back through an explicit Reset.
type Status int

const (
	InProgress Status = iota
	DoneVisible
	DoneHidden
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case DoneVisible:
		return "done-visible"
	case DoneHidden:
		return "done-hidden"
	default:
		return "unknown"
	}
}

func (s Status) terminal() bool { return s != InProgress }

// barState is the mutable heart of a Bar, guarded by the owning Bar's mu. Every public
// mutator on Bar funnels through update or forceUpdate so that the
// estimator, draw-suppression policy, and draw trigger stay consistent.
type barState struct {
	pos, length uint64
	tick        uint64
	started     time.Time

	message, prefix string
	style           *ProgressStyle
	status          Status

	drawDelta, drawRate, drawNext uint64
	est                           *etaEstimator

	tabWidth int

	steadyTickMs uint64
	tickerStop   func()

	target drawTarget
}

func newBarState(length uint64, style *ProgressStyle, now time.Time) *barState {
	return &barState{
		length:   length,
		style:    style,
		status:   InProgress,
		started:  now,
		est:      newETAEstimator(now),
		tabWidth: 8,
	}
}

// update is the single chokepoint every position/message/style mutation
// passes through: it runs mutator under the bar lock, records an
// estimator step if pos moved, and reports whether draw-suppression
// admits a redraw this time.
func (s *barState) update(now time.Time, mutator func(*barState)) bool {
	oldPos := s.pos
	mutator(s)
	if s.pos != oldPos {
		s.est.recordStep(s.pos, now)
	}
	return s.maybeAdvance()
}

// forceUpdate behaves like update but always reports a draw: it resets
// drawNext to the pre-mutation position first, guaranteeing the
// post-mutation position satisfies the admission check.
func (s *barState) forceUpdate(now time.Time, mutator func(*barState)) bool {
	s.drawNext = s.pos
	oldPos := s.pos
	mutator(s)
	if s.pos != oldPos {
		s.est.recordStep(s.pos, now)
	}
	s.maybeAdvance()
	return true
}

func (s *barState) maybeAdvance() bool {
	if s.pos < s.drawNext {
		return false
	}
	if s.drawRate != 0 {
		s.drawNext = s.pos + uint64(s.est.perSec())/s.drawRate
	} else {
		s.drawNext = s.pos + s.drawDelta
	}
	return true
}

func (s *barState) setDrawDelta(n uint64) {
	s.drawDelta = n
	s.drawNext = s.pos + n
}

func (s *barState) setDrawRate(n uint64) {
	s.drawRate = n
	if n == 0 {
		s.drawNext = s.pos + s.drawDelta
		return
	}
	s.drawNext = s.pos + uint64(s.est.perSec())/n
}

// fraction is the clamped [0,1] completion ratio; an unbounded bar is
// always empty (0) and a zero-length bar is always "full" (1).
func (s *barState) fraction() float64 {
	if s.length == Unbounded {
		return 0
	}
	if s.length == 0 {
		return 1
	}
	f := float64(s.pos) / float64(s.length)
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f
}

func (s *barState) percent() uint64 {
	return uint64(math.Round(s.fraction() * 100))
}

func (s *barState) remaining() uint64 {
	if s.length == Unbounded || s.length <= s.pos {
		return 0
	}
	return s.length - s.pos
}

func (s *barState) elapsed(now time.Time) time.Duration {
	return now.Sub(s.started)
}

func (s *barState) etaDuration() time.Duration {
	if s.length == Unbounded || s.status.terminal() {
		return 0
	}
	return s.est.eta(s.remaining())
}
