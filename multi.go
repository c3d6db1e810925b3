package barline

import (
	"os"
	"sync"

	"github.com/jatill/barline/term"
)

// Multi multiplexes many Bars onto one terminal: it owns the single
// direct draw target every member bar's rendered lines eventually pass
// through, preserving their visual order and interleaving orphan lines
// (println output) above the block.
//
// The slot/free-set/ordering scheme avoids a Bar<->Multi reference
// cycle: a remoteTarget stores only a slot id and a pointer to this
// Multi, and the Multi itself stores only rendered line groups, never a
// live Bar reference. That is what makes "zombie" slots possible: a
// bar's last frame can keep rendering long after nothing refers to the
// Bar itself.
type Multi struct {
	mu sync.RWMutex

	drawStates [][]string // nil entry == free slot; live slots are non-nil, possibly empty
	freeSet    []int
	ordering   []int

	orphans []string

	direct   *directTarget
	sortFunc func(ids []int) []int
}

// MultiOption configures a Multi at construction time.
type MultiOption func(*Multi)

// WithMultiDrawTarget overrides the Multi's default stderr target.
func WithMultiDrawTarget(t term.Terminal) MultiOption {
	return func(m *Multi) { m.direct = newDirectTarget(t, newLeakyBucket(defaultDrawHz)) }
}

// WithMultiUncappedDrawTarget overrides the Multi's target with no rate limit.
func WithMultiUncappedDrawTarget(t term.Terminal) MultiOption {
	return func(m *Multi) { m.direct = newDirectTarget(t, nil) }
}

// WithMultiAlignment sets the initial alignment.
func WithMultiAlignment(a Alignment) MultiOption {
	return func(m *Multi) { m.direct.alignment = a }
}

// WithMultiMoveCursor starts the Multi in cursor-up-and-overwrite mode
// rather than the default clear-and-rewrite.
func WithMultiMoveCursor() MultiOption {
	return func(m *Multi) { m.direct.moveCursor = true }
}

// WithMultiMaxDrawRate caps the Multi's refresh rate at hz redraws/sec.
// It applies to the current direct target, so it must come after any
// option that replaces the target.
func WithMultiMaxDrawRate(hz float64) MultiOption {
	return func(m *Multi) { m.direct.bucket = newLeakyBucket(hz) }
}

// WithSortFunc installs a hook consulted immediately before every compose
// pass: it receives the current top-to-bottom slot ordering and returns
// the ordering to actually render with. A nil return (or omitting this
// option) renders insertion order unchanged.
func WithSortFunc(fn func(ids []int) []int) MultiOption {
	return func(m *Multi) { m.sortFunc = fn }
}

// NewMulti builds a Multi rendering to stderr at the default rate cap
// until an option overrides it.
func NewMulti(opts ...MultiOption) *Multi {
	m := &Multi{direct: newDirectTarget(term.NewReal(os.Stderr), newLeakyBucket(defaultDrawHz))}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add inserts bar at the end of the visual order.
func (m *Multi) Add(bar *Bar) {
	m.insertAt(bar, func(ord []int) int { return len(ord) })
}

// Insert places bar at index i, clamped to [0, n].
func (m *Multi) Insert(i int, bar *Bar) {
	m.insertAt(bar, func(ord []int) int { return i })
}

// InsertFromBack places bar i slots up from the end, clamped.
func (m *Multi) InsertFromBack(i int, bar *Bar) {
	m.insertAt(bar, func(ord []int) int {
		if i > len(ord) {
			return 0
		}
		return len(ord) - i
	})
}

// InsertBefore places bar immediately above ref in the visual order.
func (m *Multi) InsertBefore(ref, bar *Bar) error {
	refSlot := m.memberSlot(ref)
	if refSlot < 0 {
		return &InvariantError{Msg: "reference bar is not a member of this Multi"}
	}
	m.insertAt(bar, func(ord []int) int {
		for i, id := range ord {
			if id == refSlot {
				return i
			}
		}
		return len(ord)
	})
	return nil
}

// InsertAfter places bar immediately below ref in the visual order.
func (m *Multi) InsertAfter(ref, bar *Bar) error {
	refSlot := m.memberSlot(ref)
	if refSlot < 0 {
		return &InvariantError{Msg: "reference bar is not a member of this Multi"}
	}
	m.insertAt(bar, func(ord []int) int {
		for i, id := range ord {
			if id == refSlot {
				return i + 1
			}
		}
		return len(ord)
	})
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *Multi) allocSlotLocked() int {
	if n := len(m.freeSet); n > 0 {
		slot := m.freeSet[n-1]
		m.freeSet = m.freeSet[:n-1]
		return slot
	}
	m.drawStates = append(m.drawStates, nil)
	return len(m.drawStates) - 1
}

// memberSlot returns the slot bar occupies in this Multi, or -1 if its
// draw target points elsewhere. It takes only the bar's lock, never the
// Multi's: the bar lock is always acquired before the Multi lock, so
// resolving membership must happen before insertAt locks m.mu.
func (m *Multi) memberSlot(bar *Bar) int {
	bar.mu.Lock()
	defer bar.mu.Unlock()
	if rt, ok := bar.state.target.(*remoteTarget); ok && rt.multi == m {
		return rt.slot
	}
	return -1
}

// insertAt splices bar into the visual order at the index pos computes
// from the (post-detach) ordering. Inserting a bar that already belongs
// to this Multi relocates it, keeping its slot and last rendered lines.
func (m *Multi) insertAt(bar *Bar, pos func(ord []int) int) {
	existing := m.memberSlot(bar)

	m.mu.Lock()
	slot := existing
	if slot >= 0 {
		for i, id := range m.ordering {
			if id == slot {
				m.ordering = append(m.ordering[:i], m.ordering[i+1:]...)
				break
			}
		}
	} else {
		slot = m.allocSlotLocked()
		m.drawStates[slot] = []string{}
	}
	i := clamp(pos(m.ordering), 0, len(m.ordering))
	m.ordering = append(m.ordering, 0)
	copy(m.ordering[i+1:], m.ordering[i:])
	m.ordering[i] = slot
	m.mu.Unlock()

	if existing < 0 {
		bar.bindTarget(&remoteTarget{multi: m, slot: slot})
	}
}

// Remove detaches bar from this Multi. Removing a bar that was never
// inserted, or already removed, is a no-op. Removing a bar that belongs
// to a different Multi panics with an InvariantError.
func (m *Multi) Remove(bar *Bar) error {
	bar.mu.Lock()
	rt, ok := bar.state.target.(*remoteTarget)
	if !ok {
		bar.mu.Unlock()
		return nil
	}
	if rt.multi != m {
		bar.mu.Unlock()
		invariant("bar removed from a Multi it does not belong to")
	}
	bar.state.target = hiddenTarget{}
	bar.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawStates[rt.slot] = nil
	m.freeSet = append(m.freeSet, rt.slot)
	for i, id := range m.ordering {
		if id == rt.slot {
			m.ordering = append(m.ordering[:i], m.ordering[i+1:]...)
			break
		}
	}
	return nil
}

// Clear blanks the display and tombstones every slot's stored lines,
// including those of bars whose finish policy left a last frame visible.
// Slots stay allocated and member bars stay bound: a live bar reappears
// on its next update, while a zombie's lines are gone for good and stop
// occupying rows in subsequent println/compose reflows.
func (m *Multi) Clear() error {
	m.mu.Lock()
	for _, id := range m.ordering {
		m.drawStates[id] = []string{}
	}
	direct := m.direct
	m.mu.Unlock()
	return direct.apply(Frame{Force: true})
}

// storeSlot publishes a bar's freshly rendered lines. A slot that has
// been reclaimed since the caller captured its remote target is skipped,
// so a draw racing a Remove can't resurrect a freed slot.
func (m *Multi) storeSlot(slot int, lines []string) {
	if lines == nil {
		lines = []string{}
	}
	m.mu.Lock()
	for _, id := range m.ordering {
		if id == slot {
			m.drawStates[slot] = lines
			break
		}
	}
	m.mu.Unlock()
}

// composeAndDraw concatenates pending orphan lines with every slot's last
// rendered lines, in order, and hands the combined frame to the Multi's
// own direct target.
func (m *Multi) composeAndDraw(force bool) error {
	m.mu.Lock()
	ordering := m.ordering
	if m.sortFunc != nil {
		if sorted := m.sortFunc(append([]int(nil), m.ordering...)); sorted != nil {
			ordering = sorted
		}
	}
	orphans := m.orphans
	m.orphans = nil

	var lines []string
	lines = append(lines, orphans...)
	for _, id := range ordering {
		lines = append(lines, m.drawStates[id]...)
	}
	direct := m.direct
	m.mu.Unlock()

	return direct.apply(Frame{
		Lines:       lines,
		OrphanLines: len(orphans),
		Force:       force || len(orphans) > 0,
	})
}

func (m *Multi) pushOrphan(line string) {
	m.mu.Lock()
	m.orphans = append(m.orphans, line)
	m.mu.Unlock()
}

// Println queues line above the bar block and forces a redraw.
func (m *Multi) Println(line string) error {
	m.pushOrphan(line)
	return m.composeAndDraw(true)
}

// Suspend clears the display, runs fn with the terminal free, then
// forces a recompose.
func (m *Multi) Suspend(fn func()) error {
	m.mu.Lock()
	if err := m.direct.apply(Frame{Force: true}); err != nil {
		m.mu.Unlock()
		return err
	}
	fn()
	m.mu.Unlock()
	return m.composeAndDraw(true)
}

// SetDrawTarget replaces the terminal the Multi renders to.
func (m *Multi) SetDrawTarget(t term.Terminal) {
	m.mu.Lock()
	bucket := m.direct.bucket
	align := m.direct.alignment
	moveCursor := m.direct.moveCursor
	m.direct = newDirectTarget(t, bucket)
	m.direct.alignment = align
	m.direct.moveCursor = moveCursor
	m.mu.Unlock()
}

// SetMoveCursor toggles cursor-up-and-overwrite vs. clear-and-rewrite.
func (m *Multi) SetMoveCursor(v bool) {
	m.mu.RLock()
	direct := m.direct
	m.mu.RUnlock()
	direct.setMoveCursor(v)
}

// SetAlignment sets whether the block hugs the top or bottom as it
// shrinks.
func (m *Multi) SetAlignment(a Alignment) {
	m.mu.RLock()
	direct := m.direct
	m.mu.RUnlock()
	direct.setAlignment(a)
}

// SetSortFunc installs (or clears, with nil) the BeforeRender ordering
// hook.
func (m *Multi) SetSortFunc(fn func(ids []int) []int) {
	m.mu.Lock()
	m.sortFunc = fn
	m.mu.Unlock()
}

func (m *Multi) width() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.direct.width()
}

func (m *Multi) isHidden() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.direct.isHidden()
}
