package barline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatill/barline/term"
)

func newTestBar(t *testing.T) *Bar {
	t.Helper()
	return NewBar(10, WithDrawTarget(term.NewMemory(80, 24)))
}

// checkMultiInvariants asserts the three bookkeeping invariants from the
// data model hold for m's current state.
func checkMultiInvariants(t *testing.T, m *Multi) {
	t.Helper()
	m.mu.RLock()
	defer m.mu.RUnlock()

	assert.Equal(t, len(m.drawStates), len(m.ordering)+len(m.freeSet),
		"ordering.len() + free_set.len() == draw_states.len()")

	seen := make(map[int]bool)
	for _, id := range m.ordering {
		assert.False(t, seen[id], "id %d appears twice", id)
		seen[id] = true
		assert.NotNil(t, m.drawStates[id], "ordering id %d must index a live slot", id)
	}
	for _, id := range m.freeSet {
		assert.False(t, seen[id], "id %d appears twice across ordering/free_set", id)
		seen[id] = true
		assert.Nil(t, m.drawStates[id], "free_set id %d must index a cleared slot", id)
	}
}

func TestMultiInvariantsHoldAcrossRandomOps(t *testing.T) {
	m := NewMulti(WithMultiDrawTarget(term.NewMemory(80, 24)))
	rng := rand.New(rand.NewSource(1))
	var live []*Bar

	for i := 0; i < 200; i++ {
		switch rng.Intn(3) {
		case 0:
			bar := newTestBar(t)
			m.Add(bar)
			live = append(live, bar)
		case 1:
			if len(live) == 0 {
				continue
			}
			idx := rng.Intn(len(live))
			m.Insert(rng.Intn(len(live)+1), live[idx])
		case 2:
			if len(live) == 0 {
				continue
			}
			idx := rng.Intn(len(live))
			require.NoError(t, m.Remove(live[idx]))
			live = append(live[:idx], live[idx+1:]...)
		}
		checkMultiInvariants(t, m)
	}
}

func TestMultiRemoveIsIdempotent(t *testing.T) {
	m := NewMulti(WithMultiDrawTarget(term.NewMemory(80, 24)))
	bar := newTestBar(t)
	m.Add(bar)
	require.NoError(t, m.Remove(bar))
	require.NoError(t, m.Remove(bar))
	checkMultiInvariants(t, m)
}

func TestMultiRemoveUnrelatedBarIsNoop(t *testing.T) {
	m := NewMulti(WithMultiDrawTarget(term.NewMemory(80, 24)))
	bar := newTestBar(t)
	require.NoError(t, m.Remove(bar))
}

func TestMultiPrintlnOrdersAboveBarBlock(t *testing.T) {
	mem := term.NewMemory(80, 24)
	m := NewMulti(WithMultiDrawTarget(mem))
	bar1 := newTestBar(t)
	bar2 := newTestBar(t)
	m.Add(bar1)
	m.Add(bar2)

	require.NoError(t, bar1.Inc(1))
	require.NoError(t, m.Println("hi"))
	require.NoError(t, bar2.Inc(1))

	lines := mem.Lines()
	require.True(t, len(lines) >= 1)
	assert.Contains(t, lines[0], "hi")
}

func TestMultiFinishedBarFramePersistsUntilRemoved(t *testing.T) {
	mem := term.NewMemory(80, 24)
	m := NewMulti(WithMultiDrawTarget(mem))
	b1 := NewBar(10, WithHiddenDrawTarget())
	b2 := NewBar(5, WithHiddenDrawTarget())
	m.Add(b1)
	m.Add(b2)

	require.NoError(t, b1.Finish())
	require.NoError(t, b2.Inc(1))
	assert.Contains(t, mem.Line(0), "10/10")
	assert.Contains(t, mem.Line(1), "1/5")

	// removing the second bar leaves only the finished bar's last frame
	require.NoError(t, m.Remove(b2))
	require.NoError(t, m.Println("done"))
	assert.Equal(t, "done", mem.Line(0))
	assert.Contains(t, mem.Line(1), "10/10")
	assert.Empty(t, mem.Line(2))
}

func TestMultiClearTombstonesStoredFrames(t *testing.T) {
	mem := term.NewMemory(80, 24)
	m := NewMulti(WithMultiDrawTarget(mem))
	bar := NewBar(10, WithHiddenDrawTarget())
	m.Add(bar)
	require.NoError(t, bar.Abandon())
	assert.NotEmpty(t, mem.Line(0))

	require.NoError(t, m.Clear())
	for _, line := range mem.Lines() {
		assert.Empty(t, line)
	}
	// the abandoned bar's frame is gone for good: a println reflows
	// without resurrecting it
	require.NoError(t, m.Println("after"))
	assert.Equal(t, "after", mem.Line(0))
	assert.Empty(t, mem.Line(1))
	checkMultiInvariants(t, m)
}

func TestMultiInsertRelocatesExistingBar(t *testing.T) {
	m := NewMulti(WithMultiDrawTarget(term.NewMemory(80, 24)))
	b1 := newTestBar(t)
	b2 := newTestBar(t)
	m.Add(b1)
	m.Add(b2)
	m.Insert(0, b2)
	checkMultiInvariants(t, m)

	m.mu.RLock()
	n := len(m.ordering)
	m.mu.RUnlock()
	assert.Equal(t, 2, n)
}

func TestMultiInsertBeforeAndAfter(t *testing.T) {
	mem := term.NewMemory(80, 24)
	m := NewMulti(WithMultiDrawTarget(mem))
	b1 := newTestBar(t)
	b2 := newTestBar(t)
	b3 := newTestBar(t)
	m.Add(b1)
	m.Add(b3)
	require.NoError(t, m.InsertBefore(b3, b2))
	checkMultiInvariants(t, m)

	b4 := newTestBar(t)
	require.NoError(t, m.InsertAfter(b1, b4))
	checkMultiInvariants(t, m)

	outsider := newTestBar(t)
	require.Error(t, m.InsertBefore(outsider, newTestBar(t)))
}

func TestMultiClearOnEmptyIsNoop(t *testing.T) {
	m := NewMulti(WithMultiDrawTarget(term.NewMemory(80, 24)))
	require.NoError(t, m.Clear())
	checkMultiInvariants(t, m)
}
