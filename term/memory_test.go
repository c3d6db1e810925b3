package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryWritesAndCursorUp(t *testing.T) {
	m := NewMemory(20, 5)
	require := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	require(m.WriteLine("first"))
	require(m.WriteLine("second"))
	assert.Equal(t, "first", m.Line(0))
	assert.Equal(t, "second", m.Line(1))

	require(m.CursorUp(1))
	require(m.WriteString("SECOND"))
	assert.Equal(t, "SECOND", m.Line(1))
}

func TestMemoryClearLineErases(t *testing.T) {
	m := NewMemory(20, 5)
	_ = m.WriteString("hello")
	_ = m.ClearLine()
	assert.Equal(t, "", m.Line(0))
}

func TestMemoryCSICursorUpRewritesLine(t *testing.T) {
	m := NewMemory(20, 5)
	_ = m.WriteLine("one")
	_ = m.WriteString("\x1b[1A\rtwo")
	assert.Equal(t, "two", m.Line(0))
}

func TestMemoryHiddenReportsZeroWidth(t *testing.T) {
	h := NewHidden()
	assert.Equal(t, 0, h.Width())
	assert.False(t, h.IsTerminal())
}
