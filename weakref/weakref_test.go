package weakref

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	n int
}

func TestRefUpgradesWhileReferentLive(t *testing.T) {
	v := &payload{n: 42}
	r := New(v)
	got, ok := r.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, got.n)
	runtime.KeepAlive(v)
}

func TestRefFailsAfterCollection(t *testing.T) {
	r := New(&payload{n: 42})
	runtime.GC()
	runtime.GC()
	_, ok := r.Get()
	assert.False(t, ok)
}
