package ioutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBar struct {
	pos      uint64
	finished bool
}

func (f *fakeBar) Inc(delta uint64) error     { f.pos += delta; return nil }
func (f *fakeBar) SetPosition(p uint64) error { f.pos = p; return nil }
func (f *fakeBar) FinishUsingStyle() error    { f.finished = true; return nil }

func TestReaderIncrementsAndFinishesOnEOF(t *testing.T) {
	bar := &fakeBar{}
	r := NewReader(bytes.NewReader([]byte("hello world")), bar)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	assert.Equal(t, uint64(len("hello world")), bar.pos)
	assert.True(t, bar.finished)
}

func TestWriterIncrementsOnWrite(t *testing.T) {
	bar := &fakeBar{}
	var buf bytes.Buffer
	w := NewWriter(&buf, bar)

	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(3), bar.pos)
	assert.False(t, bar.finished)

	require.NoError(t, w.Close())
	assert.True(t, bar.finished)
}

func TestStablePositionSmoothsBackwardJitter(t *testing.T) {
	s := NewStablePosition()
	assert.Equal(t, int64(10), s.Observe(10))
	assert.Equal(t, int64(20), s.Observe(20))
	// a backward seek shouldn't move the reported position backward
	assert.Equal(t, int64(20), s.Observe(5))
}

func TestStablePositionTrustsRawAfterSequentialStreak(t *testing.T) {
	s := NewStablePosition()
	s.Observe(5)
	// five consecutive forward-moving observations settle the stream
	for i := int64(6); i <= 10; i++ {
		s.Observe(i)
	}
	assert.Equal(t, int64(10), s.Observe(10))
}

func TestSeekReaderPublishesPositionOnSeek(t *testing.T) {
	bar := &fakeBar{}
	sr := NewSeekReader(bytes.NewReader([]byte("0123456789")), bar)
	_, err := sr.Seek(5, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), bar.pos)
}
