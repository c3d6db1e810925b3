package ioutil

import (
	"io"
	"sync"
)

// stableWindow bounds how many raw seek observations feed the running
// maximum.
const stableWindow = 10

// stableStreak is how many consecutive forward-moving observations must
// be seen before StablePosition trusts the raw value again.
const stableStreak = 5

// StablePosition smooths a jittery sequence of seek offsets: readers that
// seek backward to retry a chunk, or issue out-of-order range requests,
// would otherwise make a bar's position visibly jump backward. It reports
// the running maximum over the last stableWindow observations, and only
// reports the raw value directly once stableStreak consecutive
// observations have moved forward (indicating the stream settled into a
// normal sequential read). Settling empties the window, so after it the
// maximum covers only observations made since the stream last settled.
type StablePosition struct {
	mu     sync.Mutex
	window []int64
	last   int64
	streak int
}

// NewStablePosition returns a fresh smoother starting from offset 0.
func NewStablePosition() *StablePosition {
	return &StablePosition{}
}

// Observe feeds a new raw offset and returns the smoothed value to
// report.
func (s *StablePosition) Observe(raw int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw >= s.last {
		s.streak++
	} else {
		s.streak = 0
	}
	s.last = raw

	if s.streak >= stableStreak {
		s.window = s.window[:0]
		return raw
	}

	s.window = append(s.window, raw)
	if len(s.window) > stableWindow {
		s.window = s.window[1:]
	}
	max := s.window[0]
	for _, v := range s.window[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// SeekReader wraps a ReadSeeker, publishing a jitter-smoothed position to
// bar after every Read and Seek.
type SeekReader struct {
	rs  io.ReadSeeker
	bar barLike
	pos *StablePosition
}

// NewSeekReader wraps rs so every Read/Seek updates bar's position
// through a StablePosition smoother.
func NewSeekReader(rs io.ReadSeeker, bar barLike) *SeekReader {
	return &SeekReader{rs: rs, bar: bar, pos: NewStablePosition()}
}

func (s *SeekReader) Read(p []byte) (int, error) {
	n, err := s.rs.Read(p)
	s.publish()
	if err == io.EOF {
		s.bar.FinishUsingStyle()
	}
	return n, err
}

func (s *SeekReader) Seek(offset int64, whence int) (int64, error) {
	n, err := s.rs.Seek(offset, whence)
	if err == nil {
		s.publish()
	}
	return n, err
}

func (s *SeekReader) publish() {
	raw, err := s.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	s.bar.SetPosition(uint64(s.pos.Observe(raw)))
}
