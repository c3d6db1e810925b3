package barline

import (
	"sync"
	"time"
)

// bucketMax is the leaky bucket's capacity: a burst of up to this many
// draws is always admitted regardless of the configured rate.
const bucketMax = 32.0

// leakyBucket rate-limits draws: a sustained call rate above leakRate
// eventually converges to leakRate admissions/sec, while short bursts up
// to bucketMax pass through untouched.
type leakyBucket struct {
	mu         sync.Mutex
	leakRate   float64
	bucket     float64
	lastUpdate time.Time
	started    bool
}

// newLeakyBucket builds a limiter admitting at most ratePerSec draws/sec
// on average, after an initial burst of up to bucketMax.
func newLeakyBucket(ratePerSec float64) *leakyBucket {
	return &leakyBucket{leakRate: ratePerSec}
}

// tryAdmit reports whether a draw is admitted right now. It always
// advances the bucket's clock, even on rejection, so later calls see the
// correct elapsed time.
func (l *leakyBucket) tryAdmit(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		l.lastUpdate = now
		l.started = true
	}
	dt := now.Sub(l.lastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	l.lastUpdate = now

	l.bucket -= l.leakRate * dt
	if l.bucket < 0 {
		l.bucket = 0
	}
	if l.bucket < bucketMax {
		l.bucket++
		return true
	}
	return false
}
