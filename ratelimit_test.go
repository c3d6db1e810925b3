package barline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeakyBucketAdmitsBurstUpToMax(t *testing.T) {
	l := newLeakyBucket(1.0)
	now := time.Now()
	admitted := 0
	for i := 0; i < int(bucketMax)+5; i++ {
		if l.tryAdmit(now) {
			admitted++
		}
	}
	assert.Equal(t, int(bucketMax), admitted)
}

func TestLeakyBucketConvergesToRate(t *testing.T) {
	l := newLeakyBucket(10.0)
	now := time.Now()
	// drain the initial burst first
	for i := 0; i < int(bucketMax); i++ {
		l.tryAdmit(now)
	}
	admitted := 0
	for i := 0; i < 100; i++ {
		now = now.Add(100 * time.Millisecond) // 10/sec cadence
		if l.tryAdmit(now) {
			admitted++
		}
	}
	// at the limiter's own rate, every call should be admitted
	assert.Equal(t, 100, admitted)
}

func TestLeakyBucketRejectsFasterThanRate(t *testing.T) {
	l := newLeakyBucket(1.0)
	now := time.Now()
	for i := 0; i < int(bucketMax); i++ {
		l.tryAdmit(now)
	}
	// immediately retry with no elapsed time: bucket is full, rejected
	assert.False(t, l.tryAdmit(now))
}
