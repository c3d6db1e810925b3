package barline

import (
	"sync"
	"time"

	"github.com/jatill/barline/weakref"
)

// startSteadyTicker spawns the background worker behind EnableSteadyTick.
// It holds only a weak reference to bar, never a strong one: if the last
// user reference goes away, the bar is collected normally, the next wake
// fails to upgrade, and the worker exits. stopTicker (bar finishes, or
// EnableSteadyTick is called again or with 0) closes quit for a prompt
// exit without waiting out the period.
func startSteadyTicker(bar *Bar, period time.Duration) (stop func()) {
	ref := weakref.New(bar)
	quit := make(chan struct{})

	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-quit:
				return
			case <-t.C:
				b, ok := ref.Get()
				if !ok {
					return
				}
				b.mu.Lock()
				live := !b.state.status.terminal() && b.state.steadyTickMs > 0
				b.mu.Unlock()
				if !live {
					return
				}
				b.mutate(func(s *barState) {
					if s.tick != ^uint64(0) {
						s.tick++
					}
				})
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(quit) }) }
}
