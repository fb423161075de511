package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a clock abstraction. CachedTimer trades precision for cheap reads
// on hot paths; SystemTimer reads the wall clock directly.
type Timer interface {
	Now() time.Time
	Stop()
}

// SystemTimer reads time.Now on every call.
type SystemTimer struct{}

func (SystemTimer) Now() time.Time { return time.Now() }
func (SystemTimer) Stop()          {}

// CachedTimer serves a timestamp refreshed on a fixed step by a background
// goroutine. Reads are a single atomic load.
type CachedTimer struct {
	now    atomic.Value
	step   time.Duration
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewCachedTimer starts a cached timer with the given refresh step.
func NewCachedTimer(step time.Duration) *CachedTimer {
	t := &CachedTimer{
		step:   step,
		ticker: time.NewTicker(step),
		done:   make(chan struct{}),
	}
	t.now.Store(time.Now())

	t.wg.Add(1)
	go t.run()

	return t
}

func (t *CachedTimer) run() {
	defer t.wg.Done()

	current := t.Now()

	for {
		select {
		case <-t.ticker.C:
			current = current.Add(t.step)
			t.now.Store(current)
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

// Now returns the cached timestamp. It lags real time by at most one step.
func (t *CachedTimer) Now() time.Time {
	return t.now.Load().(time.Time)
}

// Stop terminates the refresh goroutine.
func (t *CachedTimer) Stop() {
	close(t.done)
	t.wg.Wait()
}
