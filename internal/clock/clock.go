// Package clock abstracts time so timed behavior can be driven by tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Ticker delivers a callback at a fixed interval until stopped.
type Ticker interface {
	Stop()
}

// Clock schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Ticker
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Every(d time.Duration, f func()) Ticker {
	t := &realTicker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				f()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

type realTicker struct {
	ticker *time.Ticker
	once   sync.Once
	done   chan struct{}
}

func (t *realTicker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// Fake is a manually advanced Clock. Callbacks run synchronously on the
// goroutine calling Advance, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *Fake
	at       time.Time
	seq      int
	interval time.Duration
	f        func()
	stopped  bool
}

// NewFake returns a fake clock starting at a fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	return c.add(d, 0, f)
}

func (c *Fake) Every(d time.Duration, f func()) Ticker {
	return fakeTicker{c.add(d, d, f)}
}

type fakeTicker struct{ t *fakeTimer }

func (t fakeTicker) Stop() { t.t.Stop() }

func (c *Fake) add(d, interval time.Duration, f func()) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, interval: interval, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Pending reports how many timers and tickers are still scheduled.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every callback that becomes
// due, including ones scheduled by callbacks during the advance.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(end)
		if next == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		c.now = next.at
		if next.interval > 0 {
			next.at = next.at.Add(next.interval)
		} else {
			next.stopped = true
			c.compact()
		}
		f := next.f
		c.mu.Unlock()
		f()
	}
}

func (c *Fake) nextDue(end time.Time) *fakeTimer {
	live := make([]*fakeTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(end) {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].at.Equal(live[j].at) {
			return live[i].seq < live[j].seq
		}
		return live[i].at.Before(live[j].at)
	})
	return live[0]
}

func (c *Fake) compact() {
	kept := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	c.timers = kept
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	t.clock.compact()
	return true
}
