package cycle

import (
	"sync"
	"time"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
)

const TipInterval = 20 * time.Second

// Tip is a displayed educational tip.
type Tip struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// TipCycler rotates through tips while enabled, always starting from the
// first one.
type TipCycler struct {
	clk  clock.Clock
	pub  events.Publisher
	tips []string

	mu      sync.Mutex
	gen     uint64
	enabled bool
	index   int
	ticker  clock.Ticker
}

func NewTipCycler(clk clock.Clock, pub events.Publisher, tips []string) *TipCycler {
	return &TipCycler{clk: clk, pub: pub, tips: tips}
}

// SetEnabled starts or stops the rotation. Enabling an enabled cycler is a
// no-op.
func (c *TipCycler) SetEnabled(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on == c.enabled || (on && len(c.tips) == 0) {
		return
	}
	c.enabled = on
	c.gen++
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if !on {
		c.pub.Publish(events.Event{Type: events.TypeTipClear})
		return
	}

	c.index = 0
	c.publishLocked()
	gen := c.gen
	c.ticker = c.clk.Every(TipInterval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		c.index = (c.index + 1) % len(c.tips)
		c.publishLocked()
	})
}

func (c *TipCycler) publishLocked() {
	c.pub.Publish(events.Event{Type: events.TypeTip, Data: Tip{Index: c.index, Text: c.tips[c.index]}})
}

// Current returns the displayed tip while enabled.
func (c *TipCycler) Current() (Tip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return Tip{}, false
	}
	return Tip{Index: c.index, Text: c.tips[c.index]}, true
}

func (c *TipCycler) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}
