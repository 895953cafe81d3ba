// Package cycle drives the timed word and tip displays of an active mode
// session.
package cycle

import (
	"math/rand/v2"
	"sync"
	"time"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
)

const (
	WordInterval = 3500 * time.Millisecond
	WordVisible  = 2500 * time.Millisecond
	SpeakDelay   = 500 * time.Millisecond
)

// Speaker narrates displayed words.
type Speaker interface {
	Speak(text string) string
}

// Word is a displayed word. X and Y are percentages of the viewport.
type Word struct {
	Seq   uint64  `json:"seq"`
	Text  string  `json:"text"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Top   bool    `json:"top"`
}

// WordOptions configure a WordCycler.
type WordOptions struct {
	Words  []string
	Colors []string
	// Compact centers words horizontally and narrows the vertical bands,
	// for small screens.
	Compact bool
}

// WordCycler shows a random vocabulary word every WordInterval while
// started. Consecutive words strictly alternate between the top and bottom
// of the screen.
type WordCycler struct {
	clk     clock.Clock
	pub     events.Publisher
	speaker Speaker
	opts    WordOptions

	mu      sync.Mutex
	gen     uint64
	seq     uint64
	running bool
	top     bool
	current *Word
	ticker  clock.Ticker
	pending []clock.Timer
}

func NewWordCycler(clk clock.Clock, pub events.Publisher, speaker Speaker, opts WordOptions) *WordCycler {
	return &WordCycler{clk: clk, pub: pub, speaker: speaker, opts: opts}
}

// Start shows a word immediately and then every WordInterval.
func (c *WordCycler) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || len(c.opts.Words) == 0 {
		return
	}
	c.running = true
	c.gen++
	gen := c.gen
	c.showLocked(gen)
	c.ticker = c.clk.Every(WordInterval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.showLocked(gen)
		}
	})
}

// Stop cancels every pending timer and clears the displayed word.
func (c *WordCycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.gen++
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.stopPendingLocked()
	c.current = nil
	c.pub.Publish(events.Event{Type: events.TypeWordClear})
}

// Running reports whether the cycler is started.
func (c *WordCycler) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Current returns the displayed word, if any.
func (c *WordCycler) Current() (Word, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Word{}, false
	}
	return *c.current, true
}

func (c *WordCycler) stopPendingLocked() {
	for _, t := range c.pending {
		t.Stop()
	}
	c.pending = c.pending[:0]
}

func (c *WordCycler) showLocked(gen uint64) {
	c.stopPendingLocked()

	c.seq++
	c.top = !c.top
	w := &Word{
		Seq:  c.seq,
		Text: c.opts.Words[rand.IntN(len(c.opts.Words))],
		Top:  c.top,
	}
	if len(c.opts.Colors) > 0 {
		w.Color = c.opts.Colors[rand.IntN(len(c.opts.Colors))]
	}
	w.X, w.Y = position(c.top, c.opts.Compact)
	c.current = w
	c.pub.Publish(events.Event{Type: events.TypeWord, Data: *w})

	seq := w.Seq
	live := func() bool { return c.gen == gen && c.current != nil && c.current.Seq == seq }

	speak := c.clk.AfterFunc(SpeakDelay, func() {
		c.mu.Lock()
		ok := live()
		c.mu.Unlock()
		if ok && c.speaker != nil {
			c.speaker.Speak(w.Text)
		}
	})
	hide := c.clk.AfterFunc(WordVisible, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if live() {
			c.current = nil
			c.pub.Publish(events.Event{Type: events.TypeWordClear})
		}
	})
	c.pending = append(c.pending, speak, hide)
}

func position(top, compact bool) (x, y float64) {
	if compact {
		if top {
			return 50, 25 + rand.Float64()*5
		}
		return 50, 70 + rand.Float64()*5
	}
	x = 40 + rand.Float64()*20
	if top {
		return x, 25 + rand.Float64()*8
	}
	return x, 67 + rand.Float64()*8
}
