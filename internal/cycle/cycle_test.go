package cycle

import (
	"sync"
	"testing"
	"time"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
)

type recordingSpeaker struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSpeaker) Speak(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return ""
}

func (s *recordingSpeaker) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.texts)
}

func newWordCycler(opts WordOptions) (*WordCycler, *events.Recorder, *recordingSpeaker, *clock.Fake) {
	clk := clock.NewFake()
	rec := &events.Recorder{}
	sp := &recordingSpeaker{}
	if opts.Words == nil {
		opts.Words = []string{"sol", "mar", "lua"}
		opts.Colors = []string{"#FFD93D", "#C77DFF"}
	}
	return NewWordCycler(clk, rec, sp, opts), rec, sp, clk
}

func TestWordCycleTiming(t *testing.T) {
	c, rec, sp, clk := newWordCycler(WordOptions{})
	c.Start()

	w, ok := c.Current()
	if !ok {
		t.Fatal("no word shown immediately")
	}
	if w.Color == "" || w.Text == "" {
		t.Errorf("word = %+v", w)
	}
	if sp.count() != 0 {
		t.Fatal("word spoken before the delay")
	}

	clk.Advance(SpeakDelay)
	if sp.count() != 1 || sp.texts[0] != w.Text {
		t.Fatalf("spoken %v, want [%s]", sp.texts, w.Text)
	}

	clk.Advance(WordVisible - SpeakDelay)
	if _, ok := c.Current(); ok {
		t.Fatal("word still visible after 2.5s")
	}
	if rec.Count(events.TypeWordClear) != 1 {
		t.Errorf("word-clear events = %d", rec.Count(events.TypeWordClear))
	}

	clk.Advance(WordInterval - WordVisible)
	if rec.Count(events.TypeWord) != 2 {
		t.Errorf("word events after one interval = %d, want 2", rec.Count(events.TypeWord))
	}
}

func TestWordPositionsAlternate(t *testing.T) {
	c, rec, _, clk := newWordCycler(WordOptions{})
	c.Start()
	clk.Advance(10 * WordInterval)

	var words []Word
	for _, e := range rec.Events() {
		if e.Type == events.TypeWord {
			words = append(words, e.Data.(Word))
		}
	}
	if len(words) != 11 {
		t.Fatalf("got %d words, want 11", len(words))
	}
	for i, w := range words {
		if i > 0 && w.Top == words[i-1].Top {
			t.Errorf("word %d repeats position top=%v", i, w.Top)
		}
		if w.X < 40 || w.X > 60 {
			t.Errorf("word %d x = %v", i, w.X)
		}
		if w.Top && (w.Y < 25 || w.Y > 33) || !w.Top && (w.Y < 67 || w.Y > 75) {
			t.Errorf("word %d y = %v (top=%v)", i, w.Y, w.Top)
		}
	}
}

func TestCompactPositions(t *testing.T) {
	c, rec, _, clk := newWordCycler(WordOptions{Words: []string{"a"}, Compact: true})
	c.Start()
	clk.Advance(3 * WordInterval)
	for _, e := range rec.Events() {
		if w, ok := e.Data.(Word); ok && w.X != 50 {
			t.Errorf("compact x = %v, want 50", w.X)
		}
	}
}

func TestStopClearsImmediately(t *testing.T) {
	c, rec, sp, clk := newWordCycler(WordOptions{})
	c.Start()
	clk.Advance(100 * time.Millisecond)
	c.Stop()

	if _, ok := c.Current(); ok {
		t.Fatal("word lingers after Stop")
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers still pending", clk.Pending())
	}
	words := rec.Count(events.TypeWord)
	clk.Advance(time.Minute)
	if rec.Count(events.TypeWord) != words || sp.count() != 0 {
		t.Error("cycler kept running after Stop")
	}

	c.Stop()
	if rec.Count(events.TypeWordClear) != 1 {
		t.Errorf("repeated Stop published %d clears", rec.Count(events.TypeWordClear))
	}
}

func TestRestartAfterStop(t *testing.T) {
	c, rec, _, clk := newWordCycler(WordOptions{})
	c.Start()
	c.Stop()
	c.Start()
	if !c.Running() || rec.Count(events.TypeWord) != 2 {
		t.Fatalf("restart: running=%v words=%d", c.Running(), rec.Count(events.TypeWord))
	}
	clk.Advance(WordInterval)
	if rec.Count(events.TypeWord) != 3 {
		t.Errorf("words = %d, want 3 (stale ticker must not double up)", rec.Count(events.TypeWord))
	}
}

func TestTipCycler(t *testing.T) {
	clk := clock.NewFake()
	rec := &events.Recorder{}
	c := NewTipCycler(clk, rec, []string{"um", "dois", "três"})

	c.SetEnabled(true)
	if tip, ok := c.Current(); !ok || tip.Index != 0 {
		t.Fatalf("Current() = %+v, %v", tip, ok)
	}
	clk.Advance(2 * TipInterval)
	if tip, _ := c.Current(); tip.Index != 2 {
		t.Errorf("index after 40s = %d, want 2", tip.Index)
	}
	clk.Advance(TipInterval)
	if tip, _ := c.Current(); tip.Index != 0 {
		t.Errorf("index did not wrap: %d", tip.Index)
	}

	clk.Advance(TipInterval)
	c.SetEnabled(false)
	if _, ok := c.Current(); ok {
		t.Error("tip shown while disabled")
	}
	if _, ok := rec.Last(events.TypeTipClear); !ok {
		t.Error("no tip-clear event")
	}

	c.SetEnabled(true)
	if tip, _ := c.Current(); tip.Index != 0 {
		t.Errorf("re-enabled at index %d, want 0", tip.Index)
	}
	if clk.Pending() != 1 {
		t.Errorf("pending timers = %d, want 1", clk.Pending())
	}
}
