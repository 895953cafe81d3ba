package speech

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
	"brinleneuro/internal/voice"
)

type stubSynth struct {
	gates map[string]chan struct{}
	err   error
}

func (s *stubSynth) Synthesize(ctx context.Context, req Request) (Clip, error) {
	if gate, ok := s.gates[req.Text]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return Clip{}, ctx.Err()
		}
	}
	if s.err != nil {
		return Clip{}, s.err
	}
	return Clip{URL: "/static/speech/" + req.Text + ".mp3"}, nil
}

func newTestController(synth Synthesizer) (*Controller, *events.Recorder, *clock.Fake) {
	rec := &events.Recorder{}
	clk := clock.NewFake()
	c := NewController(Options{
		Clock:  clk,
		Synth:  synth,
		Output: NewBrowserOutput(rec),
	})
	return c, rec, clk
}

func speakEvent(t *testing.T, e events.Event) SpeakEvent {
	t.Helper()
	ev, ok := e.Data.(SpeakEvent)
	if !ok {
		t.Fatalf("event data = %T, want SpeakEvent", e.Data)
	}
	return ev
}

func TestSpeakDefaults(t *testing.T) {
	c, rec, _ := newTestController(nil)
	id := c.Speak("Olá!")

	last, ok := rec.Last(events.TypeSpeak)
	if !ok {
		t.Fatal("no speak event")
	}
	ev := speakEvent(t, last)
	if ev.ID != id || ev.Text != "Olá!" {
		t.Errorf("event = %+v, want id %s", ev, id)
	}
	if ev.Lang != "pt-BR" || ev.Rate != 0.8 || ev.Pitch != 0.9 || ev.Volume != 1.0 {
		t.Errorf("prosody = %s %v %v %v", ev.Lang, ev.Rate, ev.Pitch, ev.Volume)
	}
	if ev.Voice != "" || ev.URL != "" {
		t.Errorf("expected platform default voice and text-only request, got %+v", ev)
	}
	if !c.Speaking() {
		t.Error("Speaking() = false after Speak")
	}
}

func TestSpeakUsesSelectedVoice(t *testing.T) {
	rec := &events.Recorder{}
	sel := voice.NewSelector(nil)
	sel.Update([]voice.Voice{
		{Name: "Luciana", Lang: "pt-BR"},
		{Name: "Google Daniel Male", Lang: "pt-BR"},
	})
	c := NewController(Options{Clock: clock.NewFake(), Selector: sel, Output: NewBrowserOutput(rec)})
	c.Speak("Vamos jogar")

	last, _ := rec.Last(events.TypeSpeak)
	if got := speakEvent(t, last).Voice; got != "Google Daniel Male" {
		t.Errorf("voice = %q", got)
	}
}

func TestLastRequestWins(t *testing.T) {
	c, rec, _ := newTestController(nil)
	first := c.Speak("um")
	second := c.Speak("dois")

	evs := rec.Events()
	if len(evs) != 3 {
		t.Fatalf("got %d events, want speak, cancel, speak", len(evs))
	}
	if evs[1].Type != events.TypeSpeechCancel || evs[1].Data.(map[string]string)["id"] != first {
		t.Errorf("second event = %+v, want cancel of %s", evs[1], first)
	}
	if speakEvent(t, evs[2]).ID != second {
		t.Errorf("third event is not the second request")
	}
}

func TestSupersededSynthesisIsDropped(t *testing.T) {
	gate := make(chan struct{})
	synth := &stubSynth{gates: map[string]chan struct{}{"lento": gate}}
	c, rec, _ := newTestController(synth)

	c.Speak("lento")
	c.Speak("rápido")
	close(gate)
	c.Wait()

	if n := rec.Count(events.TypeSpeak); n != 1 {
		t.Fatalf("speak events = %d, want 1", n)
	}
	last, _ := rec.Last(events.TypeSpeak)
	ev := speakEvent(t, last)
	if ev.Text != "rápido" || ev.URL == "" {
		t.Errorf("delivered %+v", ev)
	}
}

func TestSynthesisFailureFallsBackToText(t *testing.T) {
	c, rec, _ := newTestController(&stubSynth{err: errors.New("offline")})
	c.Speak("Muito bem!")
	c.Wait()

	last, ok := rec.Last(events.TypeSpeak)
	if !ok {
		t.Fatal("no speak event after synthesis failure")
	}
	if ev := speakEvent(t, last); ev.URL != "" || ev.Text != "Muito bem!" {
		t.Errorf("fallback = %+v", ev)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	c, rec, _ := newTestController(nil)
	c.Cancel()
	c.Speak("olá")
	c.Cancel()
	c.Cancel()

	if n := rec.Count(events.TypeSpeechCancel); n != 1 {
		t.Errorf("cancel events = %d, want 1", n)
	}
	if c.Speaking() {
		t.Error("Speaking() after Cancel")
	}
}

func TestObserve(t *testing.T) {
	c, _, _ := newTestController(nil)
	old := c.Speak("um")
	cur := c.Speak("dois")

	c.Observe(old, EventEnd, "")
	if !c.Speaking() {
		t.Fatal("stale end report finished the current request")
	}
	c.Observe(cur, EventStart, "")
	c.Observe(cur, EventEnd, "")
	if c.Speaking() {
		t.Error("Speaking() after end")
	}
}

func TestStartWatchdog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	c, _, clk := newTestController(nil)
	started := c.Speak("um")
	c.Observe(started, EventStart, "")
	clk.Advance(time.Second)
	if strings.Contains(buf.String(), "has not started") {
		t.Fatal("warned for a request that started")
	}

	c.Speak("dois")
	clk.Advance(400 * time.Millisecond)
	if strings.Contains(buf.String(), "has not started") {
		t.Fatal("warned before the deadline")
	}
	clk.Advance(200 * time.Millisecond)
	if !strings.Contains(buf.String(), "has not started") {
		t.Error("no warning for a stalled request")
	}
}

// slowLister blocks its first query until release is closed.
type slowLister struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newSlowLister() *slowLister {
	return &slowLister{entered: make(chan struct{}), release: make(chan struct{})}
}

func (l *slowLister) Voices(ctx context.Context) ([]voice.Voice, error) {
	if l.calls.Add(1) == 1 {
		close(l.entered)
		select {
		case <-l.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []voice.Voice{{Name: "Luciana", Lang: "pt-BR"}}, nil
}

func TestSlowVoiceLookupKeepsOrder(t *testing.T) {
	tests := []struct {
		name  string
		synth Synthesizer
	}{
		{"browser speech", nil},
		{"server synthesis", &stubSynth{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := newSlowLister()
			rec := &events.Recorder{}
			c := NewController(Options{
				Clock:    clock.NewFake(),
				Selector: voice.NewSelector(lister),
				Synth:    tt.synth,
				Output:   NewBrowserOutput(rec),
			})

			done := make(chan struct{})
			go func() {
				defer close(done)
				c.Speak("primeiro")
			}()
			<-lister.entered

			c.Speak("segundo")
			close(lister.release)
			<-done
			c.Wait()

			var spoken []string
			for _, e := range rec.Events() {
				if e.Type == events.TypeSpeak {
					spoken = append(spoken, speakEvent(t, e).Text)
				}
			}
			if len(spoken) != 1 || spoken[0] != "segundo" {
				t.Errorf("spoken = %v, want only the newest request", spoken)
			}
		})
	}
}
