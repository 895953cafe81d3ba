package modo

import (
	"testing"
	"time"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/clock"
	"brinleneuro/internal/cycle"
	"brinleneuro/internal/events"
	"brinleneuro/internal/models"
	"brinleneuro/internal/tone"
)

type fakeSpeaker struct {
	spoken  []string
	cancels int
}

func (f *fakeSpeaker) Speak(text string) string {
	f.spoken = append(f.spoken, text)
	return ""
}

func (f *fakeSpeaker) Cancel() { f.cancels++ }

func newSession(t *testing.T) (*Session, *tone.Engine, *fakeSpeaker, *clock.Fake, *events.Recorder) {
	t.Helper()
	mode, ok := catalog.Mode(models.ModeCalma)
	if !ok {
		t.Fatal("calma mode missing")
	}
	clk := clock.NewFake()
	rec := &events.Recorder{}
	eng := tone.NewEngine(8000)
	sp := &fakeSpeaker{}
	return New(mode, Deps{Clock: clk, Events: rec, Engine: eng, Speaker: sp}), eng, sp, clk, rec
}

func TestToggle(t *testing.T) {
	s, eng, sp, clk, _ := newSession(t)

	if !s.Toggle() {
		t.Fatal("first Toggle() = false")
	}
	if !eng.Has(ToneID(models.ModeCalma)) {
		t.Error("mode tone not started")
	}
	st := s.Snapshot()
	if !st.Active || st.Word == nil || st.Tip == nil || st.Tip.Index != 0 {
		t.Errorf("active snapshot = %+v", st)
	}

	clk.Advance(cycle.SpeakDelay)
	if len(sp.spoken) != 1 {
		t.Errorf("spoken = %v", sp.spoken)
	}

	if s.Toggle() {
		t.Fatal("second Toggle() = true")
	}
	if eng.Has(ToneID(models.ModeCalma)) || eng.Nodes() != 0 {
		t.Error("mode tone still live after deactivation")
	}
	if sp.cancels != 1 {
		t.Errorf("speech cancelled %d times", sp.cancels)
	}
	if st := s.Snapshot(); st.Word != nil || st.Tip != nil {
		t.Errorf("display lingers after deactivation: %+v", st)
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers pending after deactivation", clk.Pending())
	}
}

func TestPauseStopsCallbacks(t *testing.T) {
	s, _, sp, clk, rec := newSession(t)
	s.Activate()
	clk.Advance(100 * time.Millisecond)
	s.Pause()

	words := rec.Count(events.TypeWord)
	clk.Advance(time.Minute)
	if rec.Count(events.TypeWord) != words || len(sp.spoken) != 0 {
		t.Error("timers fired after pause")
	}
}

func TestActivateKeepsExistingTone(t *testing.T) {
	s, eng, _, _, _ := newSession(t)
	other, _ := eng.StartTone(ToneID(models.ModeCalma), tone.HumSpec(), 0.2)

	s.Activate()
	if v, _ := eng.Voice(ToneID(models.ModeCalma)); v != other {
		t.Error("activation replaced a live tone")
	}
	s.Deactivate()
	if !eng.Has(ToneID(models.ModeCalma)) {
		t.Error("deactivation stopped a tone the session did not start")
	}
}
