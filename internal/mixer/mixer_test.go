package mixer

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/models"
	"brinleneuro/internal/tone"
)

func newMixer(t *testing.T, store *flags.MemoryStore) (*Mixer, *tone.Engine, *clock.Fake, *events.Recorder) {
	t.Helper()
	if store == nil {
		store = flags.NewMemoryStore()
	}
	clk := clock.NewFake()
	eng := tone.NewEngine(8000)
	rec := &events.Recorder{}
	m := New(context.Background(), Deps{Clock: clk, Events: rec, Engine: eng, Flags: store})
	return m, eng, clk, rec
}

func TestVolumesRestored(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	flags.SetVolume(ctx, store, "foco", 0.8)
	store.Set(ctx, flags.VolumeKey("calma"), "barulho")

	m, _, _, _ := newMixer(t, store)
	vols := m.Snapshot().Volumes
	if vols[models.ModeFoco] != 0.8 {
		t.Errorf("foco volume = %v, want 0.8", vols[models.ModeFoco])
	}
	if vols[models.ModeCalma] != flags.DefaultVolume || vols[models.ModeEnergia] != flags.DefaultVolume {
		t.Errorf("fallback volumes = %v", vols)
	}
}

func TestToggle(t *testing.T) {
	m, eng, _, rec := newMixer(t, nil)

	on, err := m.Toggle(models.ModeFoco)
	if err != nil || !on {
		t.Fatalf("Toggle() = %v, %v", on, err)
	}
	v, ok := eng.Voice(ToneID(models.ModeFoco))
	if !ok || v.Volume() != flags.DefaultVolume {
		t.Fatal("tone not started at the saved volume")
	}
	if on, _ := m.Toggle(models.ModeFoco); on {
		t.Fatal("second Toggle() left the sound on")
	}
	if eng.Nodes() != 0 {
		t.Errorf("%d nodes left after toggling off", eng.Nodes())
	}
	if rec.Count(events.TypeMixer) != 2 {
		t.Errorf("mixer events = %d", rec.Count(events.TypeMixer))
	}

	if _, err := m.Toggle("piratas"); !errors.Is(err, ErrUnknownSound) {
		t.Errorf("Toggle(unknown) error = %v", err)
	}
}

func TestSetVolume(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	m, eng, _, _ := newMixer(t, store)
	m.Toggle(models.ModeEnergia)

	if err := m.SetVolume(ctx, models.ModeEnergia, 1.4); err != nil {
		t.Fatal(err)
	}
	if got := flags.Volume(ctx, store, "energia"); got != 1 {
		t.Errorf("persisted volume = %v, want clamped 1", got)
	}
	v, _ := eng.Voice(ToneID(models.ModeEnergia))
	if v.Volume() != 1 {
		t.Errorf("live tone heading to %v", v.Volume())
	}

	// volume of a silent sound is stored for its next start
	m.SetVolume(ctx, models.ModeCalma, 0.2)
	m.Toggle(models.ModeCalma)
	if v, _ := eng.Voice(ToneID(models.ModeCalma)); v.Volume() != 0.2 {
		t.Errorf("calma started at %v", v.Volume())
	}
}

func TestLoadPreset(t *testing.T) {
	m, eng, _, _ := newMixer(t, nil)
	m.Toggle(models.ModeEnergia)
	m.StartTimer(5)

	p, err := m.LoadPreset("estudo")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Sessão de Estudo" {
		t.Errorf("preset = %+v", p)
	}
	st := m.Snapshot()
	if !slices.Equal(st.Active, []models.ModeID{models.ModeCalma, models.ModeFoco}) {
		t.Errorf("active = %v", st.Active)
	}
	if st.Timer != 0 {
		t.Error("preset did not clear the timer")
	}
	if v, _ := eng.Voice(ToneID(models.ModeFoco)); v.Volume() != 0.7 {
		t.Errorf("foco at %v, want 0.7", v.Volume())
	}
	if eng.Has(ToneID(models.ModeEnergia)) {
		t.Error("previous sound survived the preset")
	}

	if _, err := m.LoadPreset("festa"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("LoadPreset(unknown) error = %v", err)
	}
}

func TestTimerStopsEverything(t *testing.T) {
	m, eng, clk, _ := newMixer(t, nil)
	m.LoadPreset("equilibrio")
	if err := m.StartTimer(5); err != nil {
		t.Fatal(err)
	}

	clk.Advance(299 * time.Second)
	st := m.Snapshot()
	if st.Remaining != 1 || len(st.Active) != 4 {
		t.Fatalf("after 299s: remaining %d, active %v", st.Remaining, st.Active)
	}
	clk.Advance(time.Second)
	st = m.Snapshot()
	if len(st.Active) != 0 || st.Timer != 0 || eng.Nodes() != 0 {
		t.Errorf("timer end left %+v, %d nodes", st, eng.Nodes())
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers pending", clk.Pending())
	}
}

func TestTimerRestartAndCancel(t *testing.T) {
	m, _, clk, _ := newMixer(t, nil)
	m.Toggle(models.ModeFoco)

	if err := m.StartTimer(7); !errors.Is(err, ErrTimerMinutes) {
		t.Errorf("StartTimer(7) error = %v", err)
	}

	m.StartTimer(5)
	clk.Advance(10 * time.Second)
	m.StartTimer(10)
	if st := m.Snapshot(); st.Remaining != 600 || clk.Pending() != 1 {
		t.Fatalf("restart: remaining %d, pending %d", st.Remaining, clk.Pending())
	}

	m.CancelTimer()
	clk.Advance(time.Hour)
	st := m.Snapshot()
	if st.Timer != 0 || len(st.Active) != 1 {
		t.Errorf("after cancel: %+v", st)
	}
}
