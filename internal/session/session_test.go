package session

import (
	"context"
	"testing"
	"time"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/menu"
	"brinleneuro/internal/mixer"
	"brinleneuro/internal/models"
	"brinleneuro/internal/modo"
	"brinleneuro/internal/tone"
)

func newRegistry(t *testing.T, shared *tone.Engine) (*Registry, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake()
	stores := map[string]*flags.MemoryStore{}
	r := NewRegistry(Options{
		Clock:      clk,
		SampleRate: 8000,
		Shared:     shared,
		Flags: func(id string) flags.Store {
			if stores[id] == nil {
				stores[id] = flags.NewMemoryStore()
			}
			return stores[id]
		},
		StaticDir: t.TempDir(),
		IdleTTL:   time.Hour,
	})
	t.Cleanup(r.Close)
	return r, clk
}

func TestGetReusesSession(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t, nil)

	a := r.Get(ctx, "device-a", "Mozilla/5.0")
	if again := r.Get(ctx, "device-a", "Mozilla/5.0"); again != a {
		t.Fatal("Get() created a second session for the same device")
	}
	b := r.Get(ctx, "device-b", "Mozilla/5.0")
	if b.Engine == a.Engine || b.Hub == a.Hub {
		t.Error("devices share an engine or hub in stream mode")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}
	if _, ok := r.Lookup("device-c"); ok {
		t.Error("Lookup() invented a session")
	}
}

func TestSharedEngine(t *testing.T) {
	ctx := context.Background()
	host := tone.NewEngine(8000)
	r, _ := newRegistry(t, host)

	a := r.Get(ctx, "device-a", "")
	b := r.Get(ctx, "device-b", "")
	if a.Engine != host || b.Engine != host || !a.Shared() {
		t.Fatal("speaker mode sessions do not use the host engine")
	}

	foco := tone.ScopedID("device-a", mixer.ToneID(models.ModeFoco))
	a.Mixer.Toggle(models.ModeFoco)
	if !host.Has(foco) {
		t.Fatal("mixer tone not on the host engine")
	}
	r.Sweep()
	a.Close()
	if host.Has(foco) {
		t.Error("closing a session left its mixer tone on the host engine")
	}
}

func TestModoSwitchDeactivatesOthers(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t, nil)
	s := r.Get(ctx, "device-a", "")

	calma, ok := s.Modo(models.ModeCalma)
	if !ok {
		t.Fatal("calma not found")
	}
	calma.Activate()
	if !s.Engine.Has(modo.ToneID(models.ModeCalma)) {
		t.Fatal("calma tone not started")
	}

	foco, _ := s.Modo(models.ModeFoco)
	if calma.Active() {
		t.Error("opening foco left calma running")
	}
	if again, _ := s.Modo(models.ModeFoco); again != foco {
		t.Error("Modo() recreated the foco session")
	}
	if _, ok := s.Modo("sonho"); ok {
		t.Error("unknown mode resolved")
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	r, clk := newRegistry(t, nil)

	idle := r.Get(ctx, "idle", "")
	idle.Mixer.Toggle(models.ModeEnergia)
	watched := r.Get(ctx, "watched", "")
	_, unsubscribe := watched.Hub.Subscribe()
	defer unsubscribe()

	clk.Advance(30 * time.Minute)
	if n := r.Sweep(); n != 0 {
		t.Fatalf("Sweep() removed %d sessions before the TTL", n)
	}
	r.Get(ctx, "fresh", "")

	clk.Advance(45 * time.Minute)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("Sweep() removed %d sessions, want 1", n)
	}
	if _, ok := r.Lookup("idle"); ok {
		t.Error("idle session survived")
	}
	if idle.Engine.Nodes() != 0 {
		t.Error("closed session still holds tone nodes")
	}
	if _, ok := r.Lookup("watched"); !ok {
		t.Error("session with an open stream was removed")
	}
}

func TestStartCleanup(t *testing.T) {
	ctx := context.Background()
	r, clk := newRegistry(t, nil)
	r.Get(ctx, "device-a", "")

	ticker := r.StartCleanup(10 * time.Minute)
	defer ticker.Stop()
	clk.Advance(2 * time.Hour)
	if r.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", r.Len())
	}
}

func TestEnterStopsPreviousPage(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t, nil)
	s := r.Get(ctx, "device-a", "")

	s.Enter(ctx, PageMenu)
	s.Menu.Toggle(ctx)

	s.Enter(ctx, PageSons)
	if s.Menu.Playing() {
		t.Error("menu ambience kept playing on the mixer page")
	}
	s.Mixer.Toggle(models.ModeCalma)

	s.Enter(ctx, PageJogo)
	if len(s.Mixer.Snapshot().Active) != 0 {
		t.Error("mixer kept playing in the game")
	}
	s.Game.SelectMode(models.ModeFoco)

	s.Enter(ctx, PageMenu)
	if s.Game.Snapshot().Mode != "" {
		t.Error("game not reset on leaving")
	}
	if !s.Menu.Playing() {
		t.Error("menu ambience not resumed from its saved flag")
	}
	if s.Page() != PageMenu {
		t.Errorf("Page() = %q", s.Page())
	}
}

func TestSharedEngineKeepsDevicesApart(t *testing.T) {
	ctx := context.Background()
	host := tone.NewEngine(8000)
	r, _ := newRegistry(t, host)
	a := r.Get(ctx, "device-a", "")
	b := r.Get(ctx, "device-b", "")

	calmaA, _ := a.Modo(models.ModeCalma)
	calmaB, _ := b.Modo(models.ModeCalma)
	calmaA.Activate()
	calmaB.Activate()
	calmaA.Deactivate()
	if !calmaB.Active() || !host.Has(tone.ScopedID("device-b", modo.ToneID(models.ModeCalma))) {
		t.Error("deactivating one device silenced the other's mode tone")
	}

	if _, err := a.Mixer.Toggle(models.ModeCalma); err != nil {
		t.Fatalf("device a mixer: %v", err)
	}
	if _, err := b.Mixer.Toggle(models.ModeCalma); err != nil {
		t.Errorf("device b could not play a sound device a is playing: %v", err)
	}

	a.Menu.Toggle(ctx)
	b.Menu.Toggle(ctx)
	a.Menu.Close()
	if !b.Menu.Playing() || !host.Has(tone.ScopedID("device-b", menu.ToneID)) {
		t.Error("closing one device's menu sound stopped the other's")
	}
}

func TestTracksMeasuredOncePerRegistry(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t, nil)
	if len(r.opts.Tracks) != 13 {
		t.Fatalf("registry measured %d tracks, want 13", len(r.opts.Tracks))
	}
	r.opts.Tracks[0].Duration = 42

	a := r.Get(ctx, "device-a", "")
	b := r.Get(ctx, "device-b", "")
	if a.Player.Tracks()[0].Duration != 42 || b.Player.Tracks()[0].Duration != 42 {
		t.Error("players measured their own track list")
	}
}
