// Package mixer runs the Sons page: independent mode tones with their own
// volumes, presets and a sleep timer.
package mixer

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/models"
	"brinleneuro/internal/tone"
)

var (
	ErrUnknownSound  = errors.New("unknown sound")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrTimerMinutes  = errors.New("unsupported timer duration")
)

// Deps are the per-device services a Mixer uses.
type Deps struct {
	Clock  clock.Clock
	Events events.Publisher
	Engine *tone.Engine
	Flags  flags.Store
	// ToneScope namespaces tone ids on an engine shared between devices.
	ToneScope string
}

// State is a point-in-time view of the mixer.
type State struct {
	Active    []models.ModeID           `json:"active"`
	Volumes   map[models.ModeID]float64 `json:"volumes"`
	Timer     int                       `json:"timer"`
	Remaining int                       `json:"remaining"`
	Preset    string                    `json:"preset,omitempty"`
}

// Mixer owns the mixer tones of one device.
type Mixer struct {
	clk    clock.Clock
	pub    events.Publisher
	engine *tone.Engine
	scope  string
	store  flags.Store

	mu        sync.Mutex
	voices    map[models.ModeID]*tone.Voice
	volumes   map[models.ModeID]float64
	preset    string
	timer     int
	remaining int
	ticker    clock.Ticker
	timerGen  uint64
}

// New creates a mixer with volumes restored from the flag store.
func New(ctx context.Context, deps Deps) *Mixer {
	m := &Mixer{
		clk:     deps.Clock,
		pub:     deps.Events,
		engine:  deps.Engine,
		scope:   deps.ToneScope,
		store:   deps.Flags,
		voices:  make(map[models.ModeID]*tone.Voice),
		volumes: make(map[models.ModeID]float64),
	}
	for _, s := range catalog.Sounds() {
		m.volumes[s.ID] = flags.Volume(ctx, deps.Flags, string(s.ID))
	}
	return m
}

// ToneID is the engine id of a mixer channel.
func ToneID(id models.ModeID) string {
	return "sons:" + string(id)
}

// Toggle starts or stops a sound at its saved volume and reports whether it
// is now playing.
func (m *Mixer) Toggle(id models.ModeID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.voices[id]; ok {
		m.stopLocked(id)
		m.publishLocked()
		return false, nil
	}
	if err := m.startLocked(id, m.volumes[id]); err != nil {
		return false, err
	}
	m.publishLocked()
	return true, nil
}

// Start plays a sound at volume, restarting it if already live.
func (m *Mixer) Start(id models.ModeID, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked(id)
	if err := m.startLocked(id, volume); err != nil {
		return err
	}
	m.publishLocked()
	return nil
}

func (m *Mixer) startLocked(id models.ModeID, volume float64) error {
	s, ok := catalog.Sound(id)
	if !ok {
		return ErrUnknownSound
	}
	v, err := m.engine.StartTone(tone.ScopedID(m.scope, ToneID(id)), tone.ModeTone(s.Frequency, s.Waveform), volume)
	if err != nil {
		return err
	}
	m.voices[id] = v
	log.Debug().Str("sound", string(id)).Float64("volume", volume).Msg("mixer sound started")
	return nil
}

// Stop silences a sound.
func (m *Mixer) Stop(id models.ModeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopLocked(id) {
		m.publishLocked()
	}
}

func (m *Mixer) stopLocked(id models.ModeID) bool {
	v, ok := m.voices[id]
	if !ok {
		return false
	}
	m.engine.StopTone(v)
	delete(m.voices, id)
	return true
}

// SetVolume stores a sound's volume and ramps it if playing.
func (m *Mixer) SetVolume(ctx context.Context, id models.ModeID, volume float64) error {
	if _, ok := catalog.Sound(id); !ok {
		return ErrUnknownSound
	}
	volume = flags.Clamp01(volume)
	if err := flags.SetVolume(ctx, m.store, string(id), volume); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes[id] = volume
	if v, ok := m.voices[id]; ok {
		if err := m.engine.SetVolume(v, volume); err != nil {
			log.Warn().Err(err).Str("sound", string(id)).Msg("ramping mixer volume")
		}
	}
	m.publishLocked()
	return nil
}

// LoadPreset stops everything and starts each sound of the preset at its
// own volume.
func (m *Mixer) LoadPreset(id string) (models.Preset, error) {
	p, ok := catalog.Preset(id)
	if !ok {
		return models.Preset{}, ErrUnknownPreset
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAllLocked()
	for _, s := range p.Sounds {
		if err := m.startLocked(s.Sound, s.Volume); err != nil {
			log.Warn().Err(err).Str("preset", id).Str("sound", string(s.Sound)).Msg("starting preset sound")
			continue
		}
		m.volumes[s.Sound] = s.Volume
	}
	m.preset = p.ID
	m.publishLocked()
	log.Info().Str("preset", id).Msg("preset loaded")
	return p, nil
}

// StopAll silences every sound and clears the timer.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAllLocked()
	m.publishLocked()
}

func (m *Mixer) stopAllLocked() {
	for id := range m.voices {
		m.stopLocked(id)
	}
	m.cancelTimerLocked()
	m.preset = ""
}

// StartTimer stops everything after minutes, replacing a running timer.
func (m *Mixer) StartTimer(minutes int) error {
	if !slices.Contains(catalog.TimerMinutes, minutes) {
		return ErrTimerMinutes
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTimerLocked()
	m.timer = minutes
	m.remaining = minutes * 60
	gen := m.timerGen
	m.ticker = m.clk.Every(time.Second, func() { m.tick(gen) })
	m.publishLocked()
	return nil
}

func (m *Mixer) tick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.timerGen || m.ticker == nil {
		return
	}
	if m.remaining <= 1 {
		log.Info().Int("minutes", m.timer).Msg("mixer timer finished")
		m.stopAllLocked()
		m.publishLocked()
		return
	}
	m.remaining--
	m.publishLocked()
}

// CancelTimer clears the timer without stopping sounds.
func (m *Mixer) CancelTimer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTimerLocked()
	m.publishLocked()
}

func (m *Mixer) cancelTimerLocked() {
	m.timerGen++
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	m.timer = 0
	m.remaining = 0
}

// Close stops everything the mixer owns.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAllLocked()
}

func (m *Mixer) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Mixer) snapshotLocked() State {
	st := State{
		Volumes:   make(map[models.ModeID]float64, len(m.volumes)),
		Timer:     m.timer,
		Remaining: m.remaining,
		Preset:    m.preset,
	}
	for id := range m.voices {
		st.Active = append(st.Active, id)
	}
	slices.Sort(st.Active)
	for id, v := range m.volumes {
		st.Volumes[id] = v
	}
	return st
}

func (m *Mixer) publishLocked() {
	if m.pub != nil {
		m.pub.Publish(events.Event{Type: events.TypeMixer, Data: m.snapshotLocked()})
	}
}
