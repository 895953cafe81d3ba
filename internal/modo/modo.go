// Package modo runs a mode page: while active it cycles vocabulary words and
// tips and plays the mode's ambient tone.
package modo

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/cycle"
	"brinleneuro/internal/events"
	"brinleneuro/internal/models"
	"brinleneuro/internal/tone"
)

const toneVolume = 0.5

// Speaker is the narration surface a session drives.
type Speaker interface {
	Speak(text string) string
	Cancel()
}

// Deps are the per-device services a session uses.
type Deps struct {
	Clock   clock.Clock
	Events  events.Publisher
	Engine  *tone.Engine
	Speaker Speaker
	Compact bool
	// ToneScope namespaces tone ids on an engine shared between devices.
	ToneScope string
}

// State is a point-in-time view of a session for rendering.
type State struct {
	Mode   models.ModeID `json:"mode"`
	Active bool          `json:"active"`
	Word   *cycle.Word   `json:"word,omitempty"`
	Tip    *cycle.Tip    `json:"tip,omitempty"`
}

// Session is one mode page of a device.
type Session struct {
	mode    models.Mode
	engine  *tone.Engine
	toneID  string
	speaker Speaker
	pub     events.Publisher
	words   *cycle.WordCycler
	tips    *cycle.TipCycler

	mu     sync.Mutex
	active bool
	voice  *tone.Voice
}

func New(mode models.Mode, deps Deps) *Session {
	return &Session{
		mode:    mode,
		engine:  deps.Engine,
		toneID:  tone.ScopedID(deps.ToneScope, ToneID(mode.ID)),
		speaker: deps.Speaker,
		pub:     deps.Events,
		words: cycle.NewWordCycler(deps.Clock, deps.Events, deps.Speaker, cycle.WordOptions{
			Words:   mode.Words,
			Colors:  mode.Colors,
			Compact: deps.Compact,
		}),
		tips: cycle.NewTipCycler(deps.Clock, deps.Events, mode.Tips),
	}
}

// ToneID is the engine id of a mode's ambient tone.
func ToneID(id models.ModeID) string {
	return "modo:" + string(id)
}

func (s *Session) Mode() models.Mode { return s.mode }

// Toggle flips the session and returns the new active state.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active {
		s.Deactivate()
		return false
	}
	s.Activate()
	return true
}

// Activate starts the word and tip cycles and the ambient tone.
func (s *Session) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true

	id := s.toneID
	if !s.engine.Has(id) {
		v, err := s.engine.StartTone(id, tone.ModeTone(s.mode.Frequency, s.mode.Waveform), toneVolume)
		if err != nil && !errors.Is(err, tone.ErrToneExists) {
			log.Warn().Err(err).Str("mode", string(s.mode.ID)).Msg("starting mode tone")
		}
		s.voice = v
	}
	s.words.Start()
	s.tips.SetEnabled(true)
	s.publishLocked()
	log.Info().Str("mode", string(s.mode.ID)).Msg("mode activated")
}

// Deactivate stops everything the session started. Nothing the session
// scheduled fires afterwards.
func (s *Session) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false

	s.words.Stop()
	s.tips.SetEnabled(false)
	s.engine.StopTone(s.voice)
	s.voice = nil
	s.speaker.Cancel()
	s.publishLocked()
	log.Info().Str("mode", string(s.mode.ID)).Msg("mode paused")
}

// Pause deactivates the session when its page is hidden.
func (s *Session) Pause() {
	s.Deactivate()
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := State{Mode: s.mode.ID, Active: s.active}
	if w, ok := s.words.Current(); ok {
		st.Word = &w
	}
	if tip, ok := s.tips.Current(); ok {
		st.Tip = &tip
	}
	return st
}

func (s *Session) publishLocked() {
	s.pub.Publish(events.Event{Type: events.TypeModo, Data: s.snapshotLocked()})
}
