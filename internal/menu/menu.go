// Package menu owns the sea-wave ambience of the main menu.
package menu

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/events"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/tone"
)

// ToneID is the engine id of the sea ambience.
const ToneID = "menu:mar"

const seaVolume = 1.0

// Sound is the menu ambience of one device.
type Sound struct {
	engine *tone.Engine
	toneID string
	store  flags.Store
	pub    events.Publisher

	mu    sync.Mutex
	voice *tone.Voice
}

// New creates the ambience of a device. scope namespaces the tone id on an
// engine shared between devices.
func New(engine *tone.Engine, scope string, store flags.Store, pub events.Publisher) *Sound {
	return &Sound{engine: engine, toneID: tone.ScopedID(scope, ToneID), store: store, pub: pub}
}

// Toggle starts or stops the ambience, remembers the choice and returns
// whether it is now playing.
func (s *Sound) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playing := s.voice == nil
	if playing {
		if err := s.startLocked(); err != nil {
			return false, err
		}
	} else {
		s.engine.StopTone(s.voice)
		s.voice = nil
	}
	if err := flags.SetMenuSoundPlaying(ctx, s.store, playing); err != nil {
		log.Warn().Err(err).Msg("saving menu sound flag")
	}
	s.publishLocked()
	return playing, nil
}

// Resume restarts the ambience when it was left playing.
func (s *Sound) Resume(ctx context.Context) {
	if !flags.MenuSoundPlaying(ctx, s.store) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voice != nil {
		return
	}
	if err := s.startLocked(); err != nil {
		log.Warn().Err(err).Msg("resuming menu sound")
		return
	}
	s.publishLocked()
}

func (s *Sound) startLocked() error {
	v, err := s.engine.StartTone(s.toneID, tone.SeaSpec(), seaVolume)
	if err != nil {
		return err
	}
	s.voice = v
	return nil
}

// Playing reports whether the ambience is live.
func (s *Sound) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice != nil
}

// Close stops the ambience without touching the saved flag.
func (s *Sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.StopTone(s.voice)
	s.voice = nil
}

func (s *Sound) publishLocked() {
	if s.pub != nil {
		s.pub.Publish(events.Event{Type: events.TypeMenuSound, Data: map[string]bool{"playing": s.voice != nil}})
	}
}
