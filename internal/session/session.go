// Package session keeps the per-device state of the app: one event hub,
// tone engine, narrator and page components per browser device.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/game"
	"brinleneuro/internal/menu"
	"brinleneuro/internal/mixer"
	"brinleneuro/internal/models"
	"brinleneuro/internal/modo"
	"brinleneuro/internal/player"
	"brinleneuro/internal/speech"
	"brinleneuro/internal/tone"
	"brinleneuro/internal/voice"
)

const voiceRetry = 2 * time.Second

// Page is a screen of the app. Opening one stops what the others play.
type Page string

const (
	PageMenu    Page = "menu"
	PageModo    Page = "modo"
	PageJogo    Page = "neurojogo"
	PageSons    Page = "sons"
	PageMusicas Page = "musicas"
)

// Options configure a Registry.
type Options struct {
	Clock      clock.Clock
	SampleRate int
	// Shared is the host speaker engine. When set every session plays into
	// it and speech is mixed in instead of sent to the browser.
	Shared *tone.Engine
	Synth  speech.Synthesizer
	Voices voice.Lister
	// Flags returns the flag store of a device.
	Flags     func(deviceID string) flags.Store
	StaticDir string
	IdleTTL   time.Duration
	// Tracks is the measured playlist; NewRegistry reads it when nil.
	Tracks []player.Track
}

// Session is everything one device owns.
type Session struct {
	ID       string
	Hub      *events.Hub
	Engine   *tone.Engine
	Flags    flags.Store
	Selector *voice.Selector
	Speech   *speech.Controller
	Game     *game.Machine
	Mixer    *mixer.Mixer
	Menu     *menu.Sound
	Player   *player.Player

	clk     clock.Clock
	shared  bool
	compact bool

	mu       sync.Mutex
	page     Page
	modes    map[models.ModeID]*modo.Session
	lastSeen time.Time
	retry    clock.Timer
}

func newSession(ctx context.Context, id, userAgent string, opts Options) *Session {
	s := &Session{
		ID:      id,
		Hub:     events.NewHub(),
		Flags:   opts.Flags(id),
		clk:     opts.Clock,
		compact: isCompact(userAgent),
		modes:   make(map[models.ModeID]*modo.Session),
	}
	s.Engine = opts.Shared
	s.shared = opts.Shared != nil
	if !s.shared {
		s.Engine = tone.NewEngine(opts.SampleRate)
	}

	var out speech.Output = speech.NewBrowserOutput(s.Hub)
	if s.shared {
		out = speech.NewMixerOutput(s.Engine)
	}
	s.Selector = voice.NewSelector(opts.Voices)
	s.Speech = speech.NewController(speech.Options{
		Clock:    opts.Clock,
		Selector: s.Selector,
		Synth:    opts.Synth,
		Output:   out,
		Voice:    voice.Options{Handheld: voice.IsHandheld(userAgent)},
	})
	if opts.Voices != nil {
		s.retry = s.Selector.ScheduleRefresh(opts.Clock, voiceRetry)
	}

	s.Game = game.New(game.Deps{Clock: opts.Clock, Events: s.Hub, Engine: s.Engine, Speaker: s.Speech, ToneScope: s.toneScope()})
	s.Mixer = mixer.New(ctx, mixer.Deps{Clock: opts.Clock, Events: s.Hub, Engine: s.Engine, Flags: s.Flags, ToneScope: s.toneScope()})
	s.Menu = menu.New(s.Engine, s.toneScope(), s.Flags, s.Hub)

	pd := player.Deps{Events: s.Hub, StaticDir: opts.StaticDir, Tracks: opts.Tracks}
	if s.shared {
		pd.Engine = s.Engine
	}
	s.Player = player.New(pd)
	s.lastSeen = opts.Clock.Now()
	return s
}

// isCompact reports small screens, where floating words use tighter bands.
func isCompact(userAgent string) bool {
	return strings.Contains(userAgent, "Mobi") || voice.IsHandheld(userAgent)
}

// toneScope keeps this device's tone ids apart on a shared engine.
func (s *Session) toneScope() string {
	if s.shared {
		return s.ID
	}
	return ""
}

// Shared reports whether the session plays on the host speaker.
func (s *Session) Shared() bool { return s.shared }

// Modo returns the session of a mode page, deactivating any other mode the
// device had running.
func (s *Session) Modo(id models.ModeID) (*modo.Session, bool) {
	mode, ok := catalog.Mode(id)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for other, m := range s.modes {
		if other != id {
			m.Deactivate()
		}
	}
	m, ok := s.modes[id]
	if !ok {
		m = modo.New(mode, modo.Deps{
			Clock:     s.clk,
			Events:    s.Hub,
			Engine:    s.Engine,
			Speaker:   s.Speech,
			Compact:   s.compact,
			ToneScope: s.toneScope(),
		})
		s.modes[id] = m
	}
	return m, true
}

// PauseModes deactivates every mode page, e.g. when the device navigates
// elsewhere.
func (s *Session) PauseModes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.modes {
		m.Deactivate()
	}
}

// Enter records that the device opened page and tears down the page it
// left: the menu ambience, any mode, the game, the mixer or the playlist.
func (s *Session) Enter(ctx context.Context, page Page) {
	s.mu.Lock()
	prev := s.page
	s.page = page
	s.mu.Unlock()

	if prev != page {
		switch prev {
		case PageMenu:
			s.Menu.Close()
		case PageJogo:
			s.Game.Reset()
		case PageSons:
			s.Mixer.StopAll()
		case PageMusicas:
			s.Player.Stop()
		}
		s.Speech.Cancel()
	}
	if page != PageModo {
		s.PauseModes()
	}
	if page == PageMenu {
		s.Menu.Resume(ctx)
	}
}

// Page returns the page the device last opened.
func (s *Session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.clk.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close stops everything the session owns.
func (s *Session) Close() {
	s.PauseModes()
	if s.retry != nil {
		s.retry.Stop()
	}
	s.Game.Close()
	s.Mixer.Close()
	s.Menu.Close()
	s.Player.Stop()
	s.Speech.Cancel()
	s.Speech.Wait()
	if !s.shared {
		s.Engine.StopAll()
	}
	s.Hub.Close()
}

// Registry maps device ids to sessions.
type Registry struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Flags == nil {
		opts.Flags = func(string) flags.Store { return flags.NewMemoryStore() }
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = tone.DefaultSampleRate
	}
	if opts.Tracks == nil {
		opts.Tracks = player.LoadTracks(opts.StaticDir, "")
	}
	return &Registry{opts: opts, sessions: make(map[string]*Session)}
}

// Get returns the session of a device, creating it on first use.
func (r *Registry) Get(ctx context.Context, deviceID, userAgent string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[deviceID]
	if !ok {
		s = newSession(ctx, deviceID, userAgent, r.opts)
		r.sessions[deviceID] = s
		log.Info().Str("device", deviceID).Bool("shared", s.shared).Msg("session created")
	}
	s.Touch()
	return s
}

// Lookup returns an existing session.
func (r *Registry) Lookup(deviceID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[deviceID]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL with no open event
// stream, returning how many were removed.
func (r *Registry) Sweep() int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.opts.Clock.Now().Add(-r.opts.IdleTTL)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.Hub.Subscribers() == 0 && s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		log.Info().Str("device", s.ID).Msg("idle session closed")
	}
	return len(idle)
}

// StartCleanup sweeps every interval until the ticker is stopped.
func (r *Registry) StartCleanup(interval time.Duration) clock.Ticker {
	return r.opts.Clock.Every(interval, func() { r.Sweep() })
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
