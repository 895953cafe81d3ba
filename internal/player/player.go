// Package player runs the Músicas page playlist.
package player

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/go-mp3"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/events"
	"brinleneuro/internal/models"
	"brinleneuro/internal/speech"
	"brinleneuro/internal/tone"
)

var ErrUnknownTrack = errors.New("unknown track")

// Track is a catalog track with its measured length and public URL.
type Track struct {
	models.Track
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// Deps configure a Player. When Engine is set tracks are decoded and mixed
// into it instead of being played by the browser.
type Deps struct {
	Events    events.Publisher
	StaticDir string
	URLPrefix string
	Engine    *tone.Engine
	// Tracks is a playlist measured once and shared between players; nil
	// means read the files now.
	Tracks []Track
}

// State is a point-in-time view of the player.
type State struct {
	Current  string `json:"current,omitempty"`
	Playing  bool   `json:"playing"`
	AutoPlay bool   `json:"autoPlay"`
}

// Player is the playlist of one device.
type Player struct {
	tracks    []Track
	staticDir string
	engine    *tone.Engine
	pub       events.Publisher

	mu       sync.Mutex
	current  int
	playing  bool
	autoPlay bool
	clip     tone.ClipID
}

func New(deps Deps) *Player {
	tracks := deps.Tracks
	if tracks == nil {
		tracks = LoadTracks(deps.StaticDir, deps.URLPrefix)
	}
	return &Player{
		tracks:    tracks,
		staticDir: deps.StaticDir,
		engine:    deps.Engine,
		pub:       deps.Events,
		current:   -1,
		autoPlay:  true,
	}
}

// LoadTracks lists the catalog tracks with their durations. A track whose
// file is missing or unreadable has zero duration.
func LoadTracks(staticDir, urlPrefix string) []Track {
	if urlPrefix == "" {
		urlPrefix = "/static/"
	}
	var out []Track
	for _, t := range catalog.Tracks() {
		d, err := trackDuration(filepath.Join(staticDir, filepath.FromSlash(t.File)))
		if err != nil {
			log.Debug().Err(err).Str("track", t.ID).Msg("track duration unavailable")
		}
		out = append(out, Track{Track: t, URL: path.Join(urlPrefix, t.File), Duration: d})
	}
	return out
}

func trackDuration(file string) (float64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", file, err)
	}
	if dec.SampleRate() <= 0 {
		return 0, nil
	}
	return float64(dec.Length()) / float64(tone.BytesPerFrame*dec.SampleRate()), nil
}

// Tracks returns the playlist.
func (p *Player) Tracks() []Track {
	return append([]Track(nil), p.tracks...)
}

func (p *Player) index(id string) int {
	for i, t := range p.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// PlayStop stops id when it is the playing track, otherwise switches to it.
// It returns whether id is now playing.
func (p *Player) PlayStop(id string) (bool, error) {
	i := p.index(id)
	if i < 0 {
		return false, ErrUnknownTrack
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing && p.current == i {
		p.stopLocked()
		p.publishLocked()
		return false, nil
	}
	if err := p.playLocked(i); err != nil {
		return false, err
	}
	p.publishLocked()
	return true, nil
}

// Ended handles the end of track id: with autoplay on the next track
// starts, otherwise (or after the last track) playback stops.
func (p *Player) Ended(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing || p.current < 0 || p.tracks[p.current].ID != id {
		return
	}
	next := p.current + 1
	if p.autoPlay && next < len(p.tracks) {
		if err := p.playLocked(next); err != nil {
			log.Warn().Err(err).Str("track", p.tracks[next].ID).Msg("autoplay")
			p.stopLocked()
		}
	} else {
		p.stopLocked()
	}
	p.publishLocked()
}

func (p *Player) playLocked(i int) error {
	p.stopLocked()
	if p.engine != nil {
		t := p.tracks[i]
		f, err := os.Open(filepath.Join(p.staticDir, filepath.FromSlash(t.File)))
		if err != nil {
			return fmt.Errorf("opening track %s: %w", t.ID, err)
		}
		samples, err := speech.DecodeMP3(f, p.engine.SampleRate())
		f.Close()
		if err != nil {
			return err
		}
		p.clip = p.engine.PlayClip(samples, p.clipEnded(t.ID))
	}
	p.current = i
	p.playing = true
	log.Debug().Str("track", p.tracks[i].ID).Msg("track started")
	return nil
}

// clipEnded runs on the engine's render goroutine, so the next track is
// decoded elsewhere.
func (p *Player) clipEnded(id string) func() {
	return func() { go p.Ended(id) }
}

func (p *Player) stopLocked() {
	if p.engine != nil && p.clip != 0 {
		p.engine.StopClip(p.clip)
		p.clip = 0
	}
	p.playing = false
}

// Stop halts playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.stopLocked()
		p.publishLocked()
	}
}

func (p *Player) SetAutoPlay(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoPlay = on
	p.publishLocked()
}

func (p *Player) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Player) snapshotLocked() State {
	st := State{Playing: p.playing, AutoPlay: p.autoPlay}
	if p.current >= 0 {
		st.Current = p.tracks[p.current].ID
	}
	return st
}

func (p *Player) publishLocked() {
	if p.pub != nil {
		p.pub.Publish(events.Event{Type: events.TypePlayer, Data: p.snapshotLocked()})
	}
}
