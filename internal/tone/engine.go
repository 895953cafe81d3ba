// Package tone synthesizes the app's ambient sounds as PCM: mode tones, the
// menu sea ambience, the game hum, feedback chimes and mixed-in clips.
package tone

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultSampleRate = 44100
	Channels          = 2
	BytesPerFrame     = Channels * 2

	volumeRamp           = 100 * time.Millisecond
	filterUpdateInterval = 32
)

var (
	ErrToneExists = errors.New("tone already playing")
	ErrNoTone     = errors.New("tone not playing")
)

// ScopedID prefixes id with its owner's scope. Sessions sharing one engine
// use their device id as scope so none of them reaches another's voices.
func ScopedID(scope, id string) string {
	if scope == "" {
		return id
	}
	return scope + "/" + id
}

// Voice is a live ambient tone owned by an Engine.
type Voice struct {
	id      string
	spec    Spec
	source  func() float64
	filters []*biquad
	sweep   *lfo
	mod     *lfo
	level   float64
	gain    ramp
	nodes   int
	counter int
}

func (v *Voice) ID() string { return v.id }

// Volume returns the user gain the voice is heading to.
func (v *Voice) Volume() float64 { return v.gain.target }

func (v *Voice) next() float64 {
	s := v.source()
	if len(v.filters) > 0 {
		if v.sweep != nil {
			cutoff := v.sweep.next()
			if v.counter%filterUpdateInterval == 0 {
				for _, f := range v.filters {
					f.setCutoff(cutoff)
				}
			}
			v.counter++
		}
		for _, f := range v.filters {
			s = f.process(s)
		}
	}
	amp := v.level
	if v.mod != nil {
		amp = v.mod.next()
	}
	return s * amp * v.gain.next()
}

// ClipID identifies a mixed-in clip.
type ClipID uint64

type clip struct {
	samples []float32
	pos     int
	done    func()
}

// Engine mixes live voices and one-shot clips into an interleaved stereo
// int16 stream. It implements io.Reader and is safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	sampleRate int
	voices     map[string]*Voice
	clips      map[ClipID]*clip
	nextClip   ClipID
	nodes      int
	seed       uint64
	listeners  int
}

// NewEngine creates an engine rendering at sampleRate.
func NewEngine(sampleRate int) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Engine{
		sampleRate: sampleRate,
		voices:     make(map[string]*Voice),
		clips:      make(map[ClipID]*clip),
		seed:       uint64(time.Now().UnixNano()),
	}
}

func (e *Engine) SampleRate() int { return e.sampleRate }

// StartTone allocates the nodes of spec under id and starts it at volume.
// Callers check Has first; starting a live id returns ErrToneExists.
func (e *Engine) StartTone(id string, spec Spec, volume float64) (*Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.voices[id]; ok {
		return nil, ErrToneExists
	}

	v := &Voice{id: id, spec: spec, level: spec.Level, nodes: spec.nodeCount()}
	switch spec.Source {
	case SourceNoise:
		e.seed++
		v.source = newNoise(e.seed).next
	default:
		v.source = newOscillator(spec.Frequency, spec.Waveform, e.sampleRate).next
	}
	if spec.Filter != nil {
		stages := spec.Filter.Stages
		if stages < 1 {
			stages = 1
		}
		for i := 0; i < stages; i++ {
			v.filters = append(v.filters, newLowpass(spec.Filter.Cutoff, e.sampleRate))
		}
		if spec.Filter.Sweep != nil {
			v.sweep = newLFO(*spec.Filter.Sweep, e.sampleRate)
		}
	}
	if spec.Modulation != nil {
		v.mod = newLFO(*spec.Modulation, e.sampleRate)
	}
	v.gain.set(clamp01(volume), 0)

	e.voices[id] = v
	e.nodes += v.nodes
	log.Debug().Str("tone", id).Float64("freq", spec.Frequency).Float64("volume", volume).Msg("tone started")
	return v, nil
}

// StopTone stops v and releases its nodes. Stopping a voice that is no
// longer live is a no-op.
func (e *Engine) StopTone(v *Voice) {
	if v == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.voices[v.id]; ok && cur == v {
		e.release(v)
	}
}

// Stop stops the voice registered under id, reporting whether one was live.
func (e *Engine) Stop(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.voices[id]
	if ok {
		e.release(v)
	}
	return ok
}

func (e *Engine) release(v *Voice) {
	delete(e.voices, v.id)
	e.nodes -= v.nodes
	log.Debug().Str("tone", v.id).Msg("tone stopped")
}

// StopAll stops every voice and clip.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.voices {
		e.release(v)
	}
	for id := range e.clips {
		delete(e.clips, id)
	}
}

// SetVolume ramps v's user gain to volume over 100 ms.
func (e *Engine) SetVolume(v *Voice, volume float64) error {
	if v == nil {
		return ErrNoTone
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.voices[v.id]; !ok || cur != v {
		return ErrNoTone
	}
	v.gain.set(clamp01(volume), int(volumeRamp.Seconds()*float64(e.sampleRate)))
	return nil
}

// Has reports whether a voice is live under id.
func (e *Engine) Has(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.voices[id]
	return ok
}

// Voice returns the live voice registered under id.
func (e *Engine) Voice(id string) (*Voice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.voices[id]
	return v, ok
}

// Active lists the ids of live voices, sorted.
func (e *Engine) Active() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.voices))
	for id := range e.voices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes reports how many audio nodes live voices hold.
func (e *Engine) Nodes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nodes
}

// PlayClip mixes interleaved stereo samples (at the engine rate) into the
// output once. done, if set, runs after the last sample is rendered.
func (e *Engine) PlayClip(samples []float32, done func()) ClipID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextClip++
	e.clips[e.nextClip] = &clip{samples: samples, done: done}
	return e.nextClip
}

// StopClip drops a clip before it finishes. done is not called.
func (e *Engine) StopClip(id ClipID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.clips[id]
	delete(e.clips, id)
	return ok
}

// Clips reports how many clips are still playing.
func (e *Engine) Clips() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.clips)
}

// Attach marks a reader of the engine's output as present until the
// returned detach func is called.
func (e *Engine) Attach() (detach func()) {
	e.mu.Lock()
	e.listeners++
	e.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			e.listeners--
			e.mu.Unlock()
		})
	}
}

// Listening reports whether any reader is attached.
func (e *Engine) Listening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listeners > 0
}

// PlayChime renders a feedback chime and mixes it in; nothing is retained
// once it has played. With no reader attached the chime is dropped, and it
// reports false.
func (e *Engine) PlayChime(kind Chime) bool {
	if !e.Listening() {
		return false
	}
	e.PlayClip(RenderChime(kind, e.sampleRate), nil)
	return true
}

// Render produces frames of interleaved stereo float samples.
func (e *Engine) Render(frames int) []float32 {
	out := make([]float32, frames*Channels)
	finished := e.mix(out)
	for _, f := range finished {
		f()
	}
	return out
}

// Read fills p with interleaved stereo signed 16-bit little-endian PCM.
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / BytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	buf := e.Render(frames)
	for i, s := range buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(toInt16(float64(s))))
	}
	return frames * BytesPerFrame, nil
}

func (e *Engine) mix(out []float32) []func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	frames := len(out) / Channels
	for _, v := range e.voices {
		for i := 0; i < frames; i++ {
			s := float32(v.next())
			out[i*Channels] += s
			out[i*Channels+1] += s
		}
	}

	var finished []func()
	for id, c := range e.clips {
		n := copyAdd(out, c.samples[c.pos:])
		c.pos += n
		if c.pos >= len(c.samples) {
			delete(e.clips, id)
			if c.done != nil {
				finished = append(finished, c.done)
			}
		}
	}
	return finished
}

func copyAdd(dst, src []float32) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
	return n
}

func toInt16(s float64) int16 {
	const maxInt16 = 1<<15 - 1
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(math.Round(s * maxInt16))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
