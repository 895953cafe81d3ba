// Package speech narrates Portuguese text for the child. Requests are
// last-request-wins: a new utterance always cancels the one before it.
package speech

import (
	"context"
	"errors"
)

// Narration defaults, tuned for children.
const (
	DefaultLang   = "pt-BR"
	DefaultRate   = 0.8
	DefaultPitch  = 0.9
	DefaultVolume = 1.0
)

// Lifecycle events reported back by an output.
const (
	EventStart = "start"
	EventEnd   = "end"
	EventError = "error"
)

// ErrNoAudio is returned by outputs that cannot render a text-only request.
var ErrNoAudio = errors.New("speech: no synthesized audio")

// Request is one utterance.
type Request struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
	// Voice is the platform voice name; empty means the platform default.
	Voice     string `json:"voice,omitempty"`
	VoiceLang string `json:"voiceLang,omitempty"`
}

// NewRequest builds a request with the narration defaults.
func NewRequest(id, text string) Request {
	return Request{
		ID:     id,
		Text:   text,
		Lang:   DefaultLang,
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
	}
}

// Clip is synthesized audio for a request: an MP3 on disk and the URL the
// static file server exposes it under.
type Clip struct {
	Path string
	URL  string
}

// Reporter receives lifecycle events for a request.
type Reporter func(event, reason string)

// Output plays requests. Play gets a nil clip when no synthesizer is
// configured or synthesis failed; outputs that need audio return ErrNoAudio.
type Output interface {
	Play(req Request, clip *Clip, report Reporter) error
	Stop(id string)
}

// Synthesizer turns requests into audio clips.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Clip, error)
}
