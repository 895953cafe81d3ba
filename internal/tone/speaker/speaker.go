// Package speaker plays a tone engine through the host's audio device.
package speaker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/tone"
)

// ErrUnavailable is returned when the host has no usable audio device.
var ErrUnavailable = errors.New("audio unavailable")

// oto allows a single context per process.
var (
	ctxOnce sync.Once
	ctx     *oto.Context
	ctxErr  error
)

// Speaker streams an engine to the default output device.
type Speaker struct {
	mu     sync.Mutex
	player *oto.Player
	detach func()
}

// Open starts playing engine. Every engine must use the rate of the first
// one opened.
func Open(engine *tone.Engine) (*Speaker, error) {
	ctxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   engine.SampleRate(),
			ChannelCount: tone.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		c, ready, err := oto.NewContext(op)
		if err != nil {
			ctxErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
			return
		}
		<-ready
		ctx = c
	})
	if ctxErr != nil {
		log.Warn().Err(ctxErr).Msg("speaker output disabled")
		return nil, ctxErr
	}

	p := ctx.NewPlayer(engine)
	p.Play()
	log.Info().Int("sample_rate", engine.SampleRate()).Msg("speaker output started")
	return &Speaker{player: p, detach: engine.Attach()}, nil
}

// Close stops playback. It is safe to call more than once.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	s.detach()
	return err
}
