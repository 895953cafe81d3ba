package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/voice"
)

const (
	startDeadline    = 500 * time.Millisecond
	synthesisTimeout = 15 * time.Second
	voiceLookup      = 2 * time.Second
)

// Options configure a Controller.
type Options struct {
	Clock    clock.Clock
	Selector *voice.Selector
	// Synth is optional; without one the output receives text-only requests.
	Synth  Synthesizer
	Output Output
	Voice  voice.Options
}

type utterance struct {
	req      Request
	cancel   context.CancelFunc
	started  bool
	watchdog clock.Timer
}

// Controller owns the single outstanding utterance of a device session.
type Controller struct {
	clk      clock.Clock
	selector *voice.Selector
	synth    Synthesizer
	out      Output
	opts     voice.Options

	mu      sync.Mutex
	current *utterance
	wg      sync.WaitGroup
}

func NewController(opts Options) *Controller {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	selector := opts.Selector
	if selector == nil {
		selector = voice.NewSelector(nil)
	}
	return &Controller{
		clk:      clk,
		selector: selector,
		synth:    opts.Synth,
		out:      opts.Output,
		opts:     opts.Voice,
	}
}

// Speak cancels any outstanding utterance and narrates text. It returns the
// new request's id. Failures are logged, never returned.
//
// The request becomes the latest one before anything can block, so a slow
// voice lookup or synthesis never lets an older request overtake it.
func (c *Controller) Speak(text string) string {
	req := NewRequest(uuid.NewString(), text)
	ctx, cancel := context.WithTimeout(context.Background(), synthesisTimeout)
	u := &utterance{req: req, cancel: cancel}

	c.mu.Lock()
	c.stopLocked()
	c.current = u
	u.watchdog = c.clk.AfterFunc(startDeadline, func() { c.checkStarted(u) })
	c.mu.Unlock()

	log.Debug().Str("speech", req.ID).Str("text", text).Msg("speak")

	if c.synth == nil {
		c.deliver(u, c.withVoice(ctx, req), nil)
		return req.ID
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		req := c.withVoice(ctx, req)
		if ctx.Err() != nil {
			return
		}
		clip, err := c.synth.Synthesize(ctx, req)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return
			}
			log.Warn().Err(err).Str("speech", req.ID).Msg("synthesis failed, falling back to text")
			c.deliver(u, req, nil)
			return
		}
		c.deliver(u, req, &clip)
	}()
	return req.ID
}

// withVoice fills in the selector's current pick; no pick leaves the
// platform default.
func (c *Controller) withVoice(ctx context.Context, req Request) Request {
	ctx, cancel := context.WithTimeout(ctx, voiceLookup)
	defer cancel()
	if v, ok := c.selector.Current(ctx, c.opts); ok {
		req.Voice = v.Name
		req.VoiceLang = v.Lang
	}
	return req
}

// deliver hands req to the output if u is still the latest request.
func (c *Controller) deliver(u *utterance, req Request, clip *Clip) {
	if !c.isCurrent(u) {
		return
	}
	report := func(event, reason string) { c.Observe(req.ID, event, reason) }
	if err := c.out.Play(req, clip, report); err != nil {
		log.Warn().Err(err).Str("speech", req.ID).Msg("speech output failed")
		c.Observe(req.ID, EventError, err.Error())
		return
	}
	// superseded while the output was starting
	if !c.isCurrent(u) {
		c.out.Stop(req.ID)
	}
}

func (c *Controller) isCurrent(u *utterance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == u
}

func (c *Controller) checkStarted(u *utterance) {
	c.mu.Lock()
	stalled := c.current == u && !u.started
	c.mu.Unlock()
	if stalled {
		log.Warn().Str("speech", u.req.ID).Dur("after", startDeadline).Msg("speech has not started")
	}
}

// Cancel stops the outstanding utterance, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	u := c.current
	if u == nil {
		return
	}
	c.current = nil
	u.cancel()
	if u.watchdog != nil {
		u.watchdog.Stop()
	}
	c.out.Stop(u.req.ID)
}

// Observe records a lifecycle report from the playback surface. Reports for
// superseded requests are ignored.
func (c *Controller) Observe(id, event, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u := c.current
	if u == nil || u.req.ID != id {
		log.Debug().Str("speech", id).Str("event", event).Msg("stale speech report")
		return
	}
	switch event {
	case EventStart:
		u.started = true
		log.Debug().Str("speech", id).Msg("speech started")
	case EventEnd:
		log.Debug().Str("speech", id).Msg("speech ended")
		c.finishLocked(u)
	case EventError:
		log.Warn().Str("speech", id).Str("reason", reason).Msg("speech error")
		c.finishLocked(u)
	}
}

func (c *Controller) finishLocked(u *utterance) {
	c.current = nil
	u.cancel()
	if u.watchdog != nil {
		u.watchdog.Stop()
	}
}

// Speaking reports whether an utterance is outstanding.
func (c *Controller) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Voices returns the selector's cached voice list.
func (c *Controller) Voices() []voice.Voice {
	return c.selector.Voices()
}

// Wait blocks until background synthesis has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}
