package speech

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/hajimehoshi/go-mp3"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/events"
	"brinleneuro/internal/tone"
)

// SpeakEvent is the payload of a speak event. URL is empty for text-only
// requests, which the browser narrates with its own speech engine.
type SpeakEvent struct {
	Request
	URL string `json:"url,omitempty"`
}

// BrowserOutput forwards requests to the device's browser tabs, which
// report lifecycle events back over HTTP.
type BrowserOutput struct {
	pub events.Publisher
}

func NewBrowserOutput(pub events.Publisher) *BrowserOutput {
	return &BrowserOutput{pub: pub}
}

func (o *BrowserOutput) Play(req Request, clip *Clip, _ Reporter) error {
	ev := SpeakEvent{Request: req}
	if clip != nil {
		ev.URL = clip.URL
	}
	o.pub.Publish(events.Event{Type: events.TypeSpeak, Data: ev})
	return nil
}

func (o *BrowserOutput) Stop(id string) {
	o.pub.Publish(events.Event{Type: events.TypeSpeechCancel, Data: map[string]string{"id": id}})
}

// MixerOutput plays synthesized clips through a tone engine, for hosts that
// drive a local speaker.
type MixerOutput struct {
	engine *tone.Engine

	mu    sync.Mutex
	clips map[string]tone.ClipID
}

func NewMixerOutput(engine *tone.Engine) *MixerOutput {
	return &MixerOutput{engine: engine, clips: make(map[string]tone.ClipID)}
}

func (o *MixerOutput) Play(req Request, clip *Clip, report Reporter) error {
	if clip == nil {
		return ErrNoAudio
	}
	f, err := os.Open(clip.Path)
	if err != nil {
		return fmt.Errorf("opening speech clip: %w", err)
	}
	defer f.Close()

	samples, err := DecodeMP3(f, o.engine.SampleRate())
	if err != nil {
		return err
	}
	if req.Volume != 1 {
		for i := range samples {
			samples[i] *= float32(req.Volume)
		}
	}

	o.mu.Lock()
	id := o.engine.PlayClip(samples, func() {
		o.mu.Lock()
		delete(o.clips, req.ID)
		o.mu.Unlock()
		if report != nil {
			report(EventEnd, "")
		}
	})
	o.clips[req.ID] = id
	o.mu.Unlock()

	if report != nil {
		report(EventStart, "")
	}
	return nil
}

func (o *MixerOutput) Stop(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if clip, ok := o.clips[id]; ok {
		o.engine.StopClip(clip)
		delete(o.clips, id)
		log.Debug().Str("speech", id).Msg("speech clip stopped")
	}
}

// Playing reports how many speech clips are mixed in.
func (o *MixerOutput) Playing() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.clips)
}

// DecodeMP3 decodes an MP3 stream into interleaved stereo float samples at
// sampleRate.
func DecodeMP3(r io.Reader, sampleRate int) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		s := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		samples[i] = float32(s) / (1 << 15)
	}
	return Resample(samples, dec.SampleRate(), sampleRate), nil
}

// resampleQuality is the beep interpolation quality used for speech clips.
const resampleQuality = 4

// Resample converts interleaved stereo samples between rates.
func Resample(samples []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 {
		return samples
	}
	frames := len(samples) / tone.Channels
	if frames == 0 {
		return nil
	}

	pos := 0
	src := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= frames {
			return 0, false
		}
		n := 0
		for ; n < len(buf) && pos < frames; n++ {
			buf[n][0] = float64(samples[pos*tone.Channels])
			buf[n][1] = float64(samples[pos*tone.Channels+1])
			pos++
		}
		return n, true
	})
	r := beep.Resample(resampleQuality, beep.SampleRate(from), beep.SampleRate(to), src)

	out := make([]float32, 0, int(int64(frames)*int64(to)/int64(from)+1)*tone.Channels)
	buf := make([][2]float64, 512)
	for {
		n, ok := r.Stream(buf)
		for _, f := range buf[:n] {
			out = append(out, float32(f[0]), float32(f[1]))
		}
		if !ok || n == 0 {
			break
		}
	}
	return out
}
