package tone

import (
	"math"
	"math/rand/v2"

	"brinleneuro/internal/models"
)

// oscillator produces a periodic waveform in [-1, 1].
type oscillator struct {
	freq  float64
	wave  models.Waveform
	phase float64
	step  float64
}

func newOscillator(freq float64, wave models.Waveform, sampleRate int) *oscillator {
	return &oscillator{freq: freq, wave: wave, step: freq / float64(sampleRate)}
}

func (o *oscillator) next() float64 {
	v := waveValue(o.wave, o.phase)
	o.phase += o.step
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return v
}

// waveValue evaluates a waveform at phase in [0, 1).
func waveValue(wave models.Waveform, phase float64) float64 {
	switch wave {
	case models.Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case models.Sawtooth:
		return 2*phase - 1
	case models.Triangle:
		if phase < 0.25 {
			return 4 * phase
		}
		if phase < 0.75 {
			return 2 - 4*phase
		}
		return 4*phase - 4
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// noise is a white noise source.
type noise struct {
	rng *rand.Rand
}

func newNoise(seed uint64) *noise {
	return &noise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *noise) next() float64 {
	return n.rng.Float64()*2 - 1
}

// lfo is a slow sine that sweeps between min and max.
type lfo struct {
	osc      *oscillator
	min, max float64
}

func newLFO(spec LFOSpec, sampleRate int) *lfo {
	return &lfo{osc: newOscillator(spec.Rate, models.Sine, sampleRate), min: spec.Min, max: spec.Max}
}

func (l *lfo) next() float64 {
	return l.min + (l.max-l.min)*(0.5+0.5*l.osc.next())
}

// biquad is an RBJ low-pass section.
type biquad struct {
	sampleRate     float64
	q              float64
	cutoff         float64
	b0, b1, b2     float64
	a1, a2         float64
	x1, x2, y1, y2 float64
}

func newLowpass(cutoff float64, sampleRate int) *biquad {
	b := &biquad{sampleRate: float64(sampleRate), q: 1}
	b.setCutoff(cutoff)
	return b
}

func (b *biquad) setCutoff(cutoff float64) {
	nyquist := b.sampleRate / 2
	if cutoff > nyquist*0.99 {
		cutoff = nyquist * 0.99
	}
	if cutoff < 10 {
		cutoff = 10
	}
	b.cutoff = cutoff
	w0 := 2 * math.Pi * cutoff / b.sampleRate
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * b.q)
	a0 := 1 + alpha
	b.b0 = (1 - cos) / 2 / a0
	b.b1 = (1 - cos) / a0
	b.b2 = (1 - cos) / 2 / a0
	b.a1 = -2 * cos / a0
	b.a2 = (1 - alpha) / a0
}

func (b *biquad) process(x float64) float64 {
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return y
}

// ramp moves a value linearly to a target over a number of frames.
type ramp struct {
	value     float64
	target    float64
	step      float64
	remaining int
}

func (r *ramp) set(target float64, frames int) {
	r.target = target
	if frames <= 0 {
		r.value = target
		r.remaining = 0
		return
	}
	r.remaining = frames
	r.step = (target - r.value) / float64(frames)
}

func (r *ramp) next() float64 {
	if r.remaining > 0 {
		r.value += r.step
		r.remaining--
		if r.remaining == 0 {
			r.value = r.target
		}
	}
	return r.value
}
