package tone

import "brinleneuro/internal/models"

// Source selects what feeds a voice.
type Source int

const (
	SourceOscillator Source = iota
	SourceNoise
)

// LFOSpec is a slow sine sweeping a parameter between Min and Max.
type LFOSpec struct {
	Rate float64
	Min  float64
	Max  float64
}

// FilterSpec is a low-pass stage. Stages > 1 cascades identical biquads
// (2 stages give a 24 dB/octave slope).
type FilterSpec struct {
	Cutoff float64
	Stages int
	Sweep  *LFOSpec
}

// Spec describes the node graph of an ambient voice:
// source -> [filter] -> amplitude (fixed Level or Modulation LFO) -> user gain.
type Spec struct {
	Source     Source
	Frequency  float64
	Waveform   models.Waveform
	Filter     *FilterSpec
	Modulation *LFOSpec
	Level      float64
}

// nodeCount is the number of audio nodes the spec allocates.
func (s Spec) nodeCount() int {
	n := 3 // source, amplitude gain, user gain
	if s.Filter != nil {
		n++
		if s.Filter.Sweep != nil {
			n++
		}
	}
	if s.Modulation != nil {
		n++
	}
	return n
}

// ModeTone is the low binaural-style tone of a mode: an oscillator whose
// gain breathes between 0 and 0.5 at 0.12 Hz.
func ModeTone(freq float64, wave models.Waveform) Spec {
	if wave == "" {
		wave = models.Sine
	}
	return Spec{
		Source:     SourceOscillator,
		Frequency:  freq,
		Waveform:   wave,
		Modulation: &LFOSpec{Rate: 0.12, Min: 0, Max: 0.5},
	}
}

// SeaSpec is the menu's sea-wave ambience: white noise through a 24 dB/oct
// low-pass whose cutoff drifts 400-1200 Hz, with a slow swell in volume.
func SeaSpec() Spec {
	return Spec{
		Source: SourceNoise,
		Filter: &FilterSpec{
			Cutoff: 800,
			Stages: 2,
			Sweep:  &LFOSpec{Rate: 0.08, Min: 400, Max: 1200},
		},
		Modulation: &LFOSpec{Rate: 0.15, Min: 0.05, Max: 0.2},
	}
}

// HumSpec is the faint 40 Hz background of the NeuroJogo.
func HumSpec() Spec {
	return Spec{
		Source:    SourceOscillator,
		Frequency: 40,
		Waveform:  models.Sine,
		Level:     0.03,
	}
}
