package tone

import (
	"fmt"
	"math"
	"time"

	"brinleneuro/internal/models"
)

// Chime is a short feedback melody.
type Chime string

const (
	ChimeCorrect Chime = "correct"
	ChimeWrong   Chime = "wrong"
)

// ParseChime validates a chime name.
func ParseChime(s string) (Chime, error) {
	switch Chime(s) {
	case ChimeCorrect, ChimeWrong:
		return Chime(s), nil
	}
	return "", fmt.Errorf("unknown chime %q", s)
}

type note struct {
	freq     float64
	at       time.Duration
	duration time.Duration
}

const (
	noteC3 = 130.81
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99

	chimeVolume  = 0.3
	chimeAttack  = 5 * time.Millisecond
	chimeDecay   = 100 * time.Millisecond
	chimeSustain = 0.3
	chimeRelease = 300 * time.Millisecond
)

func chimeNotes(kind Chime) []note {
	switch kind {
	case ChimeCorrect:
		return []note{
			{freq: noteC5, at: 0, duration: 100 * time.Millisecond},
			{freq: noteE5, at: 100 * time.Millisecond, duration: 100 * time.Millisecond},
			{freq: noteG5, at: 200 * time.Millisecond, duration: 150 * time.Millisecond},
		}
	case ChimeWrong:
		return []note{{freq: noteC3, at: 0, duration: 200 * time.Millisecond}}
	}
	return nil
}

// RenderChime renders kind as interleaved stereo float samples. Each note is a
// triangle wave shaped by an attack/decay/sustain/release envelope.
func RenderChime(kind Chime, sampleRate int) []float32 {
	notes := chimeNotes(kind)
	if len(notes) == 0 {
		return nil
	}

	var total time.Duration
	for _, n := range notes {
		if end := n.at + n.duration + chimeRelease; end > total {
			total = end
		}
	}
	frames := frameCount(total, sampleRate)
	out := make([]float32, frames*Channels)

	for _, n := range notes {
		start := frameCount(n.at, sampleRate)
		length := frameCount(n.duration+chimeRelease, sampleRate)
		osc := newOscillator(n.freq, models.Triangle, sampleRate)
		for i := 0; i < length && start+i < frames; i++ {
			t := time.Duration(float64(i) / float64(sampleRate) * float64(time.Second))
			s := float32(osc.next() * envelope(t, n.duration) * chimeVolume)
			out[(start+i)*Channels] += s
			out[(start+i)*Channels+1] += s
		}
	}
	return out
}

// envelope returns the ADSR gain at t for a note held for hold.
func envelope(t, hold time.Duration) float64 {
	held := func(t time.Duration) float64 {
		switch {
		case t < chimeAttack:
			return float64(t) / float64(chimeAttack)
		case t < chimeAttack+chimeDecay:
			p := float64(t-chimeAttack) / float64(chimeDecay)
			return 1 - p*(1-chimeSustain)
		default:
			return chimeSustain
		}
	}
	if t < hold {
		return held(t)
	}
	p := float64(t-hold) / float64(chimeRelease)
	if p >= 1 {
		return 0
	}
	return held(hold) * (1 - p)
}

// ChimeDuration is how long kind lasts including its release tail.
func ChimeDuration(kind Chime) time.Duration {
	var total time.Duration
	for _, n := range chimeNotes(kind) {
		if end := n.at + n.duration + chimeRelease; end > total {
			total = end
		}
	}
	return total
}

func frameCount(d time.Duration, sampleRate int) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}
