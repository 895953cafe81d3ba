package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"brinleneuro/internal/models"
	"brinleneuro/internal/tone"
)

// Variant is the behavior a round actually runs, derived from its type and
// the selected mode.
type Variant string

const (
	VariantContext  Variant = "context"
	VariantSensory  Variant = "sensory"
	VariantStory    Variant = "story"
	VariantSequence Variant = "sequence"
	VariantSpeed    Variant = "speed"
)

// SequencePhase is the sub-phase of a sequence round.
type SequencePhase string

const (
	SequenceShow SequencePhase = "show"
	SequenceTest SequencePhase = "test"
)

// BreathPhase is the step of the calm-mode breathing exercise.
type BreathPhase string

const (
	BreathNone   BreathPhase = ""
	BreathInhale BreathPhase = "inhale"
	BreathHold   BreathPhase = "hold"
	BreathExhale BreathPhase = "exhale"
)

const (
	optionCount     = 4
	sequenceLength  = 3
	sequenceStagger = 1500 * time.Millisecond
	sequenceRetry   = 1500 * time.Millisecond
	speedSeconds    = 8
)

var breathing = []struct {
	at    time.Duration
	phase BreathPhase
}{
	{3 * time.Second, BreathHold},
	{6 * time.Second, BreathExhale},
	{9 * time.Second, BreathNone},
}

// Phrases narrated as feedback.
const (
	PhraseCorrect       = "Muito bem!"
	PhraseWrong         = "Tente novamente!"
	PhraseSequenceTest  = "Agora mostre a sequência!"
	PhraseSequenceRight = "Perfeito! Sequência correta!"
	PhraseSequenceWrong = "Ops! Tente novamente a sequência!"
	PhraseTimeUp        = "Tempo esgotado!"
)

// Round is one challenge of a mission.
type Round struct {
	Index       int               `json:"index"`
	Type        models.RoundType  `json:"type"`
	Variant     Variant           `json:"variant"`
	Target      models.WordCard   `json:"target"`
	Options     []models.WordCard `json:"options"`
	Prompt      string            `json:"prompt"`
	Answered    bool              `json:"answered"`
	Celebrating bool              `json:"celebrating"`
	Points      int               `json:"points"`
	Shake       string            `json:"shake,omitempty"`
	ShowHint    bool              `json:"showHint"`
	Breath      BreathPhase       `json:"breath,omitempty"`

	Sequence []models.WordCard `json:"sequence,omitempty"`
	Phase    SequencePhase     `json:"phase,omitempty"`
	Selected []string          `json:"selected,omitempty"`

	TimeLeft int  `json:"timeLeft,omitempty"`
	TimedOut bool `json:"timedOut,omitempty"`
}

// VariantFor resolves the behavior of a round type under a mode. Sequence
// rounds only run as memory sequences in foco and speed rounds only count
// down in energia; elsewhere both degrade to context matching.
func VariantFor(mode models.ModeID, t models.RoundType) Variant {
	switch {
	case t == models.RoundSequence && mode == models.ModeFoco:
		return VariantSequence
	case t == models.RoundSpeed && mode == models.ModeEnergia:
		return VariantSpeed
	case t == models.RoundSensory:
		return VariantSensory
	case t == models.RoundStory:
		return VariantStory
	}
	return VariantContext
}

func newRound(rng *rand.Rand, mode models.ModeID, mission *models.Mission, index int) *Round {
	t := mission.RoundTypes[index%len(mission.RoundTypes)]
	target := mission.Words[index%len(mission.Words)]
	r := &Round{
		Index:   index,
		Type:    t,
		Variant: VariantFor(mode, t),
		Target:  target,
	}

	others := distinctOthers(mission.Words, target)
	rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	if r.Variant == VariantSequence {
		n := min(sequenceLength-1, len(others))
		r.Sequence = append([]models.WordCard{target}, others[:n]...)
		rng.Shuffle(len(r.Sequence), func(i, j int) { r.Sequence[i], r.Sequence[j] = r.Sequence[j], r.Sequence[i] })
		r.Options = append([]models.WordCard(nil), r.Sequence...)
		if len(others) > n {
			r.Options = append(r.Options, others[n])
		}
	} else {
		n := min(optionCount-1, len(others))
		r.Options = append([]models.WordCard{target}, others[:n]...)
	}
	rng.Shuffle(len(r.Options), func(i, j int) { r.Options[i], r.Options[j] = r.Options[j], r.Options[i] })

	r.Prompt = r.displayPrompt()
	return r
}

// distinctOthers lists words other than target, without repeated values.
func distinctOthers(words []models.WordCard, target models.WordCard) []models.WordCard {
	seen := map[string]bool{target.Word: true}
	var out []models.WordCard
	for _, w := range words {
		if !seen[w.Word] {
			seen[w.Word] = true
			out = append(out, w)
		}
	}
	return out
}

func (r *Round) displayPrompt() string {
	switch r.Variant {
	case VariantSensory:
		if r.Target.SensoryPrompt != "" {
			return r.Target.SensoryPrompt
		}
	case VariantStory:
		if r.Target.Sentence != "" {
			return r.Target.Sentence
		}
	case VariantSequence:
		return ""
	}
	return r.Target.Word
}

func (r *Round) spokenPrompt() string {
	if r.Variant == VariantSensory && r.Target.SensoryPrompt != "" {
		return r.Target.SensoryPrompt
	}
	return r.Target.Word
}

func (r *Round) option(word string) (models.WordCard, bool) {
	for _, o := range r.Options {
		if o.Word == word {
			return o, true
		}
	}
	return models.WordCard{}, false
}

func (r *Round) clone() *Round {
	c := *r
	c.Options = append([]models.WordCard(nil), r.Options...)
	c.Sequence = append([]models.WordCard(nil), r.Sequence...)
	c.Selected = append([]string(nil), r.Selected...)
	return &c
}

type strategy interface {
	start(m *Machine, r *Round)
	answer(m *Machine, r *Round, card models.WordCard)
}

var strategies = map[Variant]strategy{
	VariantContext:  matchStrategy{},
	VariantSensory:  matchStrategy{},
	VariantStory:    matchStrategy{},
	VariantSequence: sequenceStrategy{},
	VariantSpeed:    speedStrategy{},
}

func strategyFor(v Variant) strategy {
	if s, ok := strategies[v]; ok {
		return s
	}
	return matchStrategy{}
}

// matchStrategy is the pick-the-matching-card round shared by context,
// sensory and story rounds.
type matchStrategy struct{}

func (matchStrategy) start(m *Machine, r *Round) {
	prompt := r.spokenPrompt()
	m.after("prompt", promptDelay, func() { m.speak(prompt) })
}

func (matchStrategy) answer(m *Machine, r *Round, card models.WordCard) {
	if card.Word != r.Target.Word {
		m.missLocked(card)
		return
	}
	points := basePoints
	if m.mode == models.ModeCriativo {
		points += min(m.combo*comboStep, maxComboBonus)
		m.combo++
	}
	m.completeRoundLocked(points, PhraseCorrect)
}

// missLocked handles a wrong pick: the round stays open.
func (m *Machine) missLocked(card models.WordCard) {
	if m.mode == models.ModeCriativo {
		m.combo = 0
	}
	m.round.Shake = card.Word
	m.chime(tone.ChimeWrong)
	m.speak(PhraseWrong)
	m.after("shake", shakeDuration, func() { m.round.Shake = "" })
}

type speedStrategy struct{}

func (speedStrategy) start(m *Machine, r *Round) {
	r.TimeLeft = speedSeconds
	word := r.Target.Word
	m.after("prompt", promptDelay, func() { m.speak(word) })
	m.tickLocked()
}

func (m *Machine) tickLocked() {
	m.after("speed-tick", time.Second, func() {
		r := m.round
		if r.Answered || r.TimeLeft <= 0 {
			return
		}
		r.TimeLeft--
		if r.TimeLeft > 0 {
			m.tickLocked()
			return
		}
		r.Answered = true
		r.TimedOut = true
		m.chime(tone.ChimeWrong)
		m.speak(PhraseTimeUp)
		m.after("advance", celebration, m.advanceLocked)
	})
}

func (speedStrategy) answer(m *Machine, r *Round, card models.WordCard) {
	if card.Word != r.Target.Word {
		m.missLocked(card)
		return
	}
	points := basePoints + r.TimeLeft*speedBonusRate
	m.completeRoundLocked(points, PhraseCorrect)
}

type sequenceStrategy struct{}

func (sequenceStrategy) start(m *Machine, r *Round) {
	m.showSequenceLocked()
}

// showSequenceLocked narrates the sequence one item at a time and then
// opens the test phase.
func (m *Machine) showSequenceLocked() {
	r := m.round
	r.Phase = SequenceShow
	r.Selected = nil
	for i, w := range r.Sequence {
		word := w.Word
		m.after(fmt.Sprintf("sequence-%d", i), time.Duration(i+1)*sequenceStagger, func() { m.speak(word) })
	}
	testAt := time.Duration(len(r.Sequence))*sequenceStagger + time.Second
	m.after("sequence-test", testAt, func() {
		m.round.Phase = SequenceTest
		m.speak(PhraseSequenceTest)
	})
}

func (sequenceStrategy) answer(m *Machine, r *Round, card models.WordCard) {
	if r.Phase != SequenceTest {
		return
	}
	r.Selected = append(r.Selected, card.Word)
	if len(r.Selected) < len(r.Sequence) {
		return
	}

	match := true
	for i, w := range r.Sequence {
		if r.Selected[i] != w.Word {
			match = false
			break
		}
	}
	if match {
		points := basePoints + m.streak*streakStep
		m.streak++
		m.completeRoundLocked(points, PhraseSequenceRight)
		return
	}

	m.streak = 0
	r.Selected = nil
	r.Phase = SequenceShow
	m.chime(tone.ChimeWrong)
	m.speak(PhraseSequenceWrong)
	m.after("sequence-retry", sequenceRetry, m.showSequenceLocked)
}
