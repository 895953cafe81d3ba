// Package game implements NeuroJogo, the mission-based word game.
//
// A Machine walks mode-select → mission-map → playing → result. Every timer
// it schedules is named and tied to a generation that is bumped whenever the
// round or state changes, so callbacks from an abandoned round never act.
package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/clock"
	"brinleneuro/internal/events"
	"brinleneuro/internal/models"
	"brinleneuro/internal/tone"
)

// State is a screen of the game.
type State string

const (
	StateModeSelect State = "mode-select"
	StateMissionMap State = "mission-map"
	StatePlaying    State = "playing"
	StateResult     State = "result"
)

// HumToneID is the engine id of the background hum played during rounds.
const HumToneID = "neurojogo:hum"

const (
	basePoints     = 10
	celebration    = 2 * time.Second
	promptDelay    = 500 * time.Millisecond
	shakeDuration  = 500 * time.Millisecond
	pointsPerStar  = 20
	maxComboBonus  = 10
	comboStep      = 2
	streakStep     = 3
	speedBonusRate = 2
)

var (
	ErrInvalidState   = errors.New("action not allowed now")
	ErrUnknownMode    = errors.New("unknown mode")
	ErrUnknownMission = errors.New("unknown mission")
	ErrUnknownOption  = errors.New("not one of the round's options")
	ErrClosed         = errors.New("game closed")
)

// Speaker is the narration surface the game drives.
type Speaker interface {
	Speak(text string) string
	Cancel()
}

// Deps are the per-device services a Machine uses.
type Deps struct {
	Clock   clock.Clock
	Events  events.Publisher
	Engine  *tone.Engine
	Speaker Speaker
	// ToneScope namespaces tone ids on an engine shared between devices.
	ToneScope string
	// Rand drives option shuffles and sequences; nil means a random seed.
	Rand *rand.Rand
}

// View is a point-in-time copy of the game for rendering.
type View struct {
	State        State            `json:"state"`
	Mode         models.ModeID    `json:"mode,omitempty"`
	Missions     []models.Mission `json:"-"`
	Mission      *models.Mission  `json:"mission,omitempty"`
	Round        *Round           `json:"round,omitempty"`
	Rounds       int              `json:"rounds"`
	Score        int              `json:"score"`
	Combo        int              `json:"combo"`
	Streak       int              `json:"streak"`
	Stars        int              `json:"stars"`
	SoundEnabled bool             `json:"soundEnabled"`
}

// Machine is the NeuroJogo state machine of one device. It is safe for
// concurrent use.
type Machine struct {
	clk     clock.Clock
	pub     events.Publisher
	engine  *tone.Engine
	humID   string
	speaker Speaker

	mu      sync.Mutex
	rng     *rand.Rand
	state   State
	mode    models.ModeID
	mission *models.Mission
	round   *Round
	score   int
	combo   int
	streak  int
	stars   int
	sound   bool
	hum     *tone.Voice
	closed  bool
	gen     uint64
	timers  map[string]clock.Timer
	effects []func()
}

func New(deps Deps) *Machine {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Machine{
		clk:     clk,
		pub:     deps.Events,
		engine:  deps.Engine,
		humID:   tone.ScopedID(deps.ToneScope, HumToneID),
		speaker: deps.Speaker,
		rng:     rng,
		state:   StateModeSelect,
		sound:   true,
		timers:  make(map[string]clock.Timer),
	}
}

// lock and unlock bracket every operation; unlock publishes the new view
// and then runs deferred side effects outside the mutex.
func (m *Machine) lock() { m.mu.Lock() }

func (m *Machine) unlock(publish bool) {
	var view View
	if publish {
		view = m.viewLocked()
	}
	effects := m.effects
	m.effects = nil
	m.mu.Unlock()

	if publish && m.pub != nil {
		m.pub.Publish(events.Event{Type: events.TypeGame, Data: view})
	}
	for _, f := range effects {
		f()
	}
}

func (m *Machine) speak(text string) {
	if text == "" || m.speaker == nil {
		return
	}
	m.effects = append(m.effects, func() { m.speaker.Speak(text) })
}

func (m *Machine) cancelSpeech() {
	if m.speaker == nil {
		return
	}
	m.effects = append(m.effects, m.speaker.Cancel)
}

func (m *Machine) chime(kind tone.Chime) {
	if !m.sound {
		return
	}
	if m.engine != nil {
		m.engine.PlayChime(kind)
	}
	if m.pub != nil {
		m.effects = append(m.effects, func() {
			m.pub.Publish(events.Event{Type: events.TypeChime, Data: map[string]string{"kind": string(kind)}})
		})
	}
}

// after schedules f under the machine lock once d elapses, replacing any
// timer of the same name. f is skipped if the round or state has moved on.
func (m *Machine) after(name string, d time.Duration, f func()) {
	if t, ok := m.timers[name]; ok {
		t.Stop()
	}
	gen := m.gen
	var t clock.Timer
	t = m.clk.AfterFunc(d, func() {
		m.lock()
		if m.closed || m.gen != gen {
			m.unlock(false)
			return
		}
		if m.timers[name] == t {
			delete(m.timers, name)
		}
		f()
		m.unlock(true)
	})
	m.timers[name] = t
}

func (m *Machine) cancelTimersLocked() {
	m.gen++
	for name, t := range m.timers {
		t.Stop()
		delete(m.timers, name)
	}
}

func (m *Machine) startHumLocked() {
	if m.engine == nil || !m.sound || m.state != StatePlaying || m.engine.Has(m.humID) {
		return
	}
	v, err := m.engine.StartTone(m.humID, tone.HumSpec(), 1)
	if err != nil {
		log.Warn().Err(err).Msg("starting game hum")
		return
	}
	m.hum = v
}

func (m *Machine) stopHumLocked() {
	if m.engine == nil {
		return
	}
	m.engine.StopTone(m.hum)
	m.hum = nil
}

// leavePlayingLocked tears down everything a round owns.
func (m *Machine) leavePlayingLocked() {
	m.cancelTimersLocked()
	m.stopHumLocked()
	m.cancelSpeech()
	m.round = nil
}

// SelectMode picks a mode and shows its missions.
func (m *Machine) SelectMode(id models.ModeID) error {
	if _, ok := catalog.Mode(id); !ok {
		return ErrUnknownMode
	}
	m.lock()
	if err := m.expectLocked(StateModeSelect); err != nil {
		m.unlock(false)
		return err
	}
	m.mode = id
	m.state = StateMissionMap
	m.unlock(true)
	log.Debug().Str("mode", string(id)).Msg("game mode selected")
	return nil
}

// StartMission resets the counters and plays the first round of a mission
// belonging to the selected mode.
func (m *Machine) StartMission(id string) error {
	mission, ok := catalog.Mission(id)
	if !ok {
		return ErrUnknownMission
	}
	m.lock()
	if err := m.expectLocked(StateMissionMap); err != nil {
		m.unlock(false)
		return err
	}
	if mission.Mode != m.mode {
		m.unlock(false)
		return ErrUnknownMission
	}
	m.mission = &mission
	m.playLocked()
	m.unlock(true)
	log.Info().Str("mission", id).Msg("mission started")
	return nil
}

func (m *Machine) playLocked() {
	m.score, m.combo, m.streak, m.stars = 0, 0, 0, 0
	m.state = StatePlaying
	m.startHumLocked()
	m.startRoundLocked(0)
}

// Replay restarts the finished mission.
func (m *Machine) Replay() error {
	m.lock()
	if err := m.expectLocked(StateResult); err != nil {
		m.unlock(false)
		return err
	}
	m.playLocked()
	m.unlock(true)
	return nil
}

// ToMissionMap leaves the result screen for the mode's missions.
func (m *Machine) ToMissionMap() error {
	m.lock()
	if err := m.expectLocked(StateResult); err != nil {
		m.unlock(false)
		return err
	}
	m.state = StateMissionMap
	m.unlock(true)
	return nil
}

// ToModeSelect leaves the result screen for mode selection.
func (m *Machine) ToModeSelect() error {
	m.lock()
	if err := m.expectLocked(StateResult); err != nil {
		m.unlock(false)
		return err
	}
	m.state = StateModeSelect
	m.unlock(true)
	return nil
}

// Back steps one screen back: playing → mission map → mode select. From
// mode select or the result screen it reports that the game should be left.
func (m *Machine) Back() (leave bool, err error) {
	m.lock()
	if m.closed {
		m.unlock(false)
		return false, ErrClosed
	}
	switch m.state {
	case StatePlaying:
		m.leavePlayingLocked()
		m.state = StateMissionMap
	case StateMissionMap:
		m.cancelSpeech()
		m.state = StateModeSelect
	default:
		m.cancelSpeech()
		leave = true
	}
	m.unlock(!leave)
	return leave, nil
}

// ToggleSound flips feedback sounds and the background hum.
func (m *Machine) ToggleSound() bool {
	m.lock()
	m.sound = !m.sound
	if m.sound {
		m.startHumLocked()
	} else {
		m.stopHumLocked()
	}
	on := m.sound
	m.unlock(true)
	return on
}

// Repeat narrates the round prompt again.
func (m *Machine) Repeat() error {
	m.lock()
	if err := m.expectLocked(StatePlaying); err != nil {
		m.unlock(false)
		return err
	}
	m.speak(m.round.spokenPrompt())
	m.unlock(false)
	return nil
}

// ShowHint reveals and narrates the target word's hint.
func (m *Machine) ShowHint() error {
	m.lock()
	if err := m.expectLocked(StatePlaying); err != nil {
		m.unlock(false)
		return err
	}
	m.round.ShowHint = true
	m.speak(m.round.Target.Hint)
	m.unlock(true)
	return nil
}

// Answer submits the option whose word is word.
func (m *Machine) Answer(word string) error {
	m.lock()
	if err := m.expectLocked(StatePlaying); err != nil {
		m.unlock(false)
		return err
	}
	r := m.round
	card, ok := r.option(word)
	if !ok {
		m.unlock(false)
		return ErrUnknownOption
	}
	if r.Answered {
		m.unlock(false)
		return nil
	}
	strategyFor(r.Variant).answer(m, r, card)
	m.unlock(true)
	return nil
}

// Close stops every timer, tone and utterance the machine owns.
func (m *Machine) Close() {
	m.lock()
	if m.closed {
		m.unlock(false)
		return
	}
	m.leavePlayingLocked()
	m.closed = true
	m.unlock(false)
}

// Reset abandons whatever is on screen and returns to mode selection, as
// when the device leaves the game page.
func (m *Machine) Reset() {
	m.lock()
	if m.closed {
		m.unlock(false)
		return
	}
	wasIdle := m.state == StateModeSelect && m.mode == ""
	m.leavePlayingLocked()
	m.state = StateModeSelect
	m.mode = ""
	m.mission = nil
	m.score, m.combo, m.streak, m.stars = 0, 0, 0, 0
	m.unlock(!wasIdle)
}

// Snapshot returns a copy of the current view.
func (m *Machine) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Machine) expectLocked(s State) error {
	if m.closed {
		return ErrClosed
	}
	if m.state != s {
		return ErrInvalidState
	}
	return nil
}

func (m *Machine) viewLocked() View {
	v := View{
		State:        m.state,
		Mode:         m.mode,
		Rounds:       catalog.RoundsPerMission,
		Score:        m.score,
		Combo:        m.combo,
		Streak:       m.streak,
		Stars:        m.stars,
		SoundEnabled: m.sound,
	}
	if m.mode != "" {
		v.Missions = catalog.Missions(m.mode)
	}
	if m.mission != nil {
		mission := *m.mission
		v.Mission = &mission
	}
	if m.round != nil {
		v.Round = m.round.clone()
	}
	return v
}

// completeRoundLocked awards points and schedules the move to the next
// round, or to the result screen after the last one.
func (m *Machine) completeRoundLocked(points int, praise string) {
	r := m.round
	r.Answered = true
	r.Celebrating = true
	r.Points = points
	m.score += points
	m.chime(tone.ChimeCorrect)
	m.speak(praise)
	m.after("advance", celebration, m.advanceLocked)
}

func (m *Machine) advanceLocked() {
	next := m.round.Index + 1
	if next < catalog.RoundsPerMission {
		m.startRoundLocked(next)
		return
	}
	m.leavePlayingLocked()
	m.stars = Stars(m.score, m.mission.Reward.Stars)
	m.state = StateResult
	log.Info().Str("mission", m.mission.ID).Int("score", m.score).Int("stars", m.stars).Msg("mission finished")
}

// Stars converts a score to a star rating capped at max.
func Stars(score, max int) int {
	s := score / pointsPerStar
	if s > max {
		return max
	}
	if s < 0 {
		return 0
	}
	return s
}

func (m *Machine) startRoundLocked(index int) {
	m.cancelTimersLocked()
	r := newRound(m.rng, m.mode, m.mission, index)
	m.round = r

	if m.mode == models.ModeCalma {
		m.breatheLocked()
	}
	strategyFor(r.Variant).start(m, r)
}

func (m *Machine) breatheLocked() {
	m.round.Breath = BreathInhale
	for _, step := range breathing {
		phase := step.phase
		m.after("breath-"+step.at.String(), step.at, func() { m.round.Breath = phase })
	}
}
