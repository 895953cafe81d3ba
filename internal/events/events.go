// Package events fans server-side state changes out to the browser tabs of a
// device as Server-Sent Events.
package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Event types published to the browser.
const (
	TypeWord         = "word"
	TypeWordClear    = "word-clear"
	TypeTip          = "tip"
	TypeTipClear     = "tip-clear"
	TypeSpeak        = "speak"
	TypeSpeechCancel = "speech-cancel"
	TypeChime        = "chime"
	TypeGame         = "game"
	TypeMixer        = "mixer"
	TypePlayer       = "player"
	TypeMenuSound    = "menu-sound"
	TypeModo         = "modo"
)

// Event is one message to the browser. Data is encoded as JSON.
type Event struct {
	Type string
	Data any
}

// Publisher accepts events.
type Publisher interface {
	Publish(e Event)
}

const subscriberBuffer = 64

// Hub broadcasts events to every current subscriber. Slow subscribers lose
// events rather than blocking publishers.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers reports how many listeners are attached.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close drops every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// WriteSSE writes e in text/event-stream framing.
func WriteSSE(w io.Writer, e Event) error {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Type, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, payload)
	return err
}

// Recorder is a Publisher that keeps every event, for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of type typ were published.
func (r *Recorder) Count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Last returns the most recent event of type typ.
func (r *Recorder) Last(typ string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == typ {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
