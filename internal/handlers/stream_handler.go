package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/events"
	"brinleneuro/internal/speech"
	"brinleneuro/internal/tone"
	"brinleneuro/internal/voice"
)

const defaultKeepAlive = 25 * time.Second

// StreamHandler serves the per-device event stream, audio and the speech
// reports sent back by the browser.
type StreamHandler struct {
	keepAlive time.Duration
}

func NewStreamHandler(keepAlive time.Duration) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &StreamHandler{keepAlive: keepAlive}
}

// Events streams the device's events as Server-Sent Events until the
// client goes away.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "event stream", errors.New("streaming unsupported"))
		return
	}

	clearWriteDeadline(w)
	ch, unsubscribe := s.Hub.Subscribe()
	defer unsubscribe()
	defer s.Touch()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ping := time.NewTicker(h.keepAlive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := events.WriteSSE(w, e); err != nil {
				log.Debug().Err(err).Str("device", s.ID).Msg("event stream closed")
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
			s.Touch()
		}
	}
}

// Audio streams the device's tone engine as an endless WAV. Devices that
// play through the host speaker have nothing to stream.
func (h *StreamHandler) Audio(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	if s.Shared() {
		respondWithError(w, http.StatusConflict, ErrActionNotAllowed, "", nil)
		return
	}

	clearWriteDeadline(w)
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	var flush func()
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	err := tone.StreamWAV(r.Context(), w, flush, s.Engine, s.Engine.SampleRate())
	if err != nil && !errors.Is(err, r.Context().Err()) {
		log.Debug().Err(err).Str("device", s.ID).Msg("audio stream ended")
	}
}

// clearWriteDeadline lifts the server write timeout for long-lived streams.
func clearWriteDeadline(w http.ResponseWriter) {
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Debug().Err(err).Msg("clearing write deadline")
	}
}

// Chime returns a feedback chime as a short WAV file
func (h *StreamHandler) Chime(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	kind, err := tone.ParseChime(r.PathValue("kind"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(tone.RenderChimeWAV(kind, s.Engine.SampleRate()))
}

// SpeechEvent records a start, end or error report for an utterance
func (h *StreamHandler) SpeechEvent(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	event := r.PathValue("event")
	switch event {
	case speech.EventStart, speech.EventEnd, speech.EventError:
	default:
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", nil)
		return
	}
	s.Speech.Observe(r.PathValue("id"), event, r.FormValue("reason"))
	w.WriteHeader(http.StatusNoContent)
}

const maxVoicesBody = 64 << 10

// Voices receives the browser's speech voice list
func (h *StreamHandler) Voices(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	var voices []voice.Voice
	if err := json.NewDecoder(io.LimitReader(r.Body, maxVoicesBody)).Decode(&voices); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "decoding voice list", err)
		return
	}
	s.Selector.Update(voices)
	w.WriteHeader(http.StatusNoContent)
}
