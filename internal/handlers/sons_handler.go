package handlers

import (
	"net/http"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/models"
	"brinleneuro/internal/session"
	"brinleneuro/internal/validation"
)

// SonsHandler serves the sound mixer page
type SonsHandler struct {
	pages
}

func NewSonsHandler(p pages) *SonsHandler {
	return &SonsHandler{pages: p}
}

func (h *SonsHandler) Show(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	s.Enter(r.Context(), session.PageSons)

	h.render(w, http.StatusOK, "sons.tmpl", SonsViewData{
		PageData:     h.base(r, s, "Sons - BrinLê Neuro", session.PageSons),
		Sounds:       catalog.Sounds(),
		Presets:      catalog.Presets(),
		TimerMinutes: catalog.TimerMinutes,
		State:        s.Mixer.Snapshot(),
	})
}

// Action runs one mixer command named by the path
func (h *SonsHandler) Action(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "parsing mixer form", err)
		return
	}

	action := r.PathValue("action")
	sound := models.ModeID(r.FormValue("sound"))
	var err error
	switch action {
	case "toggle":
		_, err = s.Mixer.Toggle(sound)
	case "volume":
		var v float64
		if v, err = validation.ParseVolume(r.FormValue("volume")); err == nil {
			err = s.Mixer.SetVolume(r.Context(), sound, v)
		}
	case "preset":
		_, err = s.Mixer.LoadPreset(r.FormValue("preset"))
	case "stop":
		s.Mixer.StopAll()
	case "timer":
		var minutes int
		if minutes, err = validation.ParseTimerMinutes(r.FormValue("minutes")); err == nil {
			err = s.Mixer.StartTimer(minutes)
		}
	case "timer-cancel":
		s.Mixer.CancelTimer()
	default:
		h.notFound(w, MsgPageNotFound)
		return
	}
	if err != nil {
		respondWithActionError(w, "mixer "+action, err)
		return
	}
	actionDone(w, r, "/sons", s.Mixer.Snapshot())
}
