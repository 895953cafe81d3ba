package handlers

import (
	"net/http"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/models"
	"brinleneuro/internal/session"
)

// MenuHandler serves the home screen and the mode pages
type MenuHandler struct {
	pages
}

func NewMenuHandler(p pages) *MenuHandler {
	return &MenuHandler{pages: p}
}

// Show renders the menu and resumes its sea ambience when it was left on
func (h *MenuHandler) Show(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	s.Enter(r.Context(), session.PageMenu)

	h.render(w, http.StatusOK, "menu.tmpl", MenuViewData{
		PageData:     h.base(r, s, "BrinLê Neuro", session.PageMenu),
		Modes:        catalog.Modes(),
		SoundPlaying: s.Menu.Playing(),
	})
}

// ToggleSound starts or stops the menu sea ambience
func (h *MenuHandler) ToggleSound(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	playing, err := s.Menu.Toggle(r.Context())
	if err != nil {
		respondWithActionError(w, "toggling menu sound", err)
		return
	}
	actionDone(w, r, "/", map[string]bool{"playing": playing})
}

// ShowModo renders a mode page. The mode starts paused.
func (h *MenuHandler) ShowModo(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	id := models.ModeID(r.PathValue("modo"))
	mode, ok := catalog.Mode(id)
	if !ok {
		h.notFound(w, MsgModeNotFound)
		return
	}
	s.Enter(r.Context(), session.PageModo)
	m, _ := s.Modo(id)

	h.render(w, http.StatusOK, "modo.tmpl", ModoViewData{
		PageData: h.base(r, s, mode.Title+" - BrinLê Neuro", session.PageModo),
		Mode:     mode,
		State:    m.Snapshot(),
	})
}

// ToggleModo plays or pauses a mode's words, tips and tone
func (h *MenuHandler) ToggleModo(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	id := r.PathValue("modo")
	m, ok := s.Modo(models.ModeID(id))
	if !ok {
		h.notFound(w, MsgModeNotFound)
		return
	}
	m.Toggle()
	actionDone(w, r, "/modo/"+id, m.Snapshot())
}

// PauseModo stops a mode when its page is hidden
func (h *MenuHandler) PauseModo(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	m, ok := s.Modo(models.ModeID(r.PathValue("modo")))
	if !ok {
		h.notFound(w, MsgModeNotFound)
		return
	}
	m.Pause()
	w.WriteHeader(http.StatusNoContent)
}
