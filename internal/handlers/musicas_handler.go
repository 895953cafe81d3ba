package handlers

import (
	"net/http"

	"brinleneuro/internal/session"
	"brinleneuro/internal/validation"
)

// MusicasHandler serves the music player page
type MusicasHandler struct {
	pages
}

func NewMusicasHandler(p pages) *MusicasHandler {
	return &MusicasHandler{pages: p}
}

func (h *MusicasHandler) Show(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	s.Enter(r.Context(), session.PageMusicas)

	h.render(w, http.StatusOK, "musicas.tmpl", MusicasViewData{
		PageData: h.base(r, s, "Músicas - BrinLê Neuro", session.PageMusicas),
		Tracks:   s.Player.Tracks(),
		State:    s.Player.Snapshot(),
	})
}

// Action runs one player command named by the path
func (h *MusicasHandler) Action(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "parsing player form", err)
		return
	}

	action := r.PathValue("action")
	var err error
	switch action {
	case "play":
		_, err = s.Player.PlayStop(r.FormValue("track"))
	case "ended":
		s.Player.Ended(r.FormValue("track"))
	case "autoplay":
		var on bool
		if on, err = validation.ParseBool(r.FormValue("on")); err == nil {
			s.Player.SetAutoPlay(on)
		}
	default:
		h.notFound(w, MsgPageNotFound)
		return
	}
	if err != nil {
		respondWithActionError(w, "player "+action, err)
		return
	}
	actionDone(w, r, "/musicas", s.Player.Snapshot())
}
