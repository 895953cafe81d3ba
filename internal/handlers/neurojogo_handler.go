package handlers

import (
	"net/http"

	"brinleneuro/internal/catalog"
	"brinleneuro/internal/game"
	"brinleneuro/internal/models"
	"brinleneuro/internal/session"
)

// GameHandler serves the NeuroJogo page
type GameHandler struct {
	pages
}

func NewGameHandler(p pages) *GameHandler {
	return &GameHandler{pages: p}
}

type gameResponse struct {
	game.View
	// Leave tells the page to go back to the menu.
	Leave bool `json:"leave,omitempty"`
}

// Show renders the game screen. With ?fragment=1 only the screen markup is
// returned so the page script can swap it in place.
func (h *GameHandler) Show(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	name := "neurojogo.tmpl"
	if r.URL.Query().Get("fragment") == "1" {
		name = "jogo_screen"
	} else {
		s.Enter(r.Context(), session.PageJogo)
	}

	h.render(w, http.StatusOK, name, JogoViewData{
		PageData: h.base(r, s, "NeuroJogo - BrinLê Neuro", session.PageJogo),
		Modes:    catalog.Modes(),
		View:     s.Game.Snapshot(),
	})
}

// Action runs one game command named by the path
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "parsing game form", err)
		return
	}

	action := r.PathValue("action")
	var (
		err   error
		leave bool
	)
	switch action {
	case "mode":
		err = s.Game.SelectMode(models.ModeID(r.FormValue("mode")))
	case "mission":
		err = s.Game.StartMission(r.FormValue("mission"))
	case "answer":
		err = s.Game.Answer(r.FormValue("word"))
	case "repeat":
		err = s.Game.Repeat()
	case "hint":
		err = s.Game.ShowHint()
	case "sound":
		s.Game.ToggleSound()
	case "back":
		leave, err = s.Game.Back()
	case "replay":
		err = s.Game.Replay()
	case "missions":
		err = s.Game.ToMissionMap()
	case "modes":
		err = s.Game.ToModeSelect()
	default:
		h.notFound(w, MsgPageNotFound)
		return
	}
	if err != nil {
		respondWithActionError(w, "game "+action, err)
		return
	}

	back := "/neurojogo"
	if leave {
		back = "/"
	}
	actionDone(w, r, back, gameResponse{View: s.Game.Snapshot(), Leave: leave})
}
