package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/game"
	"brinleneuro/internal/mixer"
	"brinleneuro/internal/player"
	"brinleneuro/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		ev := log.Warn()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Err(err).Int("status", status).Msg(logMsg)
	}

	http.Error(w, userMsg, status)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

// respondWithActionError maps a failed page action to a status and a
// message safe to show.
func respondWithActionError(w http.ResponseWriter, action string, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, action, err)
	case errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrClosed):
		respondWithError(w, http.StatusConflict, ErrActionNotAllowed, action, err)
	case errors.Is(err, game.ErrUnknownMode), errors.Is(err, game.ErrUnknownMission),
		errors.Is(err, game.ErrUnknownOption), errors.Is(err, mixer.ErrUnknownSound),
		errors.Is(err, mixer.ErrUnknownPreset), errors.Is(err, mixer.ErrTimerMinutes),
		errors.Is(err, player.ErrUnknownTrack):
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, action, err)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, action, err)
	}
}
