package handlers

import (
	"brinleneuro/internal/game"
	"brinleneuro/internal/mixer"
	"brinleneuro/internal/models"
	"brinleneuro/internal/modo"
	"brinleneuro/internal/player"
)

// PageData is shared by every authenticated page.
type PageData struct {
	Title     string
	Page      string
	CSRFToken string
	Username  string
	// Shared is set when audio plays on the host speaker instead of the
	// browser.
	Shared bool
}

type LoginViewData struct {
	Title     string
	CSRFToken string
	Error     string
	Username  string
}

type NotFoundViewData struct {
	Title   string
	Message string
}

type MenuViewData struct {
	PageData
	Modes        []models.Mode
	SoundPlaying bool
}

type ModoViewData struct {
	PageData
	Mode  models.Mode
	State modo.State
}

type JogoViewData struct {
	PageData
	Modes []models.Mode
	View  game.View
}

type SonsViewData struct {
	PageData
	Sounds       []models.Sound
	Presets      []models.Preset
	TimerMinutes []int
	State        mixer.State
}

type MusicasViewData struct {
	PageData
	Tracks []player.Track
	State  player.State
}
