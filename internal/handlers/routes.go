package handlers

import (
	"html/template"
	"net/http"
	"time"

	"brinleneuro/internal/security"
)

// Handlers bundles the page and stream handlers behind one router.
type Handlers struct {
	Auth    *AuthHandler
	Menu    *MenuHandler
	Game    *GameHandler
	Sons    *SonsHandler
	Musicas *MusicasHandler
	Stream  *StreamHandler
}

// NewHandlers creates every handler around one template set.
func NewHandlers(mw *Middleware, templates *template.Template, keepAlive time.Duration) Handlers {
	p := pages{templates: templates, csrf: mw.csrf}
	return Handlers{
		Auth:    NewAuthHandler(mw.authService, p),
		Menu:    NewMenuHandler(p),
		Game:    NewGameHandler(p),
		Sons:    NewSonsHandler(p),
		Musicas: NewMusicasHandler(p),
		Stream:  NewStreamHandler(keepAlive),
	}
}

// NewRouter wires the routes. Everything but the login page and static
// files needs a logged-in device; every POST but login needs a CSRF token.
func NewRouter(mw *Middleware, h Handlers, staticDir string) http.Handler {
	mux := http.NewServeMux()

	auth := mw.RequireAuth
	post := func(next http.HandlerFunc) http.HandlerFunc {
		return mw.RequireAuth(mw.CSRFProtect(next))
	}

	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	mux.HandleFunc("GET /login", h.Auth.ShowLogin)
	mux.HandleFunc("POST /login", mw.RateLimit(h.Auth.Login))
	mux.HandleFunc("POST /logout", mw.CSRFProtect(h.Auth.Logout))

	mux.HandleFunc("GET /{$}", auth(h.Menu.Show))
	mux.HandleFunc("POST /menu/sound", post(h.Menu.ToggleSound))
	mux.HandleFunc("GET /modo/{modo}", auth(h.Menu.ShowModo))
	mux.HandleFunc("POST /modo/{modo}/toggle", post(h.Menu.ToggleModo))
	mux.HandleFunc("POST /modo/{modo}/pause", post(h.Menu.PauseModo))

	mux.HandleFunc("GET /neurojogo", auth(h.Game.Show))
	mux.HandleFunc("POST /neurojogo/{action}", post(h.Game.Action))
	mux.HandleFunc("GET /sons", auth(h.Sons.Show))
	mux.HandleFunc("POST /sons/{action}", post(h.Sons.Action))
	mux.HandleFunc("GET /musicas", auth(h.Musicas.Show))
	mux.HandleFunc("POST /musicas/{action}", post(h.Musicas.Action))

	mux.HandleFunc("GET /events", auth(h.Stream.Events))
	mux.HandleFunc("GET /audio/stream", auth(h.Stream.Audio))
	mux.HandleFunc("GET /audio/chime/{kind}", auth(h.Stream.Chime))
	mux.HandleFunc("POST /speech/voices", post(h.Stream.Voices))
	mux.HandleFunc("POST /speech/{id}/{event}", post(h.Stream.SpeechEvent))

	mux.HandleFunc("/", h.Auth.NotFound)

	return Logging(mw.Device(mux))
}

// NewLoginLimiter is the rate limiter used for login attempts.
func NewLoginLimiter() *security.RateLimiter {
	return security.NewRateLimiter(5, time.Minute)
}
