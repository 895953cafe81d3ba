package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/service"
	"brinleneuro/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	pages
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, p pages) *AuthHandler {
	return &AuthHandler{pages: p, authService: authService}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	if s != nil && h.authService.IsAuthenticated(r.Context(), s.Flags) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", "")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, username, message string) {
	data := LoginViewData{
		Title:    "Entrar - BrinLê Neuro",
		Error:    message,
		Username: username,
	}
	if s := SessionFromContext(r.Context()); s != nil {
		data.CSRFToken, _ = h.csrf.GenerateToken(s.ID)
	}
	h.render(w, http.StatusOK, "login.tmpl", data)
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "parsing login form", err)
		return
	}
	s := SessionFromContext(r.Context())
	if s == nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "login without device", errors.New("no session"))
		return
	}

	username := r.FormValue("username")
	passphrase := r.FormValue("passphrase")
	if err := validation.ValidateCredentials(username, passphrase); err != nil {
		h.renderLogin(w, r, username, MsgInvalidLogin)
		return
	}

	err := h.authService.Login(r.Context(), s.Flags, username, passphrase)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Info().Str("device", s.ID).Msg("login rejected")
		h.renderLogin(w, r, username, MsgInvalidLogin)
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "storing login", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the login flags and silences everything the device plays
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := SessionFromContext(r.Context())
	if s != nil {
		s.Enter(r.Context(), "")
		if err := h.authService.Logout(r.Context(), s.Flags); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "clearing login", err)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// NotFound renders the fallback page
func (h *AuthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, MsgPageNotFound)
}
