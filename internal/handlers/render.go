package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/flags"
	"brinleneuro/internal/models"
	"brinleneuro/internal/security"
	"brinleneuro/internal/session"
)

var funcMap = template.FuncMap{
	"add":     func(a, b int) int { return a + b },
	"percent": func(v float64) int { return int(v*100 + 0.5) },
	"seconds": func(v float64) int { return int(v) },
	"clock": func(seconds int) string {
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	},
	"repeat": strings.Repeat,
	"has": func(list []string, s string) bool {
		return slices.Contains(list, s)
	},
	"playing": func(active []models.ModeID, id models.ModeID) bool {
		return slices.Contains(active, id)
	},
}

// LoadTemplates parses every page template in dir.
func LoadTemplates(dir string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates in %s", dir)
	}
	return template.New("").Funcs(funcMap).ParseFiles(files...)
}

// pages renders templates for the page handlers.
type pages struct {
	templates *template.Template
	csrf      *security.CSRFGenerator
}

func (p pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("rendering template")
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (p pages) base(r *http.Request, s *session.Session, title string, page session.Page) PageData {
	token, err := p.csrf.GenerateToken(s.ID)
	if err != nil {
		log.Error().Err(err).Msg("generating csrf token")
	}
	return PageData{
		Title:     title,
		Page:      string(page),
		CSRFToken: token,
		Username:  flags.Username(r.Context(), s.Flags),
		Shared:    s.Shared(),
	}
}

func (p pages) notFound(w http.ResponseWriter, message string) {
	p.render(w, http.StatusNotFound, "not_found.tmpl", NotFoundViewData{
		Title:   "Não encontrado - BrinLê Neuro",
		Message: message,
	})
}

// wantsJSON reports whether an action was sent by the page script rather
// than a plain form post.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// actionDone answers a finished page action with JSON for scripts and a
// redirect back to the page for plain forms.
func actionDone(w http.ResponseWriter, r *http.Request, back string, v any) {
	if wantsJSON(r) {
		respondJSON(w, http.StatusOK, v)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
