package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/security"
	"brinleneuro/internal/service"
	"brinleneuro/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	registry    *session.Registry
	devices     *security.DeviceTokens
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, registry *session.Registry, devices *security.DeviceTokens, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		registry:    registry,
		devices:     devices,
		csrf:        csrf,
		limiter:     limiter,
	}
}

// Device resolves the device cookie, issuing a fresh one when it is missing
// or invalid, and puts the device's session in the request context.
func (m *Middleware) Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		var deviceID string
		if cookie, err := r.Cookie(security.DeviceCookieName); err == nil {
			id, err := m.devices.Parse(cookie.Value)
			if err != nil {
				log.Debug().Err(err).Msg("discarding device cookie")
			}
			deviceID = id
		}
		if deviceID == "" {
			id, token, err := m.devices.Issue()
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "issuing device token", err)
				return
			}
			deviceID = id
			http.SetCookie(w, security.CreateSessionCookie(r, security.DeviceCookieName, token, m.devices.Expiry()))
		}

		s := m.registry.Get(r.Context(), deviceID, r.UserAgent())
		ctx := context.WithValue(r.Context(), SessionContextKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is middleware that requires the device to be logged in
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		if s == nil || !m.authService.IsAuthenticated(r.Context(), s.Flags) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// CSRFProtect rejects state-changing requests without a valid token for
// the device.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		token := r.Header.Get(CSRFHeader)
		if token == "" {
			token = r.FormValue(CSRFFormField)
		}
		if s == nil || !m.csrf.ValidateToken(s.ID, token) {
			respondWithError(w, http.StatusForbidden, ErrForbidden, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event and audio streams working behind the logger.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// SessionFromContext retrieves the device session from the request context
func SessionFromContext(ctx context.Context) *session.Session {
	s, ok := ctx.Value(SessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return s
}
