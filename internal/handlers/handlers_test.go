package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brinleneuro/internal/clock"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/security"
	"brinleneuro/internal/service"
	"brinleneuro/internal/session"
)

const (
	testUser       = "meuappbrinle"
	testPassphrase = "brinleaprende128"
)

type testApp struct {
	router   http.Handler
	registry *session.Registry
	devices  *security.DeviceTokens
	csrf     *security.CSRFGenerator
	clk      *clock.Fake
}

func newTestApp(t *testing.T, configure ...func(*session.Options)) *testApp {
	t.Helper()
	captureLog(t)

	clk := clock.NewFake()
	opts := session.Options{Clock: clk, SampleRate: 8000, StaticDir: t.TempDir()}
	for _, f := range configure {
		f(&opts)
	}
	registry := session.NewRegistry(opts)
	t.Cleanup(registry.Close)

	auth, err := service.NewAuthService(testUser, testPassphrase)
	if err != nil {
		t.Fatal(err)
	}
	limiter := security.NewRateLimiter(3, time.Minute)
	t.Cleanup(limiter.Close)

	devices := security.NewDeviceTokens("test-secret", time.Hour)
	csrf := security.NewCSRFGenerator("test-secret")
	mw := NewMiddleware(auth, registry, devices, csrf, limiter)

	templates, err := LoadTemplates(filepath.Join("..", "templates"))
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	h := NewHandlers(mw, templates, 20*time.Millisecond)

	return &testApp{
		router:   NewRouter(mw, h, t.TempDir()),
		registry: registry,
		devices:  devices,
		csrf:     csrf,
		clk:      clk,
	}
}

// device registers a device and returns its session and cookie.
func (a *testApp) device(t *testing.T, loggedIn bool) (*session.Session, *http.Cookie) {
	t.Helper()
	id, token, err := a.devices.Issue()
	if err != nil {
		t.Fatal(err)
	}
	s := a.registry.Get(context.Background(), id, "")
	if loggedIn {
		if err := flags.SetAuthenticated(context.Background(), s.Flags, testUser); err != nil {
			t.Fatal(err)
		}
	}
	return s, &http.Cookie{Name: security.DeviceCookieName, Value: token}
}

func (a *testApp) token(t *testing.T, s *session.Session) string {
	t.Helper()
	tok, err := a.csrf.GenerateToken(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (a *testApp) get(cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) post(cookie *http.Cookie, path string, form url.Values, asJSON bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// action posts a page action with a valid token and decodes the JSON reply.
func (a *testApp) action(t *testing.T, s *session.Session, cookie *http.Cookie, path string, form url.Values, out any) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(CSRFFormField, a.token(t, s))
	rec := a.post(cookie, path, form, true)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s: decoding %q: %v", path, rec.Body.String(), err)
		}
	}
	return rec
}

func TestDeviceCookieIssued(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(nil, "/login")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /login = %d", rec.Code)
	}
	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == security.DeviceCookieName {
			issued = c
		}
	}
	if issued == nil || !issued.HttpOnly {
		t.Fatalf("device cookie not issued: %v", rec.Result().Cookies())
	}
	id, err := app.devices.Parse(issued.Value)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := app.registry.Lookup(id); !ok {
		t.Error("no session for the issued device")
	}

	// a known device keeps its session
	rec = app.get(issued, "/login")
	if len(rec.Result().Cookies()) != 0 || app.registry.Len() != 1 {
		t.Errorf("known device got a new cookie or session (%d sessions)", app.registry.Len())
	}

	// static files skip the device layer
	rec = app.get(nil, "/static/css/none.css")
	if len(rec.Result().Cookies()) != 0 {
		t.Error("static request issued a device cookie")
	}
}

func TestRequireAuthRedirects(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.device(t, false)

	for _, path := range []string{"/", "/modo/calma", "/neurojogo", "/sons", "/musicas", "/events", "/audio/stream", "/audio/chime/correct"} {
		t.Run(path, func(t *testing.T) {
			rec := app.get(cookie, path)
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
				t.Errorf("GET %s = %d %q", path, rec.Code, rec.Header().Get("Location"))
			}
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	s, cookie := app.device(t, false)
	ctx := context.Background()

	rec := app.post(cookie, "/login", url.Values{"username": {testUser}, "passphrase": {"errada"}}, false)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), MsgInvalidLogin) {
		t.Fatalf("bad login = %d %s", rec.Code, rec.Body.String())
	}
	if flags.Authenticated(ctx, s.Flags) {
		t.Fatal("bad login authenticated the device")
	}

	rec = app.post(cookie, "/login", url.Values{"username": {"  " + testUser + " "}, "passphrase": {testPassphrase}}, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("login = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if !flags.Authenticated(ctx, s.Flags) || flags.Username(ctx, s.Flags) != testUser {
		t.Fatal("login flags not stored")
	}

	rec = app.get(cookie, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Criativo") {
		t.Errorf("menu after login = %d", rec.Code)
	}
	if rec := app.get(cookie, "/login"); rec.Code != http.StatusSeeOther {
		t.Errorf("login page for a logged in device = %d", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.device(t, false)

	form := url.Values{"username": {testUser}, "passphrase": {"errada"}}
	for i := 0; i < 3; i++ {
		if rec := app.post(cookie, "/login", form, false); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d = %d", i+1, rec.Code)
		}
	}
	if rec := app.post(cookie, "/login", form, false); rec.Code != http.StatusTooManyRequests {
		t.Errorf("attempt 4 = %d, want 429", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	s, cookie := app.device(t, true)
	app.get(cookie, "/sons")
	app.action(t, s, cookie, "/sons/toggle", url.Values{"sound": {"foco"}}, nil)

	rec := app.post(cookie, "/logout", url.Values{CSRFFormField: {app.token(t, s)}}, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if flags.Authenticated(context.Background(), s.Flags) {
		t.Error("logout kept the auth flag")
	}
	if len(s.Mixer.Snapshot().Active) != 0 {
		t.Error("logout left mixer sounds playing")
	}
}

func TestCSRFRequired(t *testing.T) {
	app := newTestApp(t)
	s, cookie := app.device(t, true)

	rec := app.post(cookie, "/menu/sound", url.Values{}, true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("no token = %d, want 403", rec.Code)
	}
	rec = app.post(cookie, "/menu/sound", url.Values{CSRFFormField: {"forged"}}, true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("forged token = %d, want 403", rec.Code)
	}

	var got struct{ Playing bool }
	rec = app.action(t, s, cookie, "/menu/sound", nil, &got)
	if rec.Code != http.StatusOK || !got.Playing || !s.Menu.Playing() {
		t.Errorf("toggle = %d %+v", rec.Code, got)
	}
}

func TestPlainFormRedirectsBack(t *testing.T) {
	app := newTestApp(t)
	s, cookie := app.device(t, true)

	form := url.Values{"mode": {"foco"}, CSRFFormField: {app.token(t, s)}}
	rec := app.post(cookie, "/neurojogo/mode", form, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/neurojogo" {
		t.Errorf("form post = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.device(t, true)

	rec := app.get(cookie, "/nada")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), MsgPageNotFound) {
		t.Errorf("GET /nada = %d", rec.Code)
	}
}
