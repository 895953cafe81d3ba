package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDeviceTokens(t *testing.T) {
	tokens := NewDeviceTokens("segredo", time.Hour)

	id, token, err := tokens.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	got, err := tokens.Parse(token)
	if err != nil || got != id {
		t.Fatalf("Parse() = %q, %v; want %q", got, err, id)
	}

	tests := []struct {
		name  string
		token string
		parse *DeviceTokens
	}{
		{"wrong secret", token, NewDeviceTokens("outro", time.Hour)},
		{"garbage", "not-a-token", tokens},
		{"tampered", token[:len(token)-2] + "xx", tokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parse.Parse(tt.token); err != ErrInvalidDevice {
				t.Errorf("Parse() error = %v, want ErrInvalidDevice", err)
			}
		})
	}
}

func TestDeviceTokenExpiry(t *testing.T) {
	tokens := NewDeviceTokens("segredo", time.Hour)
	now := time.Now()
	tokens.now = func() time.Time { return now }
	_, token, _ := tokens.Issue()

	tokens.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := tokens.Parse(token); err != ErrInvalidDevice {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestDeviceTokenRequiresUUID(t *testing.T) {
	tokens := NewDeviceTokens("segredo", time.Hour)
	token, _ := tokens.Sign("dispositivo")
	if _, err := tokens.Parse(token); err != ErrInvalidDevice {
		t.Errorf("non-UUID subject accepted: %v", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("brinleaprende128")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword("brinleaprende128", hash) {
		t.Error("correct passphrase rejected")
	}
	if CheckPassword("brinleaprende129", hash) {
		t.Error("wrong passphrase accepted")
	}
}

func TestCSRF(t *testing.T) {
	g := NewCSRFGenerator("segredo")
	token, err := g.GenerateToken("device-a")
	if err != nil {
		t.Fatal(err)
	}
	if !g.ValidateToken("device-a", token) {
		t.Error("valid token rejected")
	}
	if g.ValidateToken("device-b", token) || g.ValidateToken("device-a", "") {
		t.Error("token accepted for the wrong device")
	}
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("empty device id accepted")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Close()
	now := time.Now()
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("requests within the limit rejected")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("third request allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other client limited")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Error("bucket not refilled after the window")
	}

	now = now.Add(5 * time.Minute)
	rl.cleanup()
	if len(rl.visitors) != 0 {
		t.Errorf("%d visitors left after cleanup", len(rl.visitors))
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "127.0.0.1:1", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "127.0.0.1:1", "10.0.0.3"},
		{"remote addr", nil, "192.168.0.9:5000", "192.168.0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCookies(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	c := CreateSessionCookie(r, DeviceCookieName, "v", time.Now().Add(time.Hour))
	if !c.Secure || !c.HttpOnly || c.Path != "/" {
		t.Errorf("cookie flags = %+v", c)
	}
	plain := CreateSessionCookie(httptest.NewRequest("GET", "/", nil), DeviceCookieName, "v", time.Now())
	if plain.Secure || plain.SameSite != http.SameSiteLaxMode {
		t.Errorf("plain http cookie = %+v", plain)
	}
}
