package flags

import (
	"context"
	"errors"
	"math"
	"testing"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("storage unavailable") }
func (failingStore) Remove(context.Context, string) error { return errors.New("storage unavailable") }

func TestAuthFlags(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if Authenticated(ctx, s) {
		t.Fatal("fresh store reports authenticated")
	}

	if err := SetAuthenticated(ctx, s, "meuappbrinle"); err != nil {
		t.Fatal(err)
	}
	if !Authenticated(ctx, s) {
		t.Error("Authenticated() = false after login")
	}
	if got := Username(ctx, s); got != "meuappbrinle" {
		t.Errorf("Username() = %q", got)
	}

	if err := ClearAuth(ctx, s); err != nil {
		t.Fatal(err)
	}
	if Authenticated(ctx, s) || Username(ctx, s) != "" {
		t.Error("flags survived ClearAuth")
	}
}

func TestAuthenticatedRequiresExactTrue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, KeyAuth, "yes")
	if Authenticated(ctx, s) {
		t.Error(`Authenticated() = true for value "yes"`)
	}
}

func TestVolume(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		stored *string
		want   float64
	}{
		{"absent", nil, 0.5},
		{"stored", ptr("0.8"), 0.8},
		{"garbage", ptr("loud"), 0.5},
		{"above range", ptr("3"), 1},
		{"below range", ptr("-1"), 0},
		{"nan", ptr("NaN"), 0.5},
		{"infinite", ptr("+Inf"), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			if tt.stored != nil {
				s.Set(ctx, VolumeKey("calma"), *tt.stored)
			}
			if got := Volume(ctx, s, "calma"); got != tt.want {
				t.Errorf("Volume() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetVolumeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := SetVolume(ctx, s, "foco", 0.7); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := s.Get(ctx, "volume_foco")
	if !ok || v != "0.7" {
		t.Errorf("stored %q (ok=%v), want 0.7", v, ok)
	}
}

func TestMenuSound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if MenuSoundPlaying(ctx, s) {
		t.Fatal("default should be off")
	}
	SetMenuSoundPlaying(ctx, s, true)
	if !MenuSoundPlaying(ctx, s) {
		t.Error("MenuSoundPlaying() = false after enabling")
	}
	SetMenuSoundPlaying(ctx, s, false)
	if MenuSoundPlaying(ctx, s) {
		t.Error("MenuSoundPlaying() = true after disabling")
	}
}

func TestReadFailuresFallBack(t *testing.T) {
	ctx := context.Background()
	var s failingStore
	if Authenticated(ctx, s) {
		t.Error("Authenticated() = true on failing store")
	}
	if Volume(ctx, s, "calma") != DefaultVolume {
		t.Error("Volume() did not fall back")
	}
	if MenuSoundPlaying(ctx, s) {
		t.Error("MenuSoundPlaying() = true on failing store")
	}
}

func ptr(s string) *string { return &s }

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.3, 0.3},
		{-2, 0},
		{4, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetVolumeNeverStoresNaN(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := SetVolume(ctx, s, "calma", math.NaN()); err != nil {
		t.Fatal(err)
	}
	v, _, _ := s.Get(ctx, VolumeKey("calma"))
	if v != "0" {
		t.Errorf("stored %q, want 0", v)
	}
	if got := Volume(ctx, s, "calma"); got != 0 {
		t.Errorf("Volume() = %v, want 0", got)
	}
}
