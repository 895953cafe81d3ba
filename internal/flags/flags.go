// Package flags stores the small per-device key/value settings the app keeps
// between visits: the login flag, per-sound volumes and the menu sound state.
package flags

import (
	"context"
	"math"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	KeyAuth         = "brinle_auth"
	KeyUser         = "brinle_user"
	KeyMenuSound    = "menu_sound_playing"
	volumeKeyPrefix = "volume_"
	DefaultVolume   = 0.5
	trueValue       = "true"
	falseValue      = "false"
)

// Store is a string key/value store scoped to one device.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// VolumeKey returns the key under which a sound's volume is kept.
func VolumeKey(soundID string) string {
	return volumeKeyPrefix + soundID
}

// Authenticated reports whether the device has logged in. Read failures count
// as logged out.
func Authenticated(ctx context.Context, s Store) bool {
	v, ok, err := s.Get(ctx, KeyAuth)
	if err != nil {
		log.Warn().Err(err).Msg("reading auth flag")
		return false
	}
	return ok && v == trueValue
}

// Username returns the stored user name, or "" when absent.
func Username(ctx context.Context, s Store) string {
	v, _, err := s.Get(ctx, KeyUser)
	if err != nil {
		log.Warn().Err(err).Msg("reading user flag")
		return ""
	}
	return v
}

// SetAuthenticated marks the device as logged in as username.
func SetAuthenticated(ctx context.Context, s Store, username string) error {
	if err := s.Set(ctx, KeyAuth, trueValue); err != nil {
		return err
	}
	return s.Set(ctx, KeyUser, username)
}

// ClearAuth removes the login flags.
func ClearAuth(ctx context.Context, s Store) error {
	if err := s.Remove(ctx, KeyAuth); err != nil {
		return err
	}
	return s.Remove(ctx, KeyUser)
}

// Volume returns the stored volume for a sound, falling back to
// DefaultVolume when absent or unparsable. The result is clamped to [0, 1].
func Volume(ctx context.Context, s Store, soundID string) float64 {
	v, ok, err := s.Get(ctx, VolumeKey(soundID))
	if err != nil {
		log.Warn().Err(err).Str("sound", soundID).Msg("reading volume flag")
		return DefaultVolume
	}
	if !ok {
		return DefaultVolume
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultVolume
	}
	return Clamp01(f)
}

// SetVolume stores a sound's volume.
func SetVolume(ctx context.Context, s Store, soundID string, v float64) error {
	return s.Set(ctx, VolumeKey(soundID), strconv.FormatFloat(Clamp01(v), 'f', -1, 64))
}

// MenuSoundPlaying reports whether the menu ambient sound was left on.
func MenuSoundPlaying(ctx context.Context, s Store) bool {
	v, ok, err := s.Get(ctx, KeyMenuSound)
	if err != nil {
		log.Warn().Err(err).Msg("reading menu sound flag")
		return false
	}
	return ok && v == trueValue
}

// SetMenuSoundPlaying stores the menu ambient sound state.
func SetMenuSoundPlaying(ctx context.Context, s Store, playing bool) error {
	v := falseValue
	if playing {
		v = trueValue
	}
	return s.Set(ctx, KeyMenuSound, v)
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
