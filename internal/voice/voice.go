// Package voice picks the speech voice used for narration.
package voice

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"brinleneuro/internal/clock"
)

// Voice is a speech voice offered by the platform.
type Voice struct {
	Name   string `json:"name"`
	Lang   string `json:"lang"`
	Gender string `json:"gender,omitempty"`
}

// Options describe the client the voice is chosen for.
type Options struct {
	// Handheld is set for iPad/iPhone/iPod clients, which often lack
	// Portuguese voices; an English voice is preferred over an arbitrary one.
	Handheld bool
}

// Lister queries the platform for its installed voices.
type Lister interface {
	Voices(ctx context.Context) ([]Voice, error)
}

var (
	masculinePattern = regexp.MustCompile(`(?i)male|masculin|homem|man`)
	femininePattern  = regexp.MustCompile(`(?i)female|feminin|mulher|woman`)
	qualityMarkers   = []string{"Google", "Neural"}
	handheldPattern  = regexp.MustCompile(`iPad|iPhone|iPod`)
)

// IsHandheld reports whether a User-Agent belongs to an iOS handheld device.
func IsHandheld(userAgent string) bool {
	return handheldPattern.MatchString(userAgent)
}

// Pick chooses the best voice from voices, in priority order:
// a high-quality masculine pt-BR voice, any masculine pt-BR voice, any pt-BR
// voice, any Portuguese voice, an English voice on handheld clients, and
// finally the first voice. It returns false when voices is empty.
func Pick(voices []Voice, opts Options) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	rules := []func(Voice) bool{
		func(v Voice) bool { return isBrazilian(v.Lang) && isQuality(v.Name) && isMasculine(v) },
		func(v Voice) bool { return isBrazilian(v.Lang) && isMasculine(v) },
		func(v Voice) bool { return isBrazilian(v.Lang) },
		func(v Voice) bool { return hasBase(v.Lang, "pt") },
	}
	if opts.Handheld {
		rules = append(rules, func(v Voice) bool { return hasBase(v.Lang, "en") })
	}

	for _, match := range rules {
		for _, v := range voices {
			if match(v) {
				return v, true
			}
		}
	}
	return voices[0], true
}

func isQuality(name string) bool {
	for _, m := range qualityMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

func isMasculine(v Voice) bool {
	if strings.EqualFold(v.Gender, "male") {
		return true
	}
	return masculinePattern.MatchString(v.Name) && !femininePattern.MatchString(v.Name)
}

func parseTag(lang string) (language.Tag, bool) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

func isBrazilian(lang string) bool {
	tag, ok := parseTag(lang)
	if !ok {
		return false
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	return base.String() == "pt" && region.String() == "BR" && conf == language.Exact
}

func hasBase(lang, want string) bool {
	tag, ok := parseTag(lang)
	if !ok {
		return false
	}
	base, conf := tag.Base()
	return conf != language.No && base.String() == want
}

// Selector caches the platform voice list and picks from it. It is safe for
// concurrent use.
type Selector struct {
	mu     sync.RWMutex
	source Lister
	voices []Voice
}

// NewSelector creates a selector backed by source. A nil source means the
// list only arrives through Update.
func NewSelector(source Lister) *Selector {
	return &Selector{source: source}
}

// Refresh re-queries the platform voice list.
func (s *Selector) Refresh(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	voices, err := s.source.Voices(ctx)
	if err != nil {
		return err
	}
	s.Update(voices)
	return nil
}

// Update replaces the cached list, e.g. when the browser reports its voices.
func (s *Selector) Update(voices []Voice) {
	s.mu.Lock()
	s.voices = append([]Voice(nil), voices...)
	s.mu.Unlock()

	pt := 0
	for _, v := range voices {
		if hasBase(v.Lang, "pt") {
			pt++
		}
	}
	log.Debug().Int("voices", len(voices)).Int("portuguese", pt).Msg("voice list loaded")
}

// Voices returns the cached list.
func (s *Selector) Voices() []Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Voice(nil), s.voices...)
}

// Current picks a voice from the cache, refreshing it first when empty.
func (s *Selector) Current(ctx context.Context, opts Options) (Voice, bool) {
	s.mu.RLock()
	empty := len(s.voices) == 0
	s.mu.RUnlock()

	if empty {
		if err := s.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("refreshing voice list")
		}
	}

	v, ok := Pick(s.Voices(), opts)
	if !ok {
		log.Warn().Msg("no voice available, using platform default")
	}
	return v, ok
}

// ScheduleRefresh retries the voice query after delay; platforms often
// populate their list shortly after startup.
func (s *Selector) ScheduleRefresh(clk clock.Clock, delay time.Duration) clock.Timer {
	return clk.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("delayed voice refresh")
		}
	})
}
