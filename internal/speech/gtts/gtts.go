// Package gtts synthesizes speech with Google Translate's text-to-speech
// endpoint. It needs no API key.
package gtts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/speech"
	"brinleneuro/internal/voice"
)

const (
	DefaultBaseURL = "https://translate.google.com/translate_tts"
	requestTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// the endpoint rejects longer queries
	maxTextLen = 200
)

// Client fetches and caches Google TTS clips.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string
	cache   *speech.Cache
	http    *http.Client
}

func New(cache *speech.Cache) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		cache:   cache,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Voices lists the single voice the endpoint offers for Brazilian
// Portuguese.
func (c *Client) Voices(context.Context) ([]voice.Voice, error) {
	return []voice.Voice{{Name: "Google português do Brasil", Lang: speech.DefaultLang}}, nil
}

// Synthesize returns the cached clip for req, fetching it on a miss.
func (c *Client) Synthesize(ctx context.Context, req speech.Request) (speech.Clip, error) {
	name := speech.Key("gtts", req, "")
	if clip, ok := c.cache.Lookup(name); ok {
		return clip, nil
	}
	if len([]rune(req.Text)) > maxTextLen {
		return speech.Clip{}, fmt.Errorf("text too long for google tts: %d runes", len([]rune(req.Text)))
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", req.Text)
	params.Set("tl", req.Lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len([]rune(req.Text))))
	params.Set("ttsspeed", strconv.FormatFloat(req.Rate, 'f', 2, 64))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return speech.Clip{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return speech.Clip{}, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return speech.Clip{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	clip, err := c.cache.Store(name, resp.Body)
	if err != nil {
		return speech.Clip{}, err
	}
	log.Debug().Str("file", clip.Path).Msg("google tts clip cached")
	return clip, nil
}
