// Package polly synthesizes speech with Amazon Polly.
package polly

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/speech"
	"brinleneuro/internal/voice"
)

// API is the subset of the Polly client used here.
type API interface {
	DescribeVoices(ctx context.Context, in *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error)
	SynthesizeSpeech(ctx context.Context, in *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Client is a Polly-backed speech synthesizer.
type Client struct {
	api    API
	engine types.Engine
	cache  *speech.Cache
}

// New builds a client from the default AWS credential chain.
func New(ctx context.Context, region, engine string, cache *speech.Cache) (*Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewWithAPI(polly.NewFromConfig(cfg), engine, cache), nil
}

// NewWithAPI wraps an existing Polly API implementation.
func NewWithAPI(api API, engine string, cache *speech.Cache) *Client {
	e := types.Engine(strings.ToLower(engine))
	if e == "" {
		e = types.EngineStandard
	}
	return &Client{api: api, engine: e, cache: cache}
}

// Voices lists the Brazilian Portuguese voices available for the engine.
func (c *Client) Voices(ctx context.Context) ([]voice.Voice, error) {
	var (
		out   []voice.Voice
		token *string
	)
	for {
		resp, err := c.api.DescribeVoices(ctx, &polly.DescribeVoicesInput{
			Engine:       c.engine,
			LanguageCode: types.LanguageCodePtBr,
			NextToken:    token,
		})
		if err != nil {
			return nil, fmt.Errorf("describing polly voices: %w", err)
		}
		for _, v := range resp.Voices {
			out = append(out, voice.Voice{
				Name:   string(v.Id),
				Lang:   string(v.LanguageCode),
				Gender: strings.ToLower(string(v.Gender)),
			})
		}
		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		token = resp.NextToken
	}
	log.Debug().Int("voices", len(out)).Str("engine", string(c.engine)).Msg("polly voices listed")
	return out, nil
}

func (c *Client) defaultVoice() types.VoiceId {
	if c.engine == types.EngineNeural {
		return types.VoiceId("Thiago")
	}
	return types.VoiceId("Ricardo")
}

// Synthesize returns the cached clip for req, calling Polly on a miss.
func (c *Client) Synthesize(ctx context.Context, req speech.Request) (speech.Clip, error) {
	voiceID := types.VoiceId(req.Voice)
	if voiceID == "" {
		voiceID = c.defaultVoice()
	}
	name := speech.Key("polly", req, string(voiceID))
	if clip, ok := c.cache.Lookup(name); ok {
		return clip, nil
	}

	resp, err := c.api.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       c.engine,
		LanguageCode: types.LanguageCode(req.Lang),
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(SSML(req, c.engine != types.EngineNeural)),
		TextType:     types.TextTypeSsml,
		VoiceId:      voiceID,
	})
	if err != nil {
		return speech.Clip{}, fmt.Errorf("polly synthesize: %w", err)
	}
	defer resp.AudioStream.Close()

	return c.cache.Store(name, resp.AudioStream)
}

// SSML wraps the request text in a prosody element carrying its rate and,
// when supported by the engine, its pitch.
func SSML(req speech.Request, withPitch bool) string {
	var text bytes.Buffer
	xml.EscapeText(&text, []byte(req.Text))

	attrs := fmt.Sprintf(`rate="%d%%"`, int(math.Round(req.Rate*100)))
	if withPitch {
		attrs += fmt.Sprintf(` pitch="%+d%%"`, int(math.Round((req.Pitch-1)*100)))
	}
	return fmt.Sprintf("<speak><prosody %s>%s</prosody></speak>", attrs, text.String())
}
