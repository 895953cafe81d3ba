package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string        `env:"PORT" envDefault:"8080"`
	DatabaseType    string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabasePath    string        `env:"DB_PATH" envDefault:"./brinleneuro.db"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
	TemplatesPath   string        `env:"TEMPLATES_PATH" envDefault:"./internal/templates"`
	StaticFilesPath string        `env:"STATIC_PATH" envDefault:"./static"`
	SessionSecret   string        `env:"SESSION_SECRET" envDefault:"brinle-dev-secret-change-me"`
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	DeviceCookieTTL time.Duration `env:"DEVICE_COOKIE_TTL" envDefault:"8760h"`

	Username   string `env:"BRINLE_USERNAME" envDefault:"meuappbrinle"`
	Passphrase string `env:"BRINLE_PASSPHRASE" envDefault:"brinleaprende128"`

	// AudioOutput is "stream" (tones streamed to the browser) or "speaker"
	// (tones played on the host audio device).
	AudioOutput string `env:"AUDIO_OUTPUT" envDefault:"stream"`
	SampleRate  int    `env:"SAMPLE_RATE" envDefault:"44100"`

	// SpeechEngine is "browser", "google" or "polly".
	SpeechEngine   string `env:"SPEECH_ENGINE" envDefault:"browser"`
	SpeechCacheDir string `env:"SPEECH_CACHE_DIR" envDefault:"./static/speech"`
	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	PollyEngine    string `env:"POLLY_ENGINE" envDefault:"standard"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads configuration from the environment, after merging an optional
// .env file (ENV_FILE, default ./.env).
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.AudioOutput {
	case "stream", "speaker":
	default:
		return fmt.Errorf("unsupported AUDIO_OUTPUT %q", c.AudioOutput)
	}
	switch c.SpeechEngine {
	case "browser", "google", "polly":
	default:
		return fmt.Errorf("unsupported SPEECH_ENGINE %q", c.SpeechEngine)
	}
	if c.SampleRate < 8000 || c.SampleRate > 96000 {
		return fmt.Errorf("SAMPLE_RATE out of range: %d", c.SampleRate)
	}
	if c.Username == "" || c.Passphrase == "" {
		return fmt.Errorf("BRINLE_USERNAME and BRINLE_PASSPHRASE must be set")
	}
	return nil
}
