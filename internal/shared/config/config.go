package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Document store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
)

// Speech synthesis providers.
const (
	TTSGoogle = "gtts"
	TTSOpenAI = "openai"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"5000"`
	Env             string   `env:"ENV" envDefault:"dev"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	AudioDir       string `env:"AUDIO_DIR" envDefault:"./audio"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	DocStore        string `env:"DOC_STORE" envDefault:"memory"`
	DatabaseURL     string `env:"DATABASE_URL"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"./data/documents.db"`
	MongoURI        string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"text-to-speech"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"documents"`

	TTSProvider    string        `env:"TTS_PROVIDER" envDefault:"gtts"`
	TTSLanguage    string        `env:"TTS_LANGUAGE" envDefault:"en"`
	SynthTimeout   time.Duration `env:"SYNTH_TIMEOUT" envDefault:"0s"`
	GTTSBaseURL    string        `env:"GTTS_BASE_URL" envDefault:"https://translate.google.com"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	OpenAITTSModel string        `env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`
	OpenAITTSVoice string        `env:"OPENAI_TTS_VOICE" envDefault:"alloy"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.DocStore {
	case StoreMemory, StoreSQLite, StoreMongo:
	case StorePostgres:
		if c.DatabaseURL == "" && !IsDevLike(c.Env) {
			return fmt.Errorf("DATABASE_URL is required for DOC_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown DOC_STORE %q", c.DocStore)
	}
	switch c.TTSProvider {
	case TTSGoogle:
	case TTSOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for TTS_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q", c.TTSProvider)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.DocStore = strings.ToLower(strings.TrimSpace(c.DocStore))
	c.TTSProvider = strings.ToLower(strings.TrimSpace(c.TTSProvider))
	c.TTSLanguage = strings.TrimSpace(c.TTSLanguage)
	c.CORSAllowOrigin = trimAll(c.CORSAllowOrigin)
}

// IsDevLike reports whether env allows falling back to in-memory dependencies.
func IsDevLike(env string) bool {
	switch normalizeEnv(env) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func trimAll(in []string) []string {
	var out []string
	for _, p := range in {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
