// Package config resolves quizit-tools configuration once at process start.
//
// Sources, highest to lowest priority:
//  1. Environment variables
//  2. .env.local in the working directory (merged, never overriding real env)
//  3. quizit.yaml in the working directory
//  4. Defaults
//
// Credentials are only validated by the Require* helpers so that each
// subcommand demands exactly the services it talks to. A missing credential
// is a terminal condition for the process, not for a single work item.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingOpenAIKey indicates OPENAI_API_KEY is not set.
	ErrMissingOpenAIKey = errors.New("missing OPENAI_API_KEY")

	// ErrMissingGoogleKey indicates GOOGLE_API_KEY is not set.
	ErrMissingGoogleKey = errors.New("missing GOOGLE_API_KEY")

	// ErrMissingSupabase indicates the Supabase URL or anon key is not set.
	ErrMissingSupabase = errors.New("missing SUPABASE_URL or SUPABASE_ANON_KEY")

	// ErrInvalidTargetKB indicates the image size budget is not positive.
	ErrInvalidTargetKB = errors.New("invalid target size: must be a positive number of KB")

	// ErrInvalidMaxDimension indicates the pixel bound is not positive.
	ErrInvalidMaxDimension = errors.New("invalid max dimension: must be positive")
)

// EnvLocalFile is the dotenv file merged into the environment at startup.
const EnvLocalFile = ".env.local"

// Default model identifiers and image budgets.
const (
	DefaultAnswerModel  = "gpt-5-mini"
	DefaultImageModel   = "gemini-2.5-flash-image"
	DefaultMaxTokens    = 8000
	DefaultAspectRatio  = "4:3"
	DefaultTargetKB     = 50
	DefaultMaxDimension = 1600
	DefaultBucket       = "quizit_card_medias"
	DefaultCacheDir     = "tmp"
)

// Config stores resolved application configuration.
//
// API keys are SENSITIVE: they are never logged and have no JSON tags.
type Config struct {
	// Responses API (question answering, DOT graphs, map refs)
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	AnswerModel  string `mapstructure:"answer_model"`
	MaxTokens    int    `mapstructure:"max_tokens"`

	// Gemini image generation
	GoogleAPIKey string `mapstructure:"google_api_key"`
	ImageModel   string `mapstructure:"image_model"`
	AspectRatio  string `mapstructure:"aspect_ratio"`

	// JPEG re-encoding budget
	TargetKB     int `mapstructure:"target_kb"`
	MaxDimension int `mapstructure:"max_dimension"`

	// Supabase backend
	SupabaseURL     string `mapstructure:"supabase_url"`
	SupabaseAnonKey string `mapstructure:"supabase_anon_key"`
	StorageBucket   string `mapstructure:"storage_bucket"`

	// Local generation cache root (tmp/dots, tmp/maps, ...)
	CacheDir string `mapstructure:"cache_dir"`
}

// Load resolves configuration from all sources.
//
// .env.local values are merged into the process environment without
// overriding variables that are already set, matching dotenv semantics the
// rest of the product relies on.
func Load() (*Config, error) {
	if _, err := os.Stat(EnvLocalFile); err == nil {
		// godotenv.Load never overrides existing environment variables.
		if err := godotenv.Load(EnvLocalFile); err != nil {
			return nil, fmt.Errorf("reading %s: %w", EnvLocalFile, err)
		}
	}

	v := viper.New()
	v.SetConfigName("quizit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("answer_model", DefaultAnswerModel)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("image_model", DefaultImageModel)
	v.SetDefault("aspect_ratio", DefaultAspectRatio)
	v.SetDefault("target_kb", DefaultTargetKB)
	v.SetDefault("max_dimension", DefaultMaxDimension)
	v.SetDefault("storage_bucket", DefaultBucket)
	v.SetDefault("cache_dir", DefaultCacheDir)
}

// bindEnv maps environment variables onto config keys. Where the product
// historically used more than one name (frontend-style VITE_ prefixes, and a
// long-lived GOOLE_API_KEY misspelling), every name is honored; the first
// one set wins.
func bindEnv(v *viper.Viper) {
	mustBind := func(key string, envVars ...string) {
		if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
			panic(fmt.Sprintf("BUG: binding %q: %v", key, err))
		}
	}

	mustBind("openai_api_key", "OPENAI_API_KEY")
	mustBind("google_api_key", "GOOGLE_API_KEY", "GOOLE_API_KEY")
	mustBind("supabase_url", "SUPABASE_URL", "VITE_SUPABASE_URL")
	mustBind("supabase_anon_key", "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY")
	mustBind("answer_model", "QUIZIT_ANSWER_MODEL")
	mustBind("image_model", "QUIZIT_IMAGE_MODEL")
	mustBind("storage_bucket", "QUIZIT_STORAGE_BUCKET")
	mustBind("cache_dir", "QUIZIT_CACHE_DIR")
}

// Validate checks ranges that apply regardless of subcommand.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("configuration is nil")
	}
	if c.TargetKB <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTargetKB, c.TargetKB)
	}
	if c.MaxDimension <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxDimension, c.MaxDimension)
	}
	return nil
}

// RequireOpenAI fails when the Responses API credential is absent.
func (c *Config) RequireOpenAI() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("%w: set it in the environment or %s", ErrMissingOpenAIKey, EnvLocalFile)
	}
	return nil
}

// RequireGoogle fails when the Gemini credential is absent.
func (c *Config) RequireGoogle() error {
	if strings.TrimSpace(c.GoogleAPIKey) == "" {
		return fmt.Errorf("%w: set it in the environment or %s", ErrMissingGoogleKey, EnvLocalFile)
	}
	return nil
}

// RequireSupabase fails when the backend URL or anon key is absent.
func (c *Config) RequireSupabase() error {
	if strings.TrimSpace(c.SupabaseURL) == "" || strings.TrimSpace(c.SupabaseAnonKey) == "" {
		return fmt.Errorf("%w: set them in the environment or %s", ErrMissingSupabase, EnvLocalFile)
	}
	return nil
}
