// Package config loads binary configuration from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file values.
// Nested keys use a double underscore: ANALYZER_MODEL__S3__BUCKET.
const EnvPrefix = "ANALYZER_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Model    ModelConfig    `koanf:"model"`
	Platform PlatformConfig `koanf:"platform"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig selects the log level. Empty defers to the LOG_LEVEL env var.
type LogConfig struct {
	Level string `koanf:"level"`
}

// ModelConfig locates the sarcasm model. S3 is used when a bucket is set.
type ModelConfig struct {
	Path string   `koanf:"path"`
	S3   S3Config `koanf:"s3"`
}

type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Key       string `koanf:"key"`
}

// PlatformConfig configures the platform detector. API keys come from
// VOYAGEAI_API_KEY, PINECONE_API_KEY, PINECONE_HOST and OPENAI_API_KEY or
// GROQ_API_KEY depending on the provider.
type PlatformConfig struct {
	Enabled       bool     `koanf:"enabled"`
	Namespace     string   `koanf:"namespace"`
	Provider      string   `koanf:"provider"`
	Model         string   `koanf:"model"`
	BaseURL       string   `koanf:"base_url"`
	Temperature   *float32 `koanf:"temperature"`
	Platforms     []string `koanf:"platforms"`
	MinSimilarity float32  `koanf:"min_similarity"`
	LearnFromLLM  bool     `koanf:"learn_from_llm"`
}

// Default returns the configuration used for keys absent from every source
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Path: "./assets/sarcasm_model.json",
			S3: S3Config{
				Region: "us-east-1",
				Key:    "sarcasm_model.json",
			},
		},
		Platform: PlatformConfig{
			Enabled: true,
		},
	}
}

// UseS3 reports whether the model should be fetched from object storage
func (c ModelConfig) UseS3() bool {
	return c.S3.Bucket != ""
}

// Load reads path (a missing file is tolerated), then applies ANALYZER_*
// environment overrides. A .env file in the working directory is loaded
// into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// envKey maps ANALYZER_PLATFORM__MIN_SIMILARITY to platform.min_similarity.
// List values are comma separated.
func envKey(key string, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if key == "platform.platforms" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return key, out
	}

	return key, value
}
