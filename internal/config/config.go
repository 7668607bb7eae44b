package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full process configuration. Values resolve in three layers:
// built-in defaults, then the YAML file, then AURA_* environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Audit     AuditConfig     `yaml:"audit"`
	CORS      CORSConfig      `yaml:"cors"`
	Seed      bool            `yaml:"seed" env:"AURA_SEED"`
}

type ServerConfig struct {
	Addr             string        `yaml:"addr" env:"AURA_SERVER_ADDR"`
	ReadTimeout      time.Duration `yaml:"read_timeout" env:"AURA_SERVER_READ_TIMEOUT"`
	WriteTimeout     time.Duration `yaml:"write_timeout" env:"AURA_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" env:"AURA_SERVER_SHUTDOWN_TIMEOUT"`
	RolloverInterval time.Duration `yaml:"rollover_interval" env:"AURA_ROLLOVER_INTERVAL"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" env:"AURA_LOG_LEVEL"`
	Format     string `yaml:"format" env:"AURA_LOG_FORMAT"`
	Output     string `yaml:"output" env:"AURA_LOG_OUTPUT"`
	FilePrefix string `yaml:"file_prefix" env:"AURA_LOG_FILE_PREFIX"`
}

type AuthConfig struct {
	Tokens    []string `yaml:"tokens" env:"AURA_AUTH_TOKENS"`
	JWTSecret string   `yaml:"jwt_secret" env:"AURA_JWT_SECRET"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Enabled bool   `yaml:"enabled" env:"AURA_AI_ENABLED"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"AURA_RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" env:"AURA_RATE_LIMIT_BURST"`
}

type AuditConfig struct {
	Limit int    `yaml:"limit" env:"AURA_AUDIT_LIMIT"`
	Path  string `yaml:"path" env:"AURA_AUDIT_PATH"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins" env:"AURA_CORS_ORIGINS"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:             ":8080",
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     60 * time.Second,
			ShutdownTimeout:  10 * time.Second,
			RolloverInterval: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		AI: AIConfig{Enabled: true},
		RateLimit: RateLimitConfig{
			RPS:   2,
			Burst: 5,
		},
		Audit: AuditConfig{Limit: 1000},
		Seed:  true,
	}
}

// Load resolves the configuration. path may be empty to skip the YAML layer;
// a missing file at the given path is not an error. A .env file in the
// working directory is read into the environment first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	return cfg, nil
}
