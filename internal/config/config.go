package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the optional YAML config file.
const ConfigPathEnvVar = "FOODGRAM_CONFIG"

// Config holds the configuration for the application.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Media    MediaConfig    `koanf:"media"`
	Auth     AuthConfig     `koanf:"auth"`
	API      APIConfig      `koanf:"api"`
	Recipes  RecipeLimits   `koanf:"recipes"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// MediaConfig controls where uploaded recipe images are written and the
// URL prefix they are served under.
type MediaConfig struct {
	Dir string `koanf:"dir"`
	URL string `koanf:"url"`
}

type AuthConfig struct {
	SecretKey string        `koanf:"secret_key"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type APIConfig struct {
	PageSize          int           `koanf:"page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RecipeLimits bounds cooking_time and ingredient amounts.
type RecipeLimits struct {
	MinCookingTime int `koanf:"min_cooking_time"`
	MaxCookingTime int `koanf:"max_cooking_time"`
	MinAmount      int `koanf:"min_amount"`
	MaxAmount      int `koanf:"max_amount"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "data/foodgram.db"},
		Media:    MediaConfig{Dir: "media", URL: "/media/"},
		Auth:     AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		API: APIConfig{
			PageSize:          6,
			MaxPageSize:       100,
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
		Recipes: RecipeLimits{
			MinCookingTime: 1,
			MaxCookingTime: 32000,
			MinAmount:      1,
			MaxAmount:      32000,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// envKeys maps flat environment variable names onto config paths.
var envKeys = map[string]string{
	"port":                 "server.port",
	"read_timeout":         "server.read_timeout",
	"write_timeout":        "server.write_timeout",
	"shutdown_timeout":     "server.shutdown_timeout",
	"db_path":              "database.path",
	"media_dir":            "media.dir",
	"media_url":            "media.url",
	"secret_key":           "auth.secret_key",
	"token_ttl":            "auth.token_ttl",
	"page_size":            "api.page_size",
	"max_page_size":        "api.max_page_size",
	"rate_limit_requests":  "api.rate_limit_requests",
	"rate_limit_window":    "api.rate_limit_window",
	"cors_allowed_origins": "api.cors_origins",
	"min_cooking_time":     "recipes.min_cooking_time",
	"max_cooking_time":     "recipes.max_cooking_time",
	"min_amount":           "recipes.min_amount",
	"max_amount":           "recipes.max_amount",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
}

func envTransformFunc(key string) string {
	return envKeys[strings.ToLower(key)]
}

// NewFromEnv builds the configuration from defaults, an optional YAML file
// and the environment (highest priority). A .env file is loaded first if
// present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Origins arrive from the environment as one comma-separated string.
	if raw, ok := k.Get("api.cors_origins").(string); ok {
		origins := make([]string, 0)
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if err := k.Set("api.cors_origins", origins); err != nil {
			return nil, fmt.Errorf("failed to set cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and recipe bounds.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY environment variable not set")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH environment variable not set")
	}
	if c.Recipes.MinCookingTime < 1 || c.Recipes.MaxCookingTime < c.Recipes.MinCookingTime {
		return fmt.Errorf("invalid cooking time bounds [%d, %d]", c.Recipes.MinCookingTime, c.Recipes.MaxCookingTime)
	}
	if c.Recipes.MinAmount < 1 || c.Recipes.MaxAmount < c.Recipes.MinAmount {
		return fmt.Errorf("invalid amount bounds [%d, %d]", c.Recipes.MinAmount, c.Recipes.MaxAmount)
	}
	if c.API.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.API.PageSize)
	}
	return nil
}
