package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	envPrefix = "CRPT_"
	// ConfigFileEnv names an optional YAML file loaded before the environment.
	ConfigFileEnv = "CRPT_CONFIG_FILE"

	DefaultEndpoint = "https://ismp.crpt.ru/api/v3/lk/documents/create"
)

type Config struct {
	Primary Primary       `koanf:"primary"`
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Limiter LimiterConfig `koanf:"limiter"`
	Logger  LoggerConfig  `koanf:"logger"`
	Metrics MetricsConfig `koanf:"metrics"`
	Submit  SubmitConfig  `koanf:"submit"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`

	// RequestTimeout bounds a whole ingress request, permit wait included.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type APIConfig struct {
	Endpoint string        `koanf:"endpoint" validate:"required,url"`
	Timeout  time.Duration `koanf:"timeout" validate:"required"`
}

// LimiterConfig bounds submissions to RequestLimit per one Unit of time.
type LimiterConfig struct {
	Unit            time.Duration `koanf:"unit" validate:"required,gt=0"`
	RequestLimit    int           `koanf:"request_limit" validate:"required,min=1"`
	Strategy        string        `koanf:"strategy" validate:"required,oneof=window paced"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required"`
}

// Window is the rolling window length: one unit.
func (c LimiterConfig) Window() time.Duration {
	return c.Unit
}

type LoggerConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type SubmitConfig struct {
	Concurrency int `koanf:"concurrency" validate:"required,min=1"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env":              "development",
		"server.port":              "8080",
		"server.read_timeout":      "10s",
		"server.write_timeout":     "2m",
		"server.idle_timeout":      "60s",
		"server.request_timeout":   "90s",
		"api.endpoint":             DefaultEndpoint,
		"api.timeout":              "30s",
		"limiter.unit":             "1m",
		"limiter.request_limit":    10,
		"limiter.strategy":         "window",
		"limiter.shutdown_timeout": "1m",
		"logger.level":             "info",
		"logger.format":            "text",
		"metrics.enabled":          true,
		"metrics.path":             "/metrics",
		"submit.concurrency":       4,
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			logger.Error("failed to load config file", "path", path, "error", err)
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
