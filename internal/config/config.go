package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config is everything the server reads from its environment.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       zerolog.Level
	LogFormat      string
	GinMode        string
	WSRateLimit    float64
	WSRateBurst    int
	WSPingInterval time.Duration
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	env := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:      env("PORT", "3001"),
		LogFormat: env("LOG_FORMAT", "console"),
		GinMode:   env("GIN_MODE", "release"),
	}
	var errs []error

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		errs = append(errs, fmt.Errorf("PORT: %w", err))
	}

	for _, origin := range strings.Split(env("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	level, err := zerolog.ParseLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be console or json, got %q", cfg.LogFormat))
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE: unknown mode %q", cfg.GinMode))
	}

	if cfg.WSRateLimit, err = strconv.ParseFloat(env("WS_RATE_LIMIT", "5"), 64); err != nil {
		errs = append(errs, fmt.Errorf("WS_RATE_LIMIT: %w", err))
	} else if cfg.WSRateLimit <= 0 {
		errs = append(errs, errors.New("WS_RATE_LIMIT: must be positive"))
	}

	if cfg.WSRateBurst, err = strconv.Atoi(env("WS_RATE_BURST", "10")); err != nil {
		errs = append(errs, fmt.Errorf("WS_RATE_BURST: %w", err))
	} else if cfg.WSRateBurst < 1 {
		errs = append(errs, errors.New("WS_RATE_BURST: must be at least 1"))
	}

	if cfg.WSPingInterval, err = time.ParseDuration(env("WS_PING_INTERVAL", "30s")); err != nil {
		errs = append(errs, fmt.Errorf("WS_PING_INTERVAL: %w", err))
	} else if cfg.WSPingInterval < time.Second {
		errs = append(errs, errors.New("WS_PING_INTERVAL: must be at least 1s"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
