package census

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Lysander66/census-stream/pkg/message"
)

type Config struct {
	ServiceID        string        `env:"CENSUS_SERVICE_ID,required"`
	Environment      string        `env:"CENSUS_ENVIRONMENT" envDefault:"ps2"`
	Endpoint         string        `env:"CENSUS_ENDPOINT" envDefault:"wss://push.planetside2.com/streaming"`
	Capture          string        `env:"CENSUS_CAPTURE"`
	LogLevel         string        `env:"CENSUS_LOG_LEVEL" envDefault:"info"`
	HandshakeTimeout time.Duration `env:"CENSUS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := message.ParseServiceID(cfg.ServiceID); err != nil {
		return Config{}, err
	}
	if _, err := ParseEnvironment(cfg.Environment); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// URL is the full streaming address including query parameters.
func (c Config) URL() (string, error) {
	id, err := message.ParseServiceID(c.ServiceID)
	if err != nil {
		return "", err
	}
	environment, err := ParseEnvironment(c.Environment)
	if err != nil {
		return "", err
	}
	return Endpoint(c.Endpoint, environment, id)
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
