package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds runtime configuration parsed from the environment.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quiz-web"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:3000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// DatabaseURL is deliberately not required: when it is absent the app
	// starts in degraded mode and renders "unavailable" pages instead of
	// refusing to boot.
	DatabaseURL string `env:"DATABASE_URL"`
}

// Load parses environment variables into App config.
func Load() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
