package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings loaded from PHOTOBOOK_* environment
// variables. Provider credentials (GEMINI_API_KEY and friends) are read by
// the provider clients themselves.
type Config struct {
	Port               string        `env:"PHOTOBOOK_PORT" envDefault:"8888"`
	Provider           string        `env:"PHOTOBOOK_PROVIDER"`
	Model              string        `env:"PHOTOBOOK_MODEL"`
	Temperature        float64       `env:"PHOTOBOOK_TEMPERATURE" envDefault:"0.2"`
	UploadDir          string        `env:"PHOTOBOOK_UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadBytes     int64         `env:"PHOTOBOOK_MAX_UPLOAD_BYTES" envDefault:"20971520"`
	ProgressResetDelay time.Duration `env:"PHOTOBOOK_PROGRESS_RESET_DELAY" envDefault:"1500ms"`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
