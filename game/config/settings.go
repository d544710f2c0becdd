package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds process level options read from the environment. Command
// line flags take their defaults from here.
type Settings struct {
	Host      string `env:"TRIOMINO_HOST"  envDefault:"localhost"`
	Port      int    `env:"TRIOMINO_PORT"  envDefault:"8080"`
	ConfigDir string `env:"CONFIG_DIR"     envDefault:"configs"`
	Debug     bool   `env:"TRIOMINO_DEBUG" envDefault:"false"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`

	SessionTTL      time.Duration `env:"TRIOMINO_SESSION_TTL"      envDefault:"24h"`
	CleanupInterval time.Duration `env:"TRIOMINO_CLEANUP_INTERVAL" envDefault:"1h"`
}

// LoadSettings parses Settings from the environment
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", s.Port)
	}
	if s.SessionTTL <= 0 || s.CleanupInterval <= 0 {
		return nil, fmt.Errorf("session ttl and cleanup interval must be positive")
	}
	return &s, nil
}
