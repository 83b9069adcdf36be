package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Version     string   `json:"version" mapstructure:"version"`
	FixturesDir string   `json:"fixtures_dir" mapstructure:"fixtures_dir"`
	Marker      string   `json:"marker" mapstructure:"marker"`
	Database    Database `json:"database" mapstructure:"database"`
	Seed        Seed     `json:"seed" mapstructure:"seed"`
}

type Database struct {
	URLEnv string `json:"url_env" mapstructure:"url_env"`
}

type Seed struct {
	// GateEnv names the environment variable that must be set to a truthy
	// value before a seeding run is allowed to touch the database.
	GateEnv string `json:"gate_env" mapstructure:"gate_env"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.FixturesDir == "" {
		cfg.FixturesDir = "db/fixtures"
	}
	if cfg.Marker == "" {
		cfg.Marker = "test"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Seed.GateEnv == "" {
		cfg.Seed.GateEnv = "ALLOW_DB_SEED"
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.FixturesDir == "" {
		return fmt.Errorf("fixtures_dir cannot be empty")
	}
	if c.Marker == "" {
		return fmt.Errorf("marker cannot be empty")
	}
	if c.Marker != strings.ToLower(c.Marker) {
		return fmt.Errorf("marker must be lowercase, got %q", c.Marker)
	}
	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// CheckSeedGate verifies the safety gate before a mutating run. Seeding
// rewrites identity state on live tables, so it has to be opted into per
// environment instead of running against whatever DATABASE_URL points at.
func (c *Config) CheckSeedGate() error {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(c.Seed.GateEnv)))
	switch val {
	case "1", "true", "yes", "on":
		return nil
	case "":
		return fmt.Errorf("seeding is disabled: set %s=1 to allow seeding this database", c.Seed.GateEnv)
	default:
		return fmt.Errorf("seeding is disabled: %s is set to %q, expected a truthy value", c.Seed.GateEnv, val)
	}
}
