package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	APIURL         string `mapstructure:"MEDITRACK_API_URL"`
	TimeoutSeconds int    `mapstructure:"MEDITRACK_TIMEOUT_SECONDS"`
	SessionFile    string `mapstructure:"MEDITRACK_SESSION_FILE"`
	ExportDir      string `mapstructure:"MEDITRACK_EXPORT_DIR"`
	DashboardPort  string `mapstructure:"DASHBOARD_PORT"`
	Env            string `mapstructure:"ENV"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("MEDITRACK_API_URL", "http://localhost:8080")
	v.SetDefault("MEDITRACK_TIMEOUT_SECONDS", 10)
	v.SetDefault("MEDITRACK_SESSION_FILE", defaultSessionFile())
	v.SetDefault("MEDITRACK_EXPORT_DIR", ".")
	v.SetDefault("DASHBOARD_PORT", "8090")
	v.SetDefault("ENV", "development")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("MEDITRACK_API_URL")
	v.BindEnv("MEDITRACK_TIMEOUT_SECONDS")
	v.BindEnv("MEDITRACK_SESSION_FILE")
	v.BindEnv("MEDITRACK_EXPORT_DIR")
	v.BindEnv("DASHBOARD_PORT")
	v.BindEnv("ENV")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration can reach a backend at all. The
// backend itself is a black box; only the URL shape is checked here.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("MEDITRACK_API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("MEDITRACK_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("MEDITRACK_API_URL must be http or https, got %q", u.Scheme)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("MEDITRACK_TIMEOUT_SECONDS must be positive, got %d", c.TimeoutSeconds)
	}
	if c.SessionFile == "" {
		return fmt.Errorf("MEDITRACK_SESSION_FILE is required")
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".meditrack", "session.json")
	}
	return filepath.Join(home, ".meditrack", "session.json")
}
