package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the non-secret application configuration.
type Config struct {
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Feed struct {
		OutputFile   string `yaml:"output_file"`
		ScheduleCron string `yaml:"schedule_cron"`
	} `yaml:"feed"`
	Calendar struct {
		OutputFile string `yaml:"output_file"`
		PublicDays int    `yaml:"public_days"`
	} `yaml:"calendar"`
	Schwab struct {
		TokenFile      string `yaml:"token_file"`
		TokenURL       string `yaml:"token_url"`
		APIBase        string `yaml:"api_base"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"schwab"`
}

// Secrets are taken from the environment only; they never live in the YAML
// file. In local use they arrive via a .env file, in CI via repository
// secrets.
type Secrets struct {
	SchwabAppKey       string `envconfig:"SCHWAB_APP_KEY"`
	SchwabAppSecret    string `envconfig:"SCHWAB_APP_SECRET"`
	SchwabRefreshToken string `envconfig:"SCHWAB_REFRESH_TOKEN"`
	SupabaseURL        string `envconfig:"SUPABASE_URL"`
	SupabaseKey        string `envconfig:"SUPABASE_KEY"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is fine; defaults cover everything.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FEED_OUTPUT_FILE"); v != "" {
		cfg.Feed.OutputFile = v
	}
	if v := os.Getenv("FEED_SCHEDULE_CRON"); v != "" {
		cfg.Feed.ScheduleCron = v
	}
	if v := os.Getenv("CALENDAR_OUTPUT_FILE"); v != "" {
		cfg.Calendar.OutputFile = v
	}
	if v := os.Getenv("SCHWAB_TOKEN_FILE"); v != "" {
		cfg.Schwab.TokenFile = v
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/biotech_options.db"
	}
	if cfg.Feed.OutputFile == "" {
		cfg.Feed.OutputFile = "public/data/positions.json"
	}
	if cfg.Calendar.OutputFile == "" {
		cfg.Calendar.OutputFile = "public/data/calendar.json"
	}
	if cfg.Calendar.PublicDays == 0 {
		cfg.Calendar.PublicDays = 7
	}
	if cfg.Schwab.TokenFile == "" {
		cfg.Schwab.TokenFile = "data/schwab_token.json"
	}
	if cfg.Schwab.TokenURL == "" {
		cfg.Schwab.TokenURL = "https://api.schwabapi.com/v1/oauth/token"
	}
	if cfg.Schwab.APIBase == "" {
		cfg.Schwab.APIBase = "https://api.schwabapi.com"
	}
	if cfg.Schwab.TimeoutSeconds == 0 {
		cfg.Schwab.TimeoutSeconds = 30
	}

	return cfg, nil
}

// LoadSecrets pulls credentials from the environment. Empty values are
// allowed; each consumer decides whether to degrade or fail.
func LoadSecrets() (*Secrets, error) {
	s := &Secrets{}
	if err := envconfig.Process("", s); err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}
	return s, nil
}

// Validate checks internal consistency. Credentials are deliberately not
// required here; the pipeline runs degraded without them.
func (c *Config) Validate() error {
	if c.Feed.OutputFile == "" {
		return fmt.Errorf("feed.output_file is required")
	}
	if c.Calendar.PublicDays < 0 {
		return fmt.Errorf("calendar.public_days must not be negative")
	}
	if c.Schwab.TimeoutSeconds <= 0 {
		return fmt.Errorf("schwab.timeout_seconds must be positive")
	}
	return nil
}

// HasSupabase reports whether the cloud mirror is configured.
func (s *Secrets) HasSupabase() bool {
	return s.SupabaseURL != "" && s.SupabaseKey != ""
}

// HasSchwab reports whether market-data credentials are configured.
func (s *Secrets) HasSchwab() bool {
	return s.SchwabAppKey != "" && s.SchwabAppSecret != ""
}
