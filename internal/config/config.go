package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Provider string       `yaml:"provider" mapstructure:"provider"`
	Model    string       `yaml:"model" mapstructure:"model"`
	APIKey   string       `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string       `yaml:"base_url" mapstructure:"base_url"`
	Ledger   LedgerConfig `yaml:"ledger" mapstructure:"ledger"`
	Reports  ReportConfig `yaml:"reports" mapstructure:"reports"`
	Search   SearchConfig `yaml:"search" mapstructure:"search"`
	Crew     CrewConfig   `yaml:"crew" mapstructure:"crew"`
}

type LedgerConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type ReportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type SearchConfig struct {
	Limit          int `yaml:"limit" mapstructure:"limit"`
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type CrewConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxRetries    int `yaml:"max_retries" mapstructure:"max_retries"`
	MaxIterations int `yaml:"max_iterations" mapstructure:"max_iterations"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Dir returns the configuration root. The interest ledger lives here by
// default, colocated with config.yaml.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "icebreaker")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "icebreaker")
}

func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Model:    "gpt-4o",
		APIKey:   "$OPENAI_API_KEY",
		Ledger: LedgerConfig{
			Path: filepath.Join(Dir(), "my_interests.md"),
		},
		Reports: ReportConfig{
			Dir: "reports",
		},
		Search: SearchConfig{
			Limit:          5,
			TimeoutSeconds: 30,
		},
		Crew: CrewConfig{
			MaxConcurrent: 2,
			MaxRetries:    2,
			MaxIterations: 8,
		},
	}
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths
	viper.AddConfigPath(".")
	viper.AddConfigPath(Dir())

	// Environment variables
	viper.SetEnvPrefix("ICEBREAKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found; use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.APIKey = expandEnv(cfg.APIKey)
	cfg.BaseURL = expandEnv(cfg.BaseURL)
	cfg.Ledger.Path = expandEnv(cfg.Ledger.Path)
	cfg.Reports.Dir = expandEnv(cfg.Reports.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors and backfills out-of-range
// numeric settings with defaults.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "ollama":
	case "":
		return fmt.Errorf("config: provider is required")
	default:
		return fmt.Errorf("config: provider %q is invalid (must be openai or ollama)", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("config: model is required")
	}
	if c.Provider == "ollama" && c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("config: ledger.path is required")
	}
	if c.Reports.Dir == "" {
		return fmt.Errorf("config: reports.dir is required")
	}
	if c.Search.Limit < 1 {
		c.Search.Limit = 5
	}
	if c.Search.TimeoutSeconds < 1 {
		c.Search.TimeoutSeconds = 30
	}
	if c.Crew.MaxConcurrent < 1 {
		c.Crew.MaxConcurrent = 2
	}
	if c.Crew.MaxRetries < 1 {
		c.Crew.MaxRetries = 2
	}
	if c.Crew.MaxIterations < 1 {
		c.Crew.MaxIterations = 8
	}
	return nil
}
