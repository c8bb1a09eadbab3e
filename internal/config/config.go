package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// SeriesOverride defines overrides to apply when generating event series
type SeriesOverride struct {
	Name     string `yaml:"name" validate:"required"`
	RRule    string `yaml:"rrule" validate:"required"`
	Capacity *int   `yaml:"capacity,omitempty" validate:"omitempty,min=1"`
	Venue    string `yaml:"venue,omitempty"`
}

// Config represents the application configuration
type Config struct {
	ChapterName     string           `yaml:"chapterName" validate:"required"`
	DatabaseURL     string           `yaml:"databaseURL" validate:"required"`
	ListenAddr      string           `yaml:"listenAddr,omitempty"`
	CalendarID      string           `yaml:"calendarID,omitempty"`
	MatchPoolSize   int              `yaml:"matchPoolSize,omitempty" validate:"omitempty,min=1"`
	SeriesOverrides []SeriesOverride `yaml:"seriesOverrides,omitempty" validate:"dive"`
	AllowedOrigins  []string         `yaml:"allowedOrigins,omitempty"`
	LogFilePath     string           `yaml:"logFilePath,omitempty"`
}

// Defaults applied when the optional fields are left unset
const (
	DefaultListenAddr    = ":8080"
	DefaultMatchPoolSize = 10
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment
// suffix. For example, env="test" will look for "yi_connect_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.MatchPoolSize == 0 {
		cfg.MatchPoolSize = DefaultMatchPoolSize
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each override
	for i, override := range cfg.SeriesOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in seriesOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// FindSeriesOverride returns the named series override, or nil if none is
// configured under that name.
func (c *Config) FindSeriesOverride(name string) *SeriesOverride {
	for i := range c.SeriesOverrides {
		if c.SeriesOverrides[i].Name == name {
			return &c.SeriesOverrides[i]
		}
	}
	return nil
}

// findConfigFile searches for yi_connect_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "yi_connect_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "yi_connect_config.yaml"
	if env != "" {
		configFileName = "yi_connect_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
