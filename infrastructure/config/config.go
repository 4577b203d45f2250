package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	domainconfig "thoughtgraph/domain/config"
	"thoughtgraph/domain/services"
	"thoughtgraph/pkg/utils"
)

const appName = "thoughts"

// Config holds all application configuration
type Config struct {
	Environment string `yaml:"environment" toml:"environment" validate:"oneof=development production test"`

	// Storage
	DBPath     string `yaml:"db_path" toml:"db_path" validate:"required"`
	WatchStore bool   `yaml:"watch_store" toml:"watch_store"`

	// Logging
	LogLevel string `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `yaml:"log_file" toml:"log_file"`

	// Observability
	MetricsFile   string `yaml:"metrics_file" toml:"metrics_file"`
	EnableTracing bool   `yaml:"enable_tracing" toml:"enable_tracing"`

	// Editor launched for edit requests; falls back to $EDITOR, then vi
	Editor string `yaml:"editor" toml:"editor"`

	Visualization VisualizationConfig `yaml:"visualization" toml:"visualization"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-" toml:"-"`

	// TolerateStoreErrors is set for commands that only read entries. An
	// entry database that cannot be opened then reads as empty.
	TolerateStoreErrors bool `yaml:"-" toml:"-"`
}

// VisualizationConfig holds the graph view settings
type VisualizationConfig struct {
	Threshold    float64 `yaml:"threshold" toml:"threshold" validate:"gte=0,lte=1"`
	Layout       string  `yaml:"layout" toml:"layout" validate:"oneof=force circular hierarchical"`
	PinPolicy    string  `yaml:"pin_policy" toml:"pin_policy" validate:"oneof=permanent release_on_drop"`
	ExportWidth  float64 `yaml:"export_width" toml:"export_width" validate:"gt=0"`
	ExportHeight float64 `yaml:"export_height" toml:"export_height" validate:"gt=0"`
}

// DefaultConfig returns the configuration used before any file or
// environment overrides
func DefaultConfig() *Config {
	domain := domainconfig.DefaultDomainConfig()
	return &Config{
		Environment: "production",
		DBPath:      filepath.Join(dataDir(), "thoughts.db"),
		WatchStore:  true,
		LogLevel:    "info",
		LogFile:     filepath.Join(stateDir(), "thoughts.log"),
		Visualization: VisualizationConfig{
			Threshold:    domain.DefaultThreshold,
			Layout:       "force",
			PinPolicy:    string(domain.PinPolicy),
			ExportWidth:  1200,
			ExportHeight: 800,
		},
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return utils.ValidateStruct(c)
}

// DomainConfig derives the domain rules for this environment with the
// user's overrides applied
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	domain := domainconfig.LoadDomainConfig(c.Environment)
	domain.DefaultThreshold = services.ClampThreshold(c.Visualization.Threshold)
	if c.Visualization.PinPolicy != "" {
		domain.PinPolicy = domainconfig.PinPolicy(c.Visualization.PinPolicy)
	}
	return domain
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ResolveEditor returns the editor command for edit requests
func (c *Config) ResolveEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return getEnv("EDITOR", "vi")
}

func dataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func stateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func configDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, fallback, appName)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBool reads the truthy spellings accepted in environment overrides
func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1" || value == "yes"
}

// parseFloat parses a float with a default value
func parseFloat(value string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return f
	}
	return defaultValue
}
