package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	pkgerrors "thoughtgraph/pkg/errors"
)

// envPrefix namespaces every environment override
const envPrefix = "THOUGHTS_"

// FileLoader decodes one configuration file format
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extensions() []string
}

// YAMLLoader loads YAML configuration files
type YAMLLoader struct{}

// Load implements FileLoader
func (YAMLLoader) Load(reader io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Extensions implements FileLoader
func (YAMLLoader) Extensions() []string { return []string{"yaml", "yml"} }

// TOMLLoader loads TOML configuration files
type TOMLLoader struct{}

// Load implements FileLoader
func (TOMLLoader) Load(reader io.Reader, target interface{}) error {
	md, err := toml.NewDecoder(reader).Decode(target)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

// Extensions implements FileLoader
func (TOMLLoader) Extensions() []string { return []string{"toml"} }

// Loader layers configuration from defaults, an optional file and the
// environment, in that order of increasing priority
type Loader struct {
	// path is an explicit config file; empty means search the config dir
	path        string
	searchDir   string
	fileLoaders map[string]FileLoader
	lookupEnv   func(string) (string, bool)
}

// NewLoader creates a loader. An empty path searches
// $XDG_CONFIG_HOME/thoughts for config.yaml, config.yml or config.toml.
func NewLoader(path string) *Loader {
	l := &Loader{
		path:        path,
		searchDir:   configDir(),
		fileLoaders: make(map[string]FileLoader),
		lookupEnv:   os.LookupEnv,
	}
	l.RegisterLoader(YAMLLoader{})
	l.RegisterLoader(TOMLLoader{})
	return l
}

// RegisterLoader registers a file format under each of its extensions
func (l *Loader) RegisterLoader(loader FileLoader) {
	for _, ext := range loader.Extensions() {
		l.fileLoaders[ext] = loader
	}
}

// Load builds the final configuration
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	cfg.LoadedFrom = []string{"defaults"}

	path, err := l.locate()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := l.loadFile(path, cfg); err != nil {
			return nil, pkgerrors.NewConfigError(fmt.Sprintf("failed to load %s", path), err)
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	if l.loadEnvironmentVariables(cfg) {
		cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")
	}

	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.LogFile = expandHome(cfg.LogFile)
	cfg.MetricsFile = expandHome(cfg.MetricsFile)

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.NewConfigError("configuration validation failed", err)
	}

	return cfg, nil
}

// locate returns the config file to read, or "" when there is none. An
// explicit path must exist.
func (l *Loader) locate() (string, error) {
	if l.path != "" {
		if _, err := os.Stat(l.path); err != nil {
			return "", pkgerrors.NewConfigError(fmt.Sprintf("config file %s not readable", l.path), err)
		}
		return l.path, nil
	}

	for _, ext := range []string{"yaml", "yml", "toml"} {
		candidate := filepath.Join(l.searchDir, "config."+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func (l *Loader) loadFile(path string, cfg *Config) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	loader, ok := l.fileLoaders[ext]
	if !ok {
		return fmt.Errorf("unsupported config format %q", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return loader.Load(file, cfg)
}

// loadEnvironmentVariables overlays THOUGHTS_* variables and reports
// whether any was set
func (l *Loader) loadEnvironmentVariables(cfg *Config) bool {
	applied := false
	str := func(name string, target *string) {
		if v, ok := l.lookupEnv(envPrefix + name); ok && v != "" {
			*target = v
			applied = true
		}
	}

	str("ENV", &cfg.Environment)
	str("DB_PATH", &cfg.DBPath)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FILE", &cfg.LogFile)
	str("METRICS_FILE", &cfg.MetricsFile)
	str("EDITOR", &cfg.Editor)
	str("LAYOUT", &cfg.Visualization.Layout)
	str("PIN_POLICY", &cfg.Visualization.PinPolicy)

	if v, ok := l.lookupEnv(envPrefix + "THRESHOLD"); ok && v != "" {
		cfg.Visualization.Threshold = parseThreshold(v, cfg.Visualization.Threshold)
		applied = true
	}
	if v, ok := l.lookupEnv(envPrefix + "TRACING"); ok && v != "" {
		cfg.EnableTracing = parseBool(v)
		applied = true
	}
	if v, ok := l.lookupEnv(envPrefix + "WATCH"); ok && v != "" {
		cfg.WatchStore = parseBool(v)
		applied = true
	}

	return applied
}

// parseThreshold accepts a fraction (0.25) or a percentage (25 or 25%)
func parseThreshold(v string, fallback float64) float64 {
	v = strings.TrimSpace(v)
	percent := strings.HasSuffix(v, "%")
	f := parseFloat(strings.TrimSuffix(v, "%"), fallback)
	if percent || f > 1 {
		return f / 100
	}
	return f
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
