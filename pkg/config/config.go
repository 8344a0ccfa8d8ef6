package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cuemby/vgctl/pkg/log"
	"github.com/cuemby/vgctl/pkg/types"
)

const (
	// DefaultConfigPath is read when it exists and no --config is given
	DefaultConfigPath = "/etc/vgctl/config.yaml"

	// DefaultHistoryKeep bounds the number of stored runs
	DefaultHistoryKeep = 100
)

// Config holds tool settings. Desired state lives in manifests, not here.
type Config struct {
	LogLevel string `yaml:"logLevel" toml:"logLevel"`
	JSONLogs bool   `yaml:"jsonLogs" toml:"jsonLogs"`

	// CommandTimeout bounds each LVM command; zero waits indefinitely
	CommandTimeout time.Duration `yaml:"commandTimeout" toml:"commandTimeout"`

	Tools types.Tools `yaml:"tools" toml:"tools"`

	// MetricsFile, when set, receives Prometheus text metrics after each run
	MetricsFile string `yaml:"metricsFile" toml:"metricsFile"`

	// HistoryPath, when set, is the BoltDB file that records runs
	HistoryPath string `yaml:"historyPath" toml:"historyPath"`
	HistoryKeep int    `yaml:"historyKeep" toml:"historyKeep"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:    string(log.InfoLevel),
		Tools:       types.DefaultTools(),
		HistoryKeep: DefaultHistoryKeep,
	}
}

// Load reads a YAML or TOML config file over the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.Tools = cfg.Tools.Merge(types.DefaultTools())
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when given, else DefaultConfigPath when it
// exists, else the defaults
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return Load(DefaultConfigPath)
	}
	return Default(), nil
}

// Validate checks field values
func (c *Config) Validate() error {
	if !log.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command timeout must not be negative")
	}
	if c.HistoryKeep < 0 {
		return fmt.Errorf("historyKeep must not be negative")
	}
	return nil
}

// decodeFile picks the decoder from the file extension
func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return fmt.Errorf("failed to parse TOML %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys in %s: %v", path, undecoded)
		}
	default:
		return fmt.Errorf("unsupported file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}
