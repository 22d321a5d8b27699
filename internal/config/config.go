package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kbstudio/internal/domain"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "KBSTUDIO"

const (
	DefaultConfigPath = "~/.config/kbstudio/config.yaml"
	DefaultEnvFile    = ".env"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "auto"
)

// Config holds the settings shared by the CLI, TUI and MCP server
type Config struct {
	StorePath     string `yaml:"store_path" envconfig:"STORE"`
	LogLevel      string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat     string `yaml:"log_format" envconfig:"LOG_FORMAT"` // auto, json or console
	IDLength      int    `yaml:"id_length" envconfig:"ID_LENGTH"`
	IDMaxAttempts int    `yaml:"id_max_attempts" envconfig:"ID_MAX_ATTEMPTS"`
	StrictPaths   bool   `yaml:"strict_paths" envconfig:"STRICT_PATHS"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		StorePath:     DefaultStorePath(),
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		IDLength:      domain.DefaultIDLength,
		IDMaxAttempts: domain.DefaultMaxAttempts,
	}
}

// Load layers settings as defaults, then the YAML config file, then the .env
// file, then the environment. The .env file only fills variables that are not
// already set, so real environment variables win over it.
func Load() (*Config, error) {
	return LoadFiles(DefaultEnvFile, "")
}

// LoadFiles is Load with explicit file locations. An empty configPath falls
// back to KBSTUDIO_CONFIG, then DefaultConfigPath. Missing files are skipped.
func LoadFiles(envFile, configPath string) (*Config, error) {
	cfg := Default()

	// .env never overrides variables already set in the environment
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if configPath == "" {
		configPath = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	if err := cfg.mergeYAML(ExpandHome(configPath)); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	cfg.StorePath = ExpandHome(cfg.StorePath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the rewriter or logger cannot use
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store path is required")
	}
	if c.IDLength <= 0 {
		return fmt.Errorf("id length must be positive, got %d", c.IDLength)
	}
	if c.IDMaxAttempts <= 0 {
		return fmt.Errorf("id max attempts must be positive, got %d", c.IDMaxAttempts)
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// RewriteOptions returns the ID generation settings for GenerateUniqueWorkflow
func (c *Config) RewriteOptions() []domain.RewriteOption {
	return []domain.RewriteOption{
		domain.WithGenerator(domain.NewNumericIDGenerator(c.IDLength, nil)),
		domain.WithMaxAttempts(c.IDMaxAttempts),
	}
}

// StorePath returns the store path from KBSTUDIO_STORE env var,
// falling back to DefaultStorePath.
func StorePath() string {
	if env := os.Getenv(EnvPrefix + "_STORE"); env != "" {
		return ExpandHome(env)
	}
	return DefaultStorePath()
}

// DefaultStorePath returns the workflow database under the XDG data directory
func DefaultStorePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "kbstudio", "workflows.db")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
