package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the concsearch service configuration.
type Config struct {
	HTTP     HTTPConfig             `yaml:"http"`
	Database DatabaseConfig         `yaml:"database"`
	Auth     AuthConfig             `yaml:"auth"`
	Search   SearchConfig           `yaml:"search"`
	Deciders DecidersConfig         `yaml:"deciders"`
	Indexes  map[string]IndexConfig `yaml:"indexes"`
	Storage  StorageConfig          `yaml:"storage"`
	Logging  LoggingConfig          `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds settings store connection parameters.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, valkey, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds cluster-wide concurrent search settings.
type SearchConfig struct {
	ConcurrentMode string `yaml:"concurrent_mode"` // auto, all, none (default: auto)
	MaxSliceCount  int    `yaml:"max_slice_count"`
}

// DecidersConfig toggles the optional deciders. The default decider is always on.
type DecidersConfig struct {
	KNN        bool `yaml:"knn"`
	ClauseKind bool `yaml:"clause_kind"`
}

// IndexConfig holds static per-index settings used when the store has none.
type IndexConfig struct {
	ConcurrentMode  string   `yaml:"concurrent_mode"`
	KNN             bool     `yaml:"knn"`
	DisabledClauses []string `yaml:"disabled_clauses"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.ConcurrentMode == "" {
		c.Search.ConcurrentMode = "auto"
	}
	if c.Search.MaxSliceCount <= 0 {
		c.Search.MaxSliceCount = 4
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "concsearch:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "memory":
	case "valkey", "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be memory, valkey or redis, got %q", c.Database.Driver)
	}
	if !validMode(c.Search.ConcurrentMode, false) {
		return fmt.Errorf("search.concurrent_mode must be auto, all or none, got %q", c.Search.ConcurrentMode)
	}
	for name, idx := range c.Indexes {
		if !validMode(idx.ConcurrentMode, true) {
			return fmt.Errorf(
				"indexes.%s.concurrent_mode must be auto, all or none, got %q",
				name, idx.ConcurrentMode,
			)
		}
	}
	return nil
}

func validMode(m string, allowEmpty bool) bool {
	switch m {
	case "auto", "all", "none":
		return true
	case "":
		return allowEmpty
	}
	return false
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}

	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
