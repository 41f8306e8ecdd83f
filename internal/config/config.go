package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the subwatch configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Check    CheckConfig    `yaml:"check"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// TelegramConfig holds bot transport settings.
type TelegramConfig struct {
	Token         string `yaml:"token"`
	AdminID       int64  `yaml:"admin_id"`
	MessageTTLSec int    `yaml:"message_ttl_sec"` // outgoing messages self-delete after this
}

// CheckConfig holds subscription check settings.
type CheckConfig struct {
	Hour           int    `yaml:"hour"`            // daily check hour, 0-23
	TimeOffsetHour int    `yaml:"time_offset_h"`   // civil-time offset for expiry dates
	UserAgent      string `yaml:"user_agent"`      // proxy-client UA sent on traffic checks
	TimeoutSec     int    `yaml:"timeout_sec"`     // per-fetch timeout
	MaxRedirects   int    `yaml:"max_redirects"`   // redirect hop cap per fetch
	ScanFirstWins  bool   `yaml:"scan_first_wins"` // key-value scanner precedence policy
}

// HTTPConfig holds the ops server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.Telegram.MessageTTLSec <= 0 {
		c.Telegram.MessageTTLSec = 60
	}
	if c.Check.Hour <= 0 {
		c.Check.Hour = 9
	}
	if c.Check.TimeOffsetHour == 0 {
		c.Check.TimeOffsetHour = 8
	}
	if c.Check.UserAgent == "" {
		c.Check.UserAgent = "ClashforWindows/0.18.1"
	}
	if c.Check.TimeoutSec <= 0 {
		c.Check.TimeoutSec = 5
	}
	if c.Check.MaxRedirects <= 0 {
		c.Check.MaxRedirects = 10
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "subwatch:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Check.Hour < 0 || c.Check.Hour > 23 {
		return fmt.Errorf("check.hour must be between 0 and 23, got %d", c.Check.Hour)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	return nil
}

// MessageTTL returns the outgoing message lifetime as a duration.
func (c *Config) MessageTTL() time.Duration {
	return time.Duration(c.Telegram.MessageTTLSec) * time.Second
}

// CheckTimeout returns the per-fetch timeout as a duration.
func (c *Config) CheckTimeout() time.Duration {
	return time.Duration(c.Check.TimeoutSec) * time.Second
}

// TimeOffset returns the civil-time offset as a duration.
func (c *Config) TimeOffset() time.Duration {
	return time.Duration(c.Check.TimeOffsetHour) * time.Hour
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
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
