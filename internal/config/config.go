package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joeshaw/envdecode"
)

const (
	DefaultServerName    = "Reflection MCP Server"
	DefaultServerVersion = "1.0.0"
	DefaultLogLevel      = "info"
	DefaultMaxLineBytes  = 10 * 1024 * 1024
)

type Config struct {
	LogLevel        string `json:"log_level,omitempty"`
	LogFile         bool   `json:"log_file,omitempty"`
	ServerName      string `json:"server_name,omitempty"`
	ServerVersion   string `json:"server_version,omitempty"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	MaxLineBytes    int    `json:"max_line_bytes,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		ServerName:    DefaultServerName,
		ServerVersion: DefaultServerVersion,
		MaxLineBytes:  DefaultMaxLineBytes,
	}
}

func Load(path string) (*Config, error) {
	// Verify file permissions before reading (trust boundary check)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return nil, fmt.Errorf("config file %s has insecure permissions %o (expected 0600). Fix with: chmod 600 %s", path, perm, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file does
// not exist. Any other failure is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.ServerName == "" {
		c.ServerName = d.ServerName
	}
	if c.ServerVersion == "" {
		c.ServerVersion = d.ServerVersion
	}
	if c.MaxLineBytes == 0 {
		c.MaxLineBytes = d.MaxLineBytes
	}
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, 0600)
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxLineBytes < 0 {
		return fmt.Errorf("max_line_bytes must not be negative, got %d", c.MaxLineBytes)
	}
	return nil
}

// envOverrides are decoded with envdecode. Empty values leave the file
// setting untouched.
type envOverrides struct {
	LogLevel      string `env:"MCPREFLECT_LOG_LEVEL"`
	LogFile       string `env:"MCPREFLECT_LOG_FILE"`
	ServerName    string `env:"MCPREFLECT_SERVER_NAME"`
	ServerVersion string `env:"MCPREFLECT_SERVER_VERSION"`
	MaxLineBytes  int    `env:"MCPREFLECT_MAX_LINE_BYTES"`
}

// ApplyEnv overlays MCPREFLECT_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("decode environment: %w", err)
	}

	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.LogFile != "" {
		on, err := strconv.ParseBool(env.LogFile)
		if err != nil {
			return fmt.Errorf("MCPREFLECT_LOG_FILE: %w", err)
		}
		c.LogFile = on
	}
	if env.ServerName != "" {
		c.ServerName = env.ServerName
	}
	if env.ServerVersion != "" {
		c.ServerVersion = env.ServerVersion
	}
	if env.MaxLineBytes != 0 {
		c.MaxLineBytes = env.MaxLineBytes
	}
	return nil
}

// ParseLevel maps a level name ("debug", "info", "warn", "error", or forms
// like "info+2") to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
