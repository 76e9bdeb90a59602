package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultServerURL   = "http://127.0.0.1:5000"
	DefaultMaxSize     = 800
	DefaultMinRectSize = 20
)

type Config struct {
	// Folder the file prompt opens in; empty means cwd.
	DefaultFolder string `koanf:"default_folder"`

	Server   ServerConfig   `koanf:"server"`
	Display  DisplayConfig  `koanf:"display"`
	Defaults DefaultsConfig `koanf:"defaults"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Batch    BatchConfig    `koanf:"batch"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig points the client at the processing service.
type ServerConfig struct {
	URL       string `koanf:"url"`        // e.g., "http://127.0.0.1:5000"
	Timeout   int    `koanf:"timeout"`    // seconds per request (default: 60)
	UserAgent string `koanf:"user_agent"` // sent with every request
}

// DisplayConfig controls the preview surface.
type DisplayConfig struct {
	MaxSize       int    `koanf:"max_size"`       // bound on the longer preview side (default: 800)
	MinRectSize   int    `koanf:"min_rect_size"`  // smallest accepted selection side in preview px (default: 20)
	Upscale       bool   `koanf:"upscale"`        // stretch small images up to max_size
	ImageProtocol string `koanf:"image_protocol"` // "auto", "kitty", "sixel", "halfblock", "none"
}

// DefaultsConfig holds the parameters a fresh session starts with.
type DefaultsConfig struct {
	Method     string `koanf:"method"`      // conversion method id (default: "luminosity")
	ResultType string `koanf:"result_type"` // cutout result type (default: "normal")
}

// BreakerConfig tunes the circuit breaker in front of the service.
type BreakerConfig struct {
	Threshold int `koanf:"threshold"` // consecutive failures before opening (default: 5)
	Cooldown  int `koanf:"cooldown"`  // seconds the breaker stays open (default: 30)
}

// BatchConfig bounds the headless convert command.
type BatchConfig struct {
	Concurrency int     `koanf:"concurrency"` // parallel requests (default: 4)
	Rate        float64 `koanf:"rate"`        // requests per second (default: 2)
}

// LogConfig selects where and how diagnostics are written.
type LogConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	File   string `koanf:"file"`   // empty means the XDG state dir
}

// Load reads the default config locations followed by any extra paths.
// Later files override earlier ones.
func Load(extraPaths ...string) (*Config, error) {
	paths := append(getConfigPaths(), extraPaths...)
	return loadFrom(paths)
}

func loadFrom(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		path = expandPath(path)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	// Normalize server URL (remove trailing slash)
	cfg.Server.URL = strings.TrimSuffix(cfg.Server.URL, "/")

	if env := os.Getenv("IPV_IMAGE_PROTOCOL"); env != "" {
		cfg.Display.ImageProtocol = env
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/ipv/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ipv", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetServerConfig returns the server configuration with defaults applied.
func (c *Config) GetServerConfig() ServerConfig {
	cfg := c.Server
	if cfg.URL == "" {
		cfg.URL = DefaultServerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ipv/1.0"
	}
	return cfg
}

// RequestTimeout is the per-request deadline for the processing service.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.GetServerConfig().Timeout) * time.Second
}

// GetDisplayConfig returns the display configuration with defaults applied.
func (c *Config) GetDisplayConfig() DisplayConfig {
	cfg := c.Display
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.MinRectSize <= 0 {
		cfg.MinRectSize = DefaultMinRectSize
	}
	switch strings.ToLower(cfg.ImageProtocol) {
	case "kitty", "sixel", "halfblock", "none":
		cfg.ImageProtocol = strings.ToLower(cfg.ImageProtocol)
	default:
		cfg.ImageProtocol = "auto"
	}
	return cfg
}

// GetDefaultsConfig returns the session defaults. Values are validated by
// the params package; here only empty fields are filled.
func (c *Config) GetDefaultsConfig() DefaultsConfig {
	cfg := c.Defaults
	if cfg.Method == "" {
		cfg.Method = "luminosity"
	}
	if cfg.ResultType == "" {
		cfg.ResultType = "normal"
	}
	return cfg
}

// GetBreakerConfig returns the breaker configuration with defaults applied.
func (c *Config) GetBreakerConfig() BreakerConfig {
	cfg := c.Breaker
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30
	}
	return cfg
}

// GetBatchConfig returns the batch configuration with defaults applied.
func (c *Config) GetBatchConfig() BatchConfig {
	cfg := c.Batch
	if cfg.Concurrency <= 0 || cfg.Concurrency > 32 {
		cfg.Concurrency = 4
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 2
	}
	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
// An empty File is resolved by the logging package.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	switch cfg.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		cfg.Level = "info"
	}
	if cfg.Format != "console" {
		cfg.Format = "json"
	}
	return cfg
}
