package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "./configs/server.yaml"

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Game    GameConfig    `yaml:"game"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"` // Empty allows any origin
}

// GameConfig describes the game a session starts
type GameConfig struct {
	PlayerCount int      `yaml:"player_count"`
	PlayerNames []string `yaml:"player_names"`
	Seed        int64    `yaml:"seed"` // 0 seeds from the clock
	WinScore    int      `yaml:"win_score"`
}

// AuthConfig holds seat token settings
type AuthConfig struct {
	Secret          string `yaml:"secret"` // Empty disables seat tokens (hot-seat)
	Issuer          string `yaml:"issuer"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// Enabled reports whether seat tokens are in use
func (a AuthConfig) Enabled() bool { return a.Secret != "" }

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address   string `yaml:"address"` // Empty keeps seats in memory
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SessionConfig holds per-connection limits
type SessionConfig struct {
	CommandRate  float64 `yaml:"command_rate"` // commands per second
	CommandBurst int     `yaml:"command_burst"`
	SendBuffer   int     `yaml:"send_buffer"`
}

// HistoryConfig holds the results ledger settings
type HistoryConfig struct {
	Path        string `yaml:"path"` // Empty disables the ledger
	RecentLimit int    `yaml:"recent_limit"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when path is the
// default location and does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil && path == DefaultPath && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Game.PlayerCount == 0 {
		c.Game.PlayerCount = 3
	}
	if c.Game.WinScore == 0 {
		c.Game.WinScore = 10
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "nectar"
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 720
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "nectar:"
	}
	if c.Session.CommandRate == 0 {
		c.Session.CommandRate = 5
	}
	if c.Session.CommandBurst == 0 {
		c.Session.CommandBurst = 10
	}
	if c.Session.SendBuffer == 0 {
		c.Session.SendBuffer = 256
	}
	if c.History.RecentLimit == 0 {
		c.History.RecentLimit = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Game.PlayerCount < 2 || c.Game.PlayerCount > 6 {
		return fmt.Errorf("game.player_count must be between 2 and 6, got %d", c.Game.PlayerCount)
	}
	if len(c.Game.PlayerNames) > c.Game.PlayerCount {
		return fmt.Errorf("game.player_names has %d names for %d players", len(c.Game.PlayerNames), c.Game.PlayerCount)
	}
	if c.Game.WinScore < 1 {
		return fmt.Errorf("game.win_score must be positive, got %d", c.Game.WinScore)
	}
	if c.Session.CommandRate < 0 || c.Session.CommandBurst < 0 || c.Session.SendBuffer < 0 {
		return errors.New("session limits must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
