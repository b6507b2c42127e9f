package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

// Config is the complete server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
	Scores ScoresConfig `yaml:"scores"`
	Ngrok  NgrokConfig  `yaml:"ngrok"`

	// Source is the file the configuration was read from, "embedded" for the
	// built-in defaults.
	Source string `yaml:"-"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GameConfig holds defaults applied to requests that omit them.
type GameConfig struct {
	DefaultSize     int     `yaml:"default_size"`
	DefaultWinTile  int     `yaml:"default_win_tile"`
	FourProbability float64 `yaml:"four_probability"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, logfmt
}

// ScoresConfig enables the scoreboard when DBPath is set.
type ScoresConfig struct {
	DBPath string `yaml:"db_path"`
}

// Enabled reports whether a scoreboard database is configured.
func (s ScoresConfig) Enabled() bool {
	return s.DBPath != ""
}

// NgrokConfig configures the optional public tunnel.
type NgrokConfig struct {
	Enabled   bool   `yaml:"enabled"`
	AuthToken string `yaml:"authtoken"`
	Domain    string `yaml:"domain"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBodyBytes: 64 << 10,
		},
		Game: GameConfig{
			DefaultSize:     engine.DefaultBoardSize,
			DefaultWinTile:  engine.DefaultWinTile,
			FourProbability: engine.DefaultFourProbability,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Source: "embedded",
	}
}

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 0 and 65535, got %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalidConfig)
	}

	if err := engine.ValidateSize(c.Game.DefaultSize); err != nil {
		return fmt.Errorf("%w: game.default_size: %v", ErrInvalidConfig, err)
	}
	if err := engine.ValidateWinTile(c.Game.DefaultWinTile); err != nil {
		return fmt.Errorf("%w: game.default_win_tile: %v", ErrInvalidConfig, err)
	}
	if c.Game.FourProbability < 0 || c.Game.FourProbability > 1 {
		return fmt.Errorf("%w: game.four_probability must be within [0,1], got %v", ErrInvalidConfig, c.Game.FourProbability)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log.format must be text, json or logfmt, got %q", ErrInvalidConfig, c.Log.Format)
	}

	if c.Ngrok.Enabled && c.Ngrok.AuthToken == "" {
		return fmt.Errorf("%w: ngrok.enabled requires ngrok.authtoken (or NGROK_AUTHTOKEN)", ErrInvalidConfig)
	}
	return nil
}
