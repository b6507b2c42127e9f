package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration.
// Search order: path -> ~/.game2048/config.yaml -> ./configs/config.yaml -> embedded default
//
// Values missing from the file keep their defaults. An explicit path that
// cannot be read is an error; the fallback locations are skipped silently
// when absent.
func Load(path string) (*Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return parse(data, path)
	}

	for _, candidate := range []string{userConfigPath(), filepath.Join("configs", "config.yaml")} {
		if candidate == "" {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		return parse(data, candidate)
	}

	return parse(defaultConfigYAML, "embedded")
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	return parse(data, "inline")
}

func parse(data []byte, source string) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", source, err)
	}

	cfg.Source = source
	return cfg, nil
}

// userConfigPath returns the per-user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".game2048", "config.yaml")
}

// ApplyEnv overrides values from the environment. getenv is usually
// os.Getenv; empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("GAME2048_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("GAME2048_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GAME2048_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	if v := getenv("GAME2048_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("GAME2048_LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := getenv("GAME2048_SCORES_DB"); v != "" {
		c.Scores.DBPath = v
	}
	if v := getenv("NGROK_AUTHTOKEN"); v != "" {
		c.Ngrok.AuthToken = v
	}
	if v := getenv("NGROK_DOMAIN"); v != "" {
		c.Ngrok.Domain = v
	}
	if v := getenv("NGROK_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: NGROK_ENABLED=%q is not a boolean", ErrInvalidConfig, v)
		}
		c.Ngrok.Enabled = enabled
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
