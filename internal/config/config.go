// Package config loads metricconv settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"metricconverter/internal/logging"
)

type Config struct {
	// Table is an HCL table file or SQLite catalog replacing the built-in
	// table. Empty means built-in.
	Table   string         `yaml:"table"`
	Server  ServerConfig   `yaml:"server"`
	Logging logging.Config `yaml:"logging"`
}

type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Codec string `yaml:"codec"` // msgpack or protobuf
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:  "127.0.0.1:2001",
			Codec: "msgpack",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads the YAML file at path on top of Default. A .env file next to
// it is loaded first, and ${VAR} references in the YAML are expanded.
// Variables already set in the environment win over .env entries.
func Load(path string) (Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: load %s: %w", path, err)
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	switch c.Server.Codec {
	case "msgpack", "protobuf":
	default:
		return fmt.Errorf("config: unknown server.codec %q", c.Server.Codec)
	}
	return nil
}
