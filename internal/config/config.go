package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

// AppName names the per-user configuration directory
const AppName = "lessontictactoe"

type Config struct {
	LogLevel    string `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	GRPCPort    int    `yaml:"grpc-port" env:"TICTACTOE_GRPC_PORT" env-default:"50051"`
	HTTPPort    int    `yaml:"http-port" env:"TICTACTOE_HTTP_PORT" env-default:"8080"`
	Shards      int    `yaml:"shards" env:"TICTACTOE_SHARDS" env-default:"16"`
	TurnSeconds int    `yaml:"turn-seconds" env:"TICTACTOE_TURN_SECONDS" env-default:"10"`
}

// DefaultPath returns where the config file is expected to live
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yml")
}

// Load reads the config file at path, or the one found in the XDG config
// directories when path is empty. A missing default file is not an error:
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		found, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yml"))
		if err != nil {
			if err := cleanenv.ReadEnv(config); err != nil {
				return nil, fmt.Errorf("unable to read environment: %w", err)
			}
			return config, nil
		}
		path = found
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}
