package cli

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the environment variable pointing at an optional
// YAML config file. Without it, configuration comes from the environment
// alone.
const EnvConfigPath = "ALARMSTORE_CONFIG"

// Config holds settings resolvable outside of flags. Flags win over
// config; config wins over defaults.
type Config struct {
	Database string `yaml:"database" env:"ALARMSTORE_DB" env-default:"alarmstore.db"`
}

// LoadConfig resolves configuration from the optional config file and the
// environment.
func LoadConfig() (Config, error) {
	var cfg Config

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
