// Package config loads runtime settings from an optional .env file, an
// optional songle.yaml and SONGLE_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL        string `mapstructure:"base_url"`
		Key            string `mapstructure:"key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"api"`
	Storage struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"storage"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
}

// Timeout returns the HTTP client timeout for Songle calls.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Load reads configuration. envFiles default to ".env"; a missing file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			log.Printf("INFO config: loaded %s", f)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("SONGLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("api.base_url")
	v.BindEnv("api.key")
	v.BindEnv("api.timeout_seconds")
	v.BindEnv("storage.driver")
	v.BindEnv("storage.path")
	v.BindEnv("server.addr")

	v.SetDefault("api.base_url", "https://widget.songle.jp")
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout_seconds", 12)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "songle.db")
	v.SetDefault("server.addr", ":8080")

	v.SetConfigName("songle")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.songle")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read songle.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "sqlite", "none":
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}
