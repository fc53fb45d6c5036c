package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from an optional YAML file and environment
// variables. Environment variables use the SPLITLEDGER_ prefix with
// underscores for nesting, e.g. SPLITLEDGER_SERVER_ADDR.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", "data/splitledger.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allowedorigins", []string{"*"})

	v.SetEnvPrefix("SPLITLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		// A missing default config file is fine, defaults and env apply.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	return &cfg, nil
}
