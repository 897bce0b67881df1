// Package config centralises configuration parsing for the service.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config captures runtime configuration values.
type Config struct {
	HTTPAddress  string        `envconfig:"HTTP_ADDRESS"  default:":8080"`
	StoragePath  string        `envconfig:"STORAGE_PATH"  default:"data/storage.json"`
	LogLevel     string        `envconfig:"LOG_LEVEL"     default:"info"`
	CORSOrigin   string        `envconfig:"CORS_ORIGIN"   default:"*"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT"  default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT"  default:"60s"`
}

// Load reads a .env file if present, then the environment, applying
// the defaults above.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("error loading .env file (continuing): %v", err)
		}
	} else {
		logger.Info("loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("healthtrack", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
