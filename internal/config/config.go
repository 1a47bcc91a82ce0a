// Package config loads the vectorpress configuration from a YAML file with
// environment overrides for deployment secrets.
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/prompt-general/vectorpress/internal/api"
	"github.com/prompt-general/vectorpress/internal/auth"
	"github.com/prompt-general/vectorpress/internal/embedding"
	"github.com/prompt-general/vectorpress/internal/store"
)

// Config represents the overall application configuration.
type Config struct {
	Server    api.Config       `yaml:"server"`
	Store     store.Config     `yaml:"store"`
	Auth      auth.Config      `yaml:"auth"`
	Embedding embedding.Config `yaml:"embedding"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Server:    api.DefaultConfig(),
		Store:     store.DefaultConfig(),
		Auth:      auth.DefaultConfig(),
		Embedding: embedding.DefaultConfig(),
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads the configuration file at path, layers it over the defaults
// and applies environment overrides. A missing file is not an error; the
// defaults plus environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config file %s", path)
		}
	} else if !os.IsNotExist(err) {
		return cfg, errors.Wrapf(err, "read config file %s", path)
	}

	cfg.applyEnv()

	return cfg, nil
}

// applyEnv overrides file settings with VECTORPRESS_* environment
// variables. Secrets are expected to arrive this way in production.
func (c *Config) applyEnv() {
	if v := os.Getenv("VECTORPRESS_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("VECTORPRESS_DB_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("VECTORPRESS_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("VECTORPRESS_OPENAI_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("VECTORPRESS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Logger constructs the process-wide logger from the logging section. It is
// created once in main and passed by reference into every component.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout

	if c.Logging.Format == "text" {
		log.Formatter = &logrus.TextFormatter{}
	} else {
		log.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}

	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
