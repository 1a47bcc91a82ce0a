package api

import (
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents gateway configuration.
type Config struct {
	ListenAddr       string        `yaml:"listen_addr"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	EnableCORS       bool          `yaml:"enable_cors"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	EnablePlayground bool          `yaml:"enable_playground"`
}

// DefaultConfig returns default gateway configuration.
func DefaultConfig() Config {
	return Config{
		ListenAddr:       "0.0.0.0:8080",
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		IdleTimeout:      120 * time.Second,
		EnableCORS:       true,
		AllowedOrigins:   []string{"*"},
		EnablePlayground: true,
	}
}

// UnmarshalYAML decodes durations from strings like "30s" and leaves fields
// the file does not mention at their current (default) values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		ListenAddr       string   `yaml:"listen_addr"`
		ReadTimeout      string   `yaml:"read_timeout"`
		WriteTimeout     string   `yaml:"write_timeout"`
		IdleTimeout      string   `yaml:"idle_timeout"`
		EnableCORS       *bool    `yaml:"enable_cors"`
		AllowedOrigins   []string `yaml:"allowed_origins"`
		EnablePlayground *bool    `yaml:"enable_playground"`
	}

	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}

	if r.ListenAddr != "" {
		c.ListenAddr = r.ListenAddr
	}
	for _, d := range []struct {
		raw    string
		target *time.Duration
		field  string
	}{
		{r.ReadTimeout, &c.ReadTimeout, "read_timeout"},
		{r.WriteTimeout, &c.WriteTimeout, "write_timeout"},
		{r.IdleTimeout, &c.IdleTimeout, "idle_timeout"},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return errors.Wrapf(err, "parse server.%s", d.field)
		}
		*d.target = parsed
	}
	if r.EnableCORS != nil {
		c.EnableCORS = *r.EnableCORS
	}
	if r.AllowedOrigins != nil {
		c.AllowedOrigins = r.AllowedOrigins
	}
	if r.EnablePlayground != nil {
		c.EnablePlayground = *r.EnablePlayground
	}

	return nil
}
