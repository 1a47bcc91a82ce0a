package config

import (
	"fmt"
	"strings"
)

// Validate performs validation of the configuration before startup.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if !strings.Contains(c.Server.ListenAddr, ":") {
		return fmt.Errorf("server.listen_addr must be host:port, got %q", c.Server.ListenAddr)
	}

	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required (set VECTORPRESS_AUTH_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required (set VECTORPRESS_OPENAI_API_KEY)")
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}

	return nil
}
