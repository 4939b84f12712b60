package config

import "fmt"

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
	// ReadTimeoutSeconds bounds request reads.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// WriteTimeoutSeconds bounds response writes.
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 15
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}
