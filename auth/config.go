package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config defines token and password hashing parameters.
type Config struct {
	JWTSecret     string `json:"jwt_secret"`
	TokenTTLHours int    `json:"token_ttl_hours"`
	BcryptCost    int    `json:"bcrypt_cost"`
}

// SetDefaults applies sane defaults. The token lifetime defaults to a week.
func (c *Config) SetDefaults() {
	if c.TokenTTLHours <= 0 {
		c.TokenTTLHours = 168
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("bcrypt_cost out of range")
	}
	return nil
}
