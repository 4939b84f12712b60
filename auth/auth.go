// Package auth issues and verifies the bearer tokens consumed by the API
// and hashes account passwords.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyflow/studyflow/core/model"
)

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID string     `json:"uid"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens and handles password hashing.
type Manager struct {
	secret []byte
	ttl    time.Duration
	cost   int
}

// NewManager creates a Manager from the configuration.
func NewManager(cfg Config) *Manager {
	cfg.SetDefaults()
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.TokenTTLHours) * time.Hour,
		cost:   cfg.BcryptCost,
	}
}

// SignToken issues a token for the user.
func (m *Manager) SignToken(u model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyBearer parses an Authorization header value and returns the verified
// claims.
func (m *Manager) VerifyBearer(header string) (*Claims, error) {
	if header == "" {
		return nil, fmt.Errorf("missing auth header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fmt.Errorf("invalid auth header")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash of the password.
func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func (m *Manager) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
