package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshLeeway is how long before expiry a management token is re-minted
const refreshLeeway = time.Minute

// Credentials yields the bearer credential for provider requests
type Credentials interface {
	Bearer() (string, error)
}

// StaticCredentials is a pre-issued bearer key
type StaticCredentials string

func (s StaticCredentials) Bearer() (string, error) {
	if s == "" {
		return "", errors.New("empty provider api key")
	}
	return string(s), nil
}

// ManagementCredentials mints HS256 management tokens from an access key and app secret
type ManagementCredentials struct {
	accessKey string
	appSecret []byte
	ttl       time.Duration
	now       func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewManagementCredentials creates a token minter; ttl <= 0 defaults to 24h
func NewManagementCredentials(accessKey, appSecret string, ttl time.Duration) *ManagementCredentials {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ManagementCredentials{
		accessKey: accessKey,
		appSecret: []byte(appSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Bearer returns the cached token, minting a new one when it is close to expiry
func (m *ManagementCredentials) Bearer() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.token != "" && now.Add(refreshLeeway).Before(m.expiresAt) {
		return m.token, nil
	}

	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"access_key": m.accessKey,
		"type":       "management",
		"version":    2,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"exp":        expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.appSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign management token: %w", err)
	}

	m.token = signed
	m.expiresAt = expiresAt
	return signed, nil
}
