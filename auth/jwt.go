package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT mints a short-lived HS256 token per request. Intended for
// self-hosted inference gateways that verify a shared-secret JWT.
type JWT struct {
	// Secret is the HS256 signing secret.
	Secret []byte

	// Issuer is the iss claim. Optional.
	Issuer string

	// Subject is the sub claim. Optional.
	Subject string

	// TTL is the token lifetime. Default: 5 minutes
	TTL time.Duration

	// now is injectable for tests.
	now func() time.Time
}

var _ Credential = (*JWT)(nil)

// Apply mints a token and sets the Authorization header.
func (c *JWT) Apply(req *http.Request) error {
	token, err := c.Mint()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Mint signs a fresh token with iat/exp claims.
func (c *JWT) Mint() (string, error) {
	if len(c.Secret) == 0 {
		return "", ErrMissingKey
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	issued := now()
	claims := jwt.MapClaims{
		"iat": issued.Unix(),
		"exp": issued.Add(ttl).Unix(),
	}
	if c.Issuer != "" {
		claims["iss"] = c.Issuer
	}
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}
