// Package auth mints and verifies the bearer tokens guarding the mutating endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/lastmile-backend-go/internal/config"
)

var (
	// ErrDisabled is returned when no signing secret is configured
	ErrDisabled = errors.New("token auth is disabled: no jwt secret configured")
	// ErrInvalidToken is returned for malformed, expired or foreign tokens
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the registered claims carried by an API token
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer from the auth config
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL.Std(),
		now:    time.Now,
	}
}

// Enabled reports whether a secret is configured
func (i *Issuer) Enabled() bool {
	return len(i.secret) > 0
}

// Issue mints a token for subject
func (i *Issuer) Issue(subject string) (string, error) {
	if !i.Enabled() {
		return "", ErrDisabled
	}
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses raw and returns its claims
func (i *Issuer) Verify(raw string) (*Claims, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
