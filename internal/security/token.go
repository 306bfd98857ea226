package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the bearer token claims shown to the user
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenInfo is what the client can learn from a token without the signing key
type TokenInfo struct {
	Subject   string
	Email     string
	Name      string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
// Tokens without an exp claim never expire here.
func (i *TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect decodes the claims of a JWT without verifying its signature.
// The result is for display only; authentication state never depends on it.
func Inspect(tokenString string) (*TokenInfo, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	return info, nil
}
