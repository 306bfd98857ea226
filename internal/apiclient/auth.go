package apiclient

import (
	"context"
	"encoding/json"

	"github.com/Rrens/storefront-assistant/internal/domain"
)

// Register creates a new account
func (c *Client) Register(ctx context.Context, input domain.UserCreate) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.post(ctx, "/auth/register", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, input domain.UserLogin) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.post(ctx, "/auth/login", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleLoginURL returns the address the browser is redirected to for Google sign-in
func (c *Client) GoogleLoginURL() string {
	return c.baseURL + "/auth/google-login"
}

// GetProfile returns the signed-in user's profile
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/auth/profile", nil, &raw); err != nil {
		return nil, err
	}
	return decodeObject[domain.User](raw, "user")
}

// UpdateProfile updates the signed-in user's profile
func (c *Client) UpdateProfile(ctx context.Context, input domain.ProfileUpdate) (*domain.User, error) {
	var raw json.RawMessage
	if err := c.put(ctx, "/auth/profile", input, &raw); err != nil {
		return nil, err
	}
	return decodeObject[domain.User](raw, "user")
}

// Logout invalidates the token server-side
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}
