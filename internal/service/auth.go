package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rrens/storefront-assistant/internal/authstate"
	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/security"
	"github.com/rs/zerolog/log"
)

// AuthAPI is the part of the storefront API used by the auth flows
type AuthAPI interface {
	Register(ctx context.Context, input domain.UserCreate) (*domain.AuthResult, error)
	Login(ctx context.Context, input domain.UserLogin) (*domain.AuthResult, error)
	GoogleLoginURL() string
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, input domain.ProfileUpdate) (*domain.User, error)
	Logout(ctx context.Context) error
}

// AuthService handles signup, login, logout and profile flows
type AuthService struct {
	api     AuthAPI
	session *authstate.Manager
}

// NewAuthService creates a new auth service
func NewAuthService(api AuthAPI, session *authstate.Manager) *AuthService {
	return &AuthService{
		api:     api,
		session: session,
	}
}

// Register creates an account and signs in when the API returns a token
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := security.ValidateInput(input); err != nil {
		return nil, err
	}

	result, err := s.api.Register(ctx, input)
	if err != nil {
		return nil, err
	}

	if result.Token != "" {
		if err := s.session.SignIn(ctx, result.Token, result.User); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Login exchanges credentials for a token and signs in
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := security.ValidateInput(input); err != nil {
		return nil, err
	}

	result, err := s.api.Login(ctx, input)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, errors.New("login response did not include a token")
	}

	if err := s.session.SignIn(ctx, result.Token, result.User); err != nil {
		return nil, err
	}

	log.Debug().Str("email", input.Email).Msg("Signed in")
	return result.User, nil
}

// GoogleLoginURL returns the address that starts Google sign-in
func (s *AuthService) GoogleLoginURL() string {
	return s.api.GoogleLoginURL()
}

// CompleteOAuth stores the token handed back by the OAuth redirect and
// loads the matching profile. The token is kept even if the profile fails.
func (s *AuthService) CompleteOAuth(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token is required")
	}

	if err := s.session.SignIn(ctx, token, nil); err != nil {
		return nil, err
	}

	user, err := s.Profile(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Signed in but failed to load profile")
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

// Logout tells the API to drop the token and always clears local state
func (s *AuthService) Logout(ctx context.Context) error {
	if s.session.IsAuthenticated(ctx) {
		if err := s.api.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("Server logout failed, clearing local session anyway")
		}
	}
	return s.session.SignOut(ctx)
}

// Profile fetches the profile and refreshes the stored copy
func (s *AuthService) Profile(ctx context.Context) (*domain.User, error) {
	user, err := s.api.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile saves profile changes and refreshes the stored copy
func (s *AuthService) UpdateProfile(ctx context.Context, input domain.ProfileUpdate) (*domain.User, error) {
	if input.Name == nil && input.Phone == nil && input.Address == nil {
		return nil, errors.New("nothing to update")
	}
	if err := security.ValidateInput(input); err != nil {
		return nil, err
	}

	user, err := s.api.UpdateProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.session.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
