package client

import (
	"context"
	"fmt"

	"go-inventory-tracker/pkg/model"
)

// AuthService drives the session lifecycle: anonymous -> authenticating ->
// authenticated, and back to anonymous on logout or any backend rejection.
type AuthService struct {
	client *Client
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a token pair. The access token is stored
// as soon as it arrives; the user profile comes from the login response when
// the server inlines it, otherwise from a single follow-up /auth/me fetch.
// If that recovery attempt yields no user the session is torn down again —
// the store never stays "authenticated with no user".
func (s *AuthService) Login(ctx context.Context, creds model.LoginRequest) (*model.SessionUser, error) {
	var pair model.TokenPair
	if err := s.client.post(ctx, "/auth/login", creds, &pair); err != nil {
		return nil, err
	}

	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in response", ErrAuthIncomplete)
	}

	s.client.session.SetTokens(pair.AccessToken, pair.RefreshToken)

	if pair.User != nil {
		s.client.session.SetUser(pair.User)
		return pair.User, nil
	}

	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.client.session.Clear()
		return nil, fmt.Errorf("%w: no user profile after login", ErrAuthIncomplete)
	}
	return user, nil
}

// CurrentUser returns the authoritative profile for the cached token. With no
// token it answers nil immediately and never touches the network. A failed
// fetch clears the whole session and also answers nil: this is the one place
// a stale or expired token gets invalidated client-side.
func (s *AuthService) CurrentUser(ctx context.Context) (*model.SessionUser, error) {
	if s.client.session.AccessToken() == "" {
		return nil, nil
	}

	var user model.SessionUser
	if err := s.client.get(ctx, "/auth/me", nil, &user); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.client.session.Clear()
		return nil, nil
	}

	s.client.session.SetUser(&user)
	return &user, nil
}

// Register creates an account. It does not log the new user in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.SessionUser, error) {
	var user model.SessionUser
	if err := s.client.post(ctx, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout notifies the server on a best-effort basis, then unconditionally
// clears the local session. Server failures are swallowed; locally the user
// is logged out either way.
func (s *AuthService) Logout(ctx context.Context) {
	if s.client.session.IsAuthenticated() {
		body := model.RefreshRequest{RefreshToken: s.client.session.RefreshToken()}
		_ = s.client.post(ctx, "/auth/logout", body, nil)
	}
	s.client.session.Clear()
}

// HasRole reports whether the cached user holds the given role. No cached
// user means no role.
func (s *AuthService) HasRole(role string) bool {
	user := s.client.session.User()
	return user != nil && user.Role == role
}

func (s *AuthService) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if s.HasRole(role) {
			return true
		}
	}
	return false
}
