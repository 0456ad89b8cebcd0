// Package auth orchestrates identity operations against the backend: login,
// registration, logout, and profile updates. It is the only writer of the
// session store besides the API client's 401 handler.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/domain"
	"github.com/passage-hq/passage/pkg/session"
)

// Route is the navigation target produced by a successful login.
type Route string

const (
	RouteStudentDashboard Route = "dashboard"
	RouteAdminInbox       Route = "admin"
)

// RouteFor returns the post-login destination for a role.
func RouteFor(role domain.Role) Route {
	if role == domain.RoleAdmin {
		return RouteAdminInbox
	}
	return RouteStudentDashboard
}

// Error is an identity-operation failure with a message fit for display.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Service carries out login, registration, and logout.
type Service struct {
	client *api.Client
	store  *session.Store
}

// New creates an auth service over the given client and store.
func New(client *api.Client, store *session.Store) *Service {
	return &Service{client: client, store: store}
}

// Login exchanges credentials for a token, fetches the profile with it, and
// persists both as one session. The profile fetch is strictly sequenced after
// token acquisition. On any failure the client token is rolled back and the
// store is left without a partial session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, Route, error) {
	token, err := s.client.Token(ctx, email, password)
	if err != nil {
		if api.IsStatus(err, 400) || api.IsStatus(err, 401) {
			return nil, "", &Error{Message: "Invalid email or password", Err: err}
		}
		return nil, "", &Error{Message: "Could not reach the server. Check your connection and try again.", Err: err}
	}

	s.client.SetToken(token)
	profile, err := s.client.Me(ctx)
	if err != nil {
		s.client.ClearToken()
		return nil, "", &Error{Message: "Signed in, but your profile could not be loaded. Try again.", Err: err}
	}

	user := normalizeUser(profile)
	if err := s.store.Save(token, user); err != nil {
		s.client.ClearToken()
		return nil, "", &Error{Message: "Could not save your session.", Err: err}
	}

	return user, RouteFor(user.Role), nil
}

// Register creates an account. It does not log the new user in; the caller
// should return to the sign-in view on success.
func (s *Service) Register(ctx context.Context, reg api.RegisterRequest) error {
	if err := s.client.Register(ctx, reg); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return &Error{Message: apiErr.Message, Err: err}
		}
		return &Error{Message: "Registration failed. Try again.", Err: err}
	}
	return nil
}

// UpdateProfile pushes edited profile fields to the backend and replaces the
// cached user wholesale on success.
func (s *Service) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error) {
	profile, err := s.client.UpdateProfile(ctx, req)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, &Error{Message: apiErr.Message, Err: err}
		}
		return nil, &Error{Message: "Profile update failed. Try again.", Err: err}
	}

	user := normalizeUser(profile)
	if sess := s.store.Load(); sess.Token != "" {
		if err := s.store.Save(sess.Token, user); err != nil {
			return nil, &Error{Message: "Profile updated, but the local session could not be refreshed.", Err: err}
		}
	}
	return user, nil
}

// RefreshProfile re-fetches the dashboard profile and refreshes the cached
// user, keeping the token as is.
func (s *Service) RefreshProfile(ctx context.Context) (*domain.User, error) {
	profile, err := s.client.Profile(ctx)
	if err != nil {
		return nil, &Error{Message: "Could not refresh your profile.", Err: err}
	}

	user := normalizeUser(profile)
	if sess := s.store.Load(); sess.Token != "" {
		if err := s.store.Save(sess.Token, user); err != nil {
			return nil, &Error{Message: "Profile loaded, but the local session could not be refreshed.", Err: err}
		}
	}
	return user, nil
}

// Logout discards the session. It never fails and needs no network access.
func (s *Service) Logout() {
	s.store.Clear() //nolint:errcheck // best-effort; a stale file is re-cleared on next login
	s.client.ClearToken()
}

// normalizeUser converts the backend's profile payload into the canonical
// User shape. Some backend routes send a single display name instead of
// first/last; normalizing here keeps fallback logic out of the views.
func normalizeUser(p *api.ProfileResponse) *domain.User {
	first, last := p.FirstName, p.LastName
	if first == "" && last == "" {
		if parts := strings.Fields(p.Name); len(parts) > 0 {
			first = parts[0]
			last = strings.Join(parts[1:], " ")
		}
	}
	return &domain.User{
		ID:        p.ID,
		FirstName: first,
		LastName:  last,
		Email:     p.Email,
		Role:      domain.ParseRole(p.Role),
		Course:    p.Course,
	}
}
