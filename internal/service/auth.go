// Package service maps REST client calls to the typed request and response
// shapes of the backend: authentication, alarm CRUD, and push registration.
package service

import (
	"context"
	"log/slog"

	"github.com/JokerTrickster/weather-alarm/internal/adapter/api"
	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

// Auth handles registration, login, and password recovery. Successful
// registration and login persist the token and user snapshot so the next
// start hydrates into an authenticated session.
type Auth struct {
	client *api.Client
	store  *storage.SessionStore
	logger *slog.Logger
}

// NewAuth creates the auth service.
func NewAuth(client *api.Client, store *storage.SessionStore, logger *slog.Logger) *Auth {
	return &Auth{client: client, store: store, logger: logger}
}

// Register creates an account and signs the user in. Only email and
// password travel to the backend; the confirmation field is a form-level
// concern checked before this call.
func (a *Auth) Register(ctx context.Context, req domain.RegisterRequest) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := a.client.Post(ctx, epRegister, req, &resp); err != nil {
		return domain.LoginResponse{}, err
	}
	a.persist(resp)
	return resp, nil
}

// Login authenticates with the backend and persists the session.
func (a *Auth) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := a.client.Post(ctx, epLogin, req, &resp); err != nil {
		return domain.LoginResponse{}, err
	}
	a.persist(resp)
	return resp, nil
}

// Logout drops every persisted session key. It performs no navigation and
// no backend call; the token simply stops being attached.
func (a *Auth) Logout() error {
	return a.store.ClearAll()
}

// ResetPassword asks the backend to mail a reset link.
func (a *Auth) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	return a.client.Post(ctx, epResetPassword, req, nil)
}

// UpdatePassword completes a reset using the mailed token.
func (a *Auth) UpdatePassword(ctx context.Context, req domain.UpdatePasswordRequest) error {
	return a.client.Post(ctx, epUpdatePassword, req, nil)
}

// IsAuthenticated reports whether a token is persisted.
func (a *Auth) IsAuthenticated() bool {
	return a.store.Token() != ""
}

// CurrentUser returns the persisted user snapshot, if any.
func (a *Auth) CurrentUser() *domain.User {
	return a.store.User()
}

// persist stores the token and user. The session stays valid in memory even
// if the write fails, so persistence errors are logged, not surfaced.
func (a *Auth) persist(resp domain.LoginResponse) {
	if err := a.store.SetToken(resp.Token); err != nil {
		a.logger.Warn("persist token failed", "error", err)
	}
	if err := a.store.SetUser(resp.User); err != nil {
		a.logger.Warn("persist user failed", "error", err)
	}
}
