// Package state holds the tab-lifetime client state: the session (current
// user) and the alarm list. Both are explicit injectable objects created at
// application start; nothing here lives in package-level variables. The UI
// drives them and re-reads their accessors after every operation.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseHydrating     Phase = "hydrating"
	PhaseReady         Phase = "ready"
)

// AuthService is the slice of the auth service the session depends on.
type AuthService interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.LoginResponse, error)
	Logout() error
}

// Session holds the current user and the derived authenticated flag. It is
// hydrated once at startup from the session store and mutated only by
// Login, Register, and Logout.
type Session struct {
	auth    AuthService
	store   *storage.SessionStore
	metrics *observability.Metrics
	logger  *slog.Logger

	mu    sync.RWMutex
	phase Phase
	user  *domain.User
}

// NewSession creates an uninitialized session. Call Hydrate before use.
func NewSession(auth AuthService, store *storage.SessionStore, metrics *observability.Metrics, logger *slog.Logger) *Session {
	return &Session{
		auth:    auth,
		store:   store,
		metrics: metrics,
		logger:  logger,
		phase:   PhaseUninitialized,
	}
}

// Hydrate restores the session from the store. The session becomes
// authenticated only when both the token and the user snapshot are present;
// anything less is an anonymous ready state.
func (s *Session) Hydrate() {
	s.mu.Lock()
	s.phase = PhaseHydrating
	s.mu.Unlock()

	token := s.store.Token()
	user := s.store.User()

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" && user != nil {
		s.user = user
		s.logger.Info("session hydrated", "user", user.Email)
	} else {
		s.user = nil
		s.logger.Info("session hydrated anonymous")
	}
	s.phase = PhaseReady
	s.publishGauge()
}

// Login authenticates and, on success, makes the returned user current.
// On failure the session is left untouched and the error propagates
// unmodified.
func (s *Session) Login(ctx context.Context, req domain.LoginRequest) error {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return err
	}
	s.setUser(resp.User)
	return nil
}

// Register creates an account with the same contract as Login.
func (s *Session) Register(ctx context.Context, req domain.RegisterRequest) error {
	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	s.setUser(resp.User)
	return nil
}

// Logout clears the persisted session and resets to anonymous. Navigation
// is the caller's responsibility.
func (s *Session) Logout() error {
	err := s.auth.Logout()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.publishGauge()
	return err
}

// User returns a copy of the current user, or nil when anonymous.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is current.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// CheckReadiness reports nil once the session has hydrated. Used by the
// watch-mode status server.
func (s *Session) CheckReadiness(_ context.Context) error {
	if s.Phase() != PhaseReady {
		return errNotHydrated
	}
	return nil
}

func (s *Session) setUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.phase = PhaseReady
	s.publishGauge()
}

// publishGauge must be called with mu held.
func (s *Session) publishGauge() {
	if s.user != nil {
		s.metrics.SessionAuthenticated.Set(1)
	} else {
		s.metrics.SessionAuthenticated.Set(0)
	}
}
