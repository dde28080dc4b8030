// Package storage persists the tab-lifetime session state: the auth token,
// the user snapshot, and the push subscription. Each key is one small JSON
// file under a state directory, namespaced the way the browser build
// namespaces its localStorage keys.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
)

// Namespaced key files. Cleared together on logout or an auth failure.
const (
	tokenFile        = "weather_alarm_token"
	userFile         = "weather_alarm_user.json"
	subscriptionFile = "weather_alarm_push_subscription.json"
)

// SessionStore is a process-wide key-value wrapper over the state directory.
// A store created with an empty directory has no backing storage: writes
// succeed without effect and reads report absence. Reads of malformed
// content also report absence rather than an error, so a corrupted file
// behaves like a missing one.
type SessionStore struct {
	dir string
	mu  sync.RWMutex
}

// New creates a session store rooted at dir. An empty dir yields a no-op
// store. The directory is created on first write.
func New(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

// Token returns the persisted auth token, or "" when absent.
func (s *SessionStore) Token() string {
	raw := s.read(tokenFile)
	return string(raw)
}

// SetToken persists the auth token.
func (s *SessionStore) SetToken(token string) error {
	return s.write(tokenFile, []byte(token))
}

// RemoveToken deletes the persisted auth token.
func (s *SessionStore) RemoveToken() error {
	return s.remove(tokenFile)
}

// User returns the persisted user snapshot, or nil when absent or malformed.
func (s *SessionStore) User() *domain.User {
	raw := s.read(userFile)
	if raw == nil {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

// SetUser persists the user snapshot.
func (s *SessionStore) SetUser(u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.write(userFile, raw)
}

// RemoveUser deletes the persisted user snapshot.
func (s *SessionStore) RemoveUser() error {
	return s.remove(userFile)
}

// PushSubscription returns the persisted subscription, or nil when absent
// or malformed.
func (s *SessionStore) PushSubscription() *domain.PushSubscription {
	raw := s.read(subscriptionFile)
	if raw == nil {
		return nil
	}
	var sub domain.PushSubscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil
	}
	return &sub
}

// SetPushSubscription persists the push subscription.
func (s *SessionStore) SetPushSubscription(sub domain.PushSubscription) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	return s.write(subscriptionFile, raw)
}

// RemovePushSubscription deletes the persisted subscription.
func (s *SessionStore) RemovePushSubscription() error {
	return s.remove(subscriptionFile)
}

// ClearAll removes every session key. Removal errors are joined so one
// failing key does not keep the others from being cleared.
func (s *SessionStore) ClearAll() error {
	return errors.Join(
		s.RemoveToken(),
		s.RemoveUser(),
		s.RemovePushSubscription(),
	)
}

func (s *SessionStore) read(name string) []byte {
	if s.dir == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil
	}
	return raw
}

func (s *SessionStore) write(name string, raw []byte) error {
	if s.dir == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *SessionStore) remove(name string) error {
	if s.dir == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
