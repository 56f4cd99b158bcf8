package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go-inventory-tracker/pkg/model"
)

// SessionStore holds the client's proof of authentication: the token pair and
// a best-effort cached copy of the user profile. The server's /auth/me stays
// authoritative; the cached user is only a convenience for role checks.
//
// Setters have no error return on purpose: the store mirrors durable browser
// storage, where writes are fire-and-forget and a corrupt value is discovered
// on the next read, not at write time.
type SessionStore interface {
	SetTokens(access string, refresh string)
	AccessToken() string
	RefreshToken() string
	SetUser(u *model.SessionUser)
	User() *model.SessionUser
	IsAuthenticated() bool
	// Clear removes the tokens and the cached user. It reports whether an
	// access token was actually present, so callers can react to the
	// authenticated -> anonymous transition exactly once.
	Clear() bool
}

// MemorySessionStore keeps the session in process memory only.
type MemorySessionStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	user    *model.SessionUser
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) SetTokens(access string, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
}

func (s *MemorySessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemorySessionStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemorySessionStore) SetUser(u *model.SessionUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *MemorySessionStore) User() *model.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *MemorySessionStore) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *MemorySessionStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.access != ""
	s.access = ""
	s.refresh = ""
	s.user = nil
	return had
}

// Fixed keys of the persisted session blob. No schema versioning; a malformed
// user value deserializes permissively to a nil user.
const (
	sessionKeyAccessToken  = "access_token"
	sessionKeyRefreshToken = "refresh_token"
	sessionKeyUser         = "user"
)

// FileSessionStore persists the session as a JSON file of string values,
// surviving process restarts the way browser storage survives page reloads.
type FileSessionStore struct {
	mu   sync.RWMutex
	path string
	vals map[string]string
}

func NewFileSessionStore(path string) (*FileSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &FileSessionStore{path: path, vals: map[string]string{}}

	data, err := os.ReadFile(path)
	if err == nil {
		// Corrupt session files are treated as an empty session.
		_ = json.Unmarshal(data, &s.vals)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

func (s *FileSessionStore) SetTokens(access string, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[sessionKeyAccessToken] = access
	if refresh != "" {
		s.vals[sessionKeyRefreshToken] = refresh
	} else {
		delete(s.vals, sessionKeyRefreshToken)
	}
	s.saveLocked()
}

func (s *FileSessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals[sessionKeyAccessToken]
}

func (s *FileSessionStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals[sessionKeyRefreshToken]
}

func (s *FileSessionStore) SetUser(u *model.SessionUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		delete(s.vals, sessionKeyUser)
	} else {
		data, err := json.Marshal(u)
		if err != nil {
			return
		}
		s.vals[sessionKeyUser] = string(data)
	}
	s.saveLocked()
}

func (s *FileSessionStore) User() *model.SessionUser {
	s.mu.RLock()
	raw := s.vals[sessionKeyUser]
	s.mu.RUnlock()

	if raw == "" {
		return nil
	}

	var u model.SessionUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

func (s *FileSessionStore) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *FileSessionStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.vals[sessionKeyAccessToken] != ""
	delete(s.vals, sessionKeyAccessToken)
	delete(s.vals, sessionKeyRefreshToken)
	delete(s.vals, sessionKeyUser)
	s.saveLocked()
	return had
}

func (s *FileSessionStore) saveLocked() {
	data, err := json.MarshalIndent(s.vals, "", "  ")
	if err != nil {
		return
	}
	// Best effort, like browser storage. A failed write means the session
	// simply does not survive the next restart.
	_ = os.WriteFile(s.path, data, 0o600)
}
