// Package identity supplies the user the application is acting for.
package identity

import (
	"strings"
	"sync"
)

// Static is an identity holding at most one user. The zero value has no user.
type Static struct {
	mu     sync.RWMutex
	userID string
}

// NewStatic returns an identity signed in as userID. An empty id means no user.
func NewStatic(userID string) *Static {
	return &Static{userID: normalize(userID)}
}

// CurrentUser returns the signed-in user.
func (s *Static) CurrentUser() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// SignIn switches the current user.
func (s *Static) SignIn(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = normalize(userID)
}

// SignOut clears the current user.
func (s *Static) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
}

func normalize(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}
