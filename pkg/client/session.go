package client

import (
	"github.com/taskhive/core/internal/domain/entities"
)

// Session holds the credentials for one authenticated session. It is set on
// login or signup, cleared on logout, and torn down from anywhere a request
// comes back 401. The OnExpired hook lets the embedding application drop
// back to its unauthenticated view.
type Session struct {
	token     string
	user      *entities.User
	onExpired func()
}

// NewSession creates an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// SetOnExpired registers a hook invoked after the session is cleared because
// the server rejected its token.
func (s *Session) SetOnExpired(fn func()) {
	s.onExpired = fn
}

// Establish stores the token and user returned by a successful login.
func (s *Session) Establish(token string, user *entities.User) {
	s.token = token
	s.user = user
}

// Clear drops the stored credentials.
func (s *Session) Clear() {
	s.token = ""
	s.user = nil
}

// Token returns the bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	return s.token
}

// User returns the signed-in user, nil when unauthenticated.
func (s *Session) User() *entities.User {
	return s.user
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

func (s *Session) expire() {
	s.Clear()
	if s.onExpired != nil {
		s.onExpired()
	}
}
