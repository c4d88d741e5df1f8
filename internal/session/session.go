// Package session carries the per-call caller context: who is asking, the
// token to present to the store, and the reference clock.
package session

import (
	"errors"
	"strings"

	"github.com/tally-dev/tally/internal/calendar"
)

// ErrMissingIdentity is returned when the user id or token is empty.
var ErrMissingIdentity = errors.New("missing user context or auth token")

// Identity is the part of a session a store needs.
type Identity struct {
	UserID string
	Token  string
}

// Session is created by the caller for a single operation and passed down
// explicitly. It is never stored globally.
type Session struct {
	UserID    string
	AuthToken string
	Clock     calendar.Clock
}

// New builds a session. A nil clock means the system clock in UTC.
func New(userID, token string, clock calendar.Clock) Session {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return Session{UserID: userID, AuthToken: token, Clock: clock}
}

// Validate reports ErrMissingIdentity when the user or token is blank.
func (s Session) Validate() error {
	if strings.TrimSpace(s.UserID) == "" || strings.TrimSpace(s.AuthToken) == "" {
		return ErrMissingIdentity
	}
	return nil
}

// Identity returns the store-facing identity.
func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Token: s.AuthToken}
}

// Today reads the session clock.
func (s Session) Today() calendar.Date {
	if s.Clock == nil {
		return calendar.SystemClock{}.Today()
	}
	return s.Clock.Today()
}
