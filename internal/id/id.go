// Package id generates record identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces fresh record ids.
type Generator interface {
	NewID() string
}

// UUID generates random version-4 UUIDs.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID() string { return New() }

// New returns a random UUID string.
func New() string {
	return uuid.New().String()
}

// Validate checks that s is a well-formed UUID.
func Validate(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid record id %q: %w", s, err)
	}
	return nil
}

// Sequence yields predictable ids ("<prefix>-1", "<prefix>-2", ...).
// It is not safe for concurrent use.
type Sequence struct {
	Prefix string
	n      int
}

// NewID implements Generator.
func (s *Sequence) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}
