// Package store defines the persistence port the assistant writes records
// to and reads entries from.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
)

// ErrUnauthorized means the store rejected the caller's identity.
var ErrUnauthorized = errors.New("unauthorized")

// Store persists records per owner.
type Store interface {
	Create(ctx context.Context, who session.Identity, rec model.Record) (model.Record, error)
	List(ctx context.Context, who session.Identity, kind model.Kind) ([]model.Entry, error)
}

// UpstreamError is a non-success answer from a store.
type UpstreamError struct {
	Op     string // "create" or "list"
	Kind   model.Kind
	Status int // HTTP-like status, 0 when not applicable
	Reason string
	Err    error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Op, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Overloaded reports a rate-limit or resource-exhaustion answer.
func (e *UpstreamError) Overloaded() bool {
	return e.Status == 429 || strings.Contains(strings.ToLower(e.Error()), "resource")
}

// Authorize checks that who names a user and, when owner is set, that the
// record belongs to that user.
func Authorize(who session.Identity, owner string) error {
	if strings.TrimSpace(who.UserID) == "" {
		return ErrUnauthorized
	}
	if owner != "" && owner != who.UserID {
		return fmt.Errorf("record owner %q: %w", owner, ErrUnauthorized)
	}
	return nil
}

// CheckOwner rejects owner ids that are empty or could escape a directory.
func CheckOwner(owner string) error {
	if owner == "" || owner == "." || owner == ".." || strings.ContainsAny(owner, `/\`) {
		return fmt.Errorf("invalid owner id %q", owner)
	}
	return nil
}
