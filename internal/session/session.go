// Package session tracks the single live token per user. A token that
// verifies cryptographically is still rejected unless it equals the stored
// pointer.
package session

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("no active session")

// Store holds one token per user id.
type Store interface {
	Set(ctx context.Context, userID, token string) error
	Get(ctx context.Context, userID string) (string, error)
	Clear(ctx context.Context, userID string) error
}

// IsCurrent reports whether token is the user's live session.
func IsCurrent(ctx context.Context, s Store, userID, token string) (bool, error) {
	current, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return current != "" && current == token, nil
}
