// Package session maps the browser's opaque session cookie to the
// backend bearer token. Nothing else is stored server-side; every page
// still fetches the profile fresh from the backend.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	// Create stores a new session holding the backend token and
	// returns it with a fresh opaque ID.
	Create(ctx context.Context, token string) (*Session, error)
	// Get returns the session for an ID, or ErrNotFound if the ID is
	// unknown or the session has expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

func newSession(token string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: time.Now(),
	}
}
