// Package session maps opaque session ids to user ids and signs the tokens
// handed to clients.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Session is a server-side login record
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions
type Store interface {
	Save(ctx context.Context, s Session) error
	Lookup(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	// Sweep removes expired sessions and reports how many were dropped
	Sweep(ctx context.Context) (int, error)
}
