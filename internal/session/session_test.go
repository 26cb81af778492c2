package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_ = store.Save(ctx, Session{ID: "a", UserID: "u1", ExpiresAt: now.Add(time.Hour)})
	_ = store.Save(ctx, Session{ID: "b", UserID: "u2", ExpiresAt: now.Add(-time.Minute)})

	s, err := store.Lookup(ctx, "a")
	if err != nil || s.UserID != "u1" {
		t.Fatalf("Lookup(a) = %+v, %v", s, err)
	}
	if _, err := store.Lookup(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	now = now.Add(2 * time.Hour)
	dropped, _ := store.Sweep(ctx)
	if dropped != 2 {
		t.Errorf("Sweep dropped %d, want 2", dropped)
	}
}

func TestMemoryStore_ExpiredLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, Session{ID: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)})
	if _, err := store.Lookup(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, Session{ID: "a", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	_ = store.Delete(ctx, "a")
	if _, err := store.Lookup(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSigner_RoundTrip(t *testing.T) {
	signer := NewSigner("test-secret")
	token, err := signer.Sign(Session{ID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sid, uid, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sid != "sid" || uid != "u1" {
		t.Errorf("Verify = %q, %q", sid, uid)
	}
}

func TestSigner_Rejects(t *testing.T) {
	signer := NewSigner("test-secret")

	expired, _ := signer.Sign(Session{ID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(-time.Hour)})
	if _, _, err := signer.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v", err)
	}

	other, _ := NewSigner("other-secret").Sign(Session{ID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	if _, _, err := signer.Verify(other); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token: got %v", err)
	}

	if _, _, err := signer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v", err)
	}
}
