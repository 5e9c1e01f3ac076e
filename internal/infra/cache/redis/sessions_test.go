package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "stayhub/internal/domain/auth"
)

func TestKeysAreNamespaced(t *testing.T) {
	if sessionKey("abc") != "stayhub:session:abc" || userIndexKey("u1") != "stayhub:user_sessions:u1" {
		t.Fatalf("unexpected keys %s %s", sessionKey("abc"), userIndexKey("u1"))
	}
}

func TestSaveRejectsExpiredSession(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(NewClient(Options{Addr: "127.0.0.1:0"}))
	store.Now = func() time.Time { return now.Add(2 * time.Hour) }
	session, _ := domainauth.NewSession(domainauth.CreateSessionParams{Token: "t", UserID: "u1", TTL: time.Hour, Now: now})
	if err := store.Save(context.Background(), session); !errors.Is(err, domainauth.ErrTTLInvalid) {
		t.Fatalf("expected ErrTTLInvalid before touching redis, got %v", err)
	}
}
