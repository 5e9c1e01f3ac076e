package security

import (
	"errors"
	"strings"
	"testing"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := h.Compare(hash, "correct horse"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := h.Compare("not-a-hash", "wrong"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("corrupt hash should not look like a wrong password, got %v", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	g := RandomTokenGenerator{}
	a, _ := g.NewToken()
	b, _ := g.NewToken()
	if a == "" || a == b || len(a) != 43 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}

func TestBcryptRefusesLongPasswords(t *testing.T) {
	if _, err := (BcryptHasher{Cost: 4}).Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestTokensCarryPrefix(t *testing.T) {
	tok, err := RandomTokenGenerator{Prefix: "sh_", Size: 16}.NewToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if !strings.HasPrefix(tok, "sh_") || len(tok) != 3+22 {
		t.Fatalf("unexpected token %q", tok)
	}
}
