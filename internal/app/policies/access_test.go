package policies

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/domain/auth"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
)

type hostOnly struct{}

func (hostOnly) RequiredRoles() []user.Role { return HostRoles() }

type adminOnly struct{}

func (adminOnly) RequiredRoles() []user.Role { return AdminRoles() }

func TestRoleAccess(t *testing.T) {
	access := RoleAccess{}
	host := auth.ContextWithPrincipal(context.Background(), auth.Principal{UserID: "h1", Roles: []user.Role{user.RoleHost}})
	admin := auth.ContextWithPrincipal(context.Background(), auth.Principal{UserID: "a1", Roles: []user.Role{user.RoleAdmin}})

	if err := access.Authorize(context.Background(), struct{}{}); err != nil {
		t.Fatalf("unrestricted message rejected: %v", err)
	}
	if err := access.Authorize(context.Background(), hostOnly{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := access.Authorize(host, hostOnly{}); err != nil {
		t.Fatalf("host rejected: %v", err)
	}
	if err := access.Authorize(host, adminOnly{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := access.Authorize(admin, hostOnly{}); err != nil {
		t.Fatalf("admin rejected on host route: %v", err)
	}
}

func TestEnsureOwner(t *testing.T) {
	p := &properties.Property{ID: "p1", Host: "h1"}
	owner := auth.ContextWithPrincipal(context.Background(), auth.Principal{UserID: "h1", Roles: []user.Role{user.RoleHost}})
	other := auth.ContextWithPrincipal(context.Background(), auth.Principal{UserID: "h2", Roles: []user.Role{user.RoleHost}})
	admin := auth.ContextWithPrincipal(context.Background(), auth.Principal{UserID: "a1", Roles: []user.Role{user.RoleAdmin}})

	if err := EnsureOwner(owner, p); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := EnsureOwner(other, p); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
	if err := EnsureOwner(admin, p); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
}
