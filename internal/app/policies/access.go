package policies

import (
	"context"
	"errors"

	"stayhub/internal/domain/auth"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
)

var (
	ErrUnauthenticated = errors.New("policies: authentication required")
	ErrForbidden       = errors.New("policies: forbidden")
	// ErrNotOwned is reported as a missing resource so ids cannot be probed.
	ErrNotOwned = errors.New("policies: resource not owned by caller")
)

// RoleRestricted is implemented by commands and queries that require one of
// the listed roles.
type RoleRestricted interface {
	RequiredRoles() []user.Role
}

// RoleAccess authorizes messages against the principal in the context.
type RoleAccess struct{}

func (RoleAccess) Authorize(ctx context.Context, message any) error {
	restricted, ok := message.(RoleRestricted)
	if !ok {
		return nil
	}
	roles := restricted.RequiredRoles()
	if len(roles) == 0 {
		return nil
	}
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	for _, role := range roles {
		if principal.HasRole(role) {
			return nil
		}
	}
	return ErrForbidden
}

// HostRoles lets hosts and admins through.
func HostRoles() []user.Role {
	return []user.Role{user.RoleHost, user.RoleAdmin}
}

func AdminRoles() []user.Role {
	return []user.Role{user.RoleAdmin}
}

// EnsureOwner checks that the caller owns p; admins own everything.
func EnsureOwner(ctx context.Context, p *properties.Property) error {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if principal.IsAdmin() {
		return nil
	}
	if p == nil || string(p.Host) != string(principal.UserID) {
		return ErrNotOwned
	}
	return nil
}
