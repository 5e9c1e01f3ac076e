package dto

import (
	"time"

	"stayhub/internal/domain/user"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func MapUser(u *user.User) User {
	if u == nil {
		return User{}
	}
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return User{ID: string(u.ID), Email: u.Email, Name: u.Name, Roles: roles, CreatedAt: u.CreatedAt}
}
