package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleManager
}

// UserAuth is the users row including the password hash. It never leaves the auth layer.
type UserAuth struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Ref copies the fields that are snapshotted into the session at login.
func (u *UserAuth) Ref() UserRef {
	return UserRef{ID: u.ID, Email: u.Email, Role: u.Role}
}

// UserRef is the user snapshot stored in the session. It is not re-read from the store per request, so a role
// change only takes effect for the affected user after their next login.
type UserRef struct {
	ID    int64
	Email string
	Role  Role
}

func (u UserRef) Valid() bool {
	return u.Email != "" && u.Role.Valid()
}

func (u UserRef) IsManager() bool {
	return u.Role == RoleManager
}

// NormalizeEmail lower-cases and trims an address the way every lookup and insert expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
