package models

import (
	"strings"
	"time"
)

// User is a registered account in the credential store.
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserCreateRequest is what the auth service hands to the repository.
type UserCreateRequest struct {
	Name         string
	Email        string
	PasswordHash string
}

// NormalizeEmail trims surrounding whitespace. Case is preserved so that
// lookups behave the same as the service this replaces.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
