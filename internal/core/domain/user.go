package domain

import "time"

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// RoleNames is the closed set of role names provisioned at startup.
var RoleNames = []string{RoleUser, RoleAdmin}

// Role is a named capability tier. Every user references exactly one.
type Role struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Enabled      bool      `json:"enabled"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
