package ports

import "context"

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RoleResult is the outward projection of a role.
type RoleResult struct {
	Name string
}

// UserResult is the outward projection of a user. It never carries the
// password hash.
type UserResult struct {
	ID       string
	Username string
	Email    string
	Role     RoleResult
	Enabled  bool
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*UserResult, error)
	Login(ctx context.Context, username, password string) (string, *UserResult, error)
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
	ChangeRole(ctx context.Context, username, roleName string) (*UserResult, error)
	ListUsers(ctx context.Context) ([]UserResult, error)
	GetUser(ctx context.Context, username string) (*UserResult, error)
	DeleteUser(ctx context.Context, username string) error
}
