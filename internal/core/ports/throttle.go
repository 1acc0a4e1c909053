package ports

import "context"

// LoginThrottle counts failed login attempts per username and reports when a
// username has exceeded the allowed failure budget.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
