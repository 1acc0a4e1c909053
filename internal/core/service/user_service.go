package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/youcode/ebanking-api/internal/core/domain"
	"github.com/youcode/ebanking-api/internal/core/ports"
)

// UserService implements registration, login, password and role management,
// and the admin CRUD over user accounts.
type UserService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	hasher    ports.PasswordHasher
	throttle  ports.LoginThrottle
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewUserService builds a UserService. throttle and audit may be nil; the
// service then skips failed-login throttling and audit recording.
func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	throttle ports.LoginThrottle,
	audit ports.AuditRecorder,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{
		users:     users,
		roles:     roles,
		hasher:    hasher,
		throttle:  throttle,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates a new account bound to the default ROLE_USER role.
// The password is hashed before anything touches the repository.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*ports.UserResult, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("resolve default role: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Enabled:      true,
		Role:         *role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(created.Username, domain.AuditUserRegistered, "")
	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return toUserResult(created), nil
}

// Login verifies credentials and issues a signed token carrying the caller's
// identity and role. Unknown usernames and wrong passwords are reported
// identically as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *ports.UserResult, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			// Throttle unavailability must not take logins down with it.
			s.logger.Warn().Err(err).Str("username", username).Msg("login throttle check failed")
		} else if blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, username, "unknown username")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		s.loginFailed(ctx, username, "wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.Enabled {
		s.record(username, domain.AuditLoginFailed, "account disabled")
		return "", nil, domain.ErrUserDisabled
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("login throttle reset failed")
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.record(username, domain.AuditLoginSucceeded, "")
	return token, toUserResult(user), nil
}

// ChangePassword replaces the caller's password hash. The same-password check
// runs before the current password is verified, so reusing a password is
// rejected even when the current password is wrong.
func (s *UserService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	if currentPassword == newPassword {
		return domain.ErrSamePassword
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !s.hasher.Matches(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.record(username, domain.AuditPasswordChanged, "")
	return nil
}

// ChangeRole replaces the user's role reference with the named role.
func (s *UserService) ChangeRole(ctx context.Context, username, roleName string) (*ports.UserResult, error) {
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Role = *role
	user.UpdatedAt = time.Now().UTC()
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(username, domain.AuditRoleChanged, roleName)
	s.logger.Info().Str("username", username).Str("role", roleName).Msg("user role changed")
	return toUserResult(updated), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]ports.UserResult, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ports.UserResult, 0, len(users))
	for i := range users {
		results = append(results, *toUserResult(&users[i]))
	}
	return results, nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (*ports.UserResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toUserResult(user), nil
}

func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}

	s.record(username, domain.AuditUserDeleted, "")
	s.logger.Info().Str("username", username).Msg("user deleted")
	return nil
}

func (s *UserService) loginFailed(ctx context.Context, username, detail string) {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("login throttle record failed")
		}
	}
	s.record(username, domain.AuditLoginFailed, detail)
}

func (s *UserService) record(actor, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Actor:     actor,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

func (s *UserService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role.Name,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func toUserResult(user *domain.User) *ports.UserResult {
	return &ports.UserResult{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     ports.RoleResult{Name: user.Role.Name},
		Enabled:  user.Enabled,
	}
}
