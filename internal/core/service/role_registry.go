package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/youcode/ebanking-api/internal/core/domain"
	"github.com/youcode/ebanking-api/internal/core/ports"
)

// RoleRegistry provisions the closed set of roles at process start.
type RoleRegistry struct {
	roles  ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleRegistry(roles ports.RoleRepository, logger zerolog.Logger) *RoleRegistry {
	return &RoleRegistry{roles: roles, logger: logger}
}

// Ensure creates each required role when missing. Idempotent: running it any
// number of times leaves exactly one record per role name.
func (r *RoleRegistry) Ensure(ctx context.Context) error {
	for _, name := range domain.RoleNames {
		_, err := r.roles.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return fmt.Errorf("lookup role %s: %w", name, err)
		}

		if _, err := r.roles.Save(ctx, &domain.Role{Name: name}); err != nil {
			return fmt.Errorf("create role %s: %w", name, err)
		}
		r.logger.Info().Str("role", name).Msg("provisioned missing role")
	}
	return nil
}
