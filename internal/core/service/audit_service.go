package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/youcode/ebanking-api/internal/core/domain"
	"github.com/youcode/ebanking-api/internal/core/ports"
)

const defaultAuditLimit = 50

// AuditService validates and persists audit events.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Process persists a single audit event. Events without an actor or action
// are rejected; a missing timestamp is filled with the current time.
func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if event.Actor == "" || event.Action == "" {
		return domain.ErrInvalidInput
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("persist audit event: %w", err)
	}

	s.logger.Debug().
		Str("actor", event.Actor).
		Str("action", event.Action).
		Msg("audit event recorded")
	return nil
}

// RecentByActor returns the most recent events for one actor, newest first.
func (s *AuditService) RecentByActor(ctx context.Context, actor string, limit int64) ([]domain.AuditEvent, error) {
	if actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.FindByActor(ctx, actor, limit)
}
