package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/repositories"
)

// AuditService writes and reads the audit trail
type AuditService struct {
	repo   repositories.IAuditRepository
	logger zerolog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo repositories.IAuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an audit entry. A failed write is logged and does not fail the
// operation that triggered it.
func (s *AuditService) Record(ctx context.Context, actor Actor, action, table string, recordID int64, description string) {
	err := s.repo.Append(ctx, models.AuditRecord{
		UserID:      actor.userID(),
		Action:      action,
		Table:       table,
		RecordID:    recordID,
		Description: description,
		IPAddress:   actor.IP,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("action", action).Str("table", table).Msg("Audit log write failed")
	}
}

// Recent returns the latest audit entries, newest first
func (s *AuditService) Recent(ctx context.Context) ([]models.AuditLogEntry, error) {
	entries, err := s.repo.ListRecent(ctx, AuditLogLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	return entries, nil
}
