package service

import (
	"context"

	"hospital-backend/internal/domain/entity"
	"hospital-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService records who did what. Writes are best-effort: a failed
// audit row is logged and never rolls back the mutation it describes.
type AuditService interface {
	Record(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, metadata entity.JSON)
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, metadata entity.JSON) {
	if metadata == nil {
		metadata = entity.JSON{}
	}
	metadata["entity"] = entityName
	metadata["entity_id"] = entityID

	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log for %s (non-fatal): %+v", action, err)
	}
}
