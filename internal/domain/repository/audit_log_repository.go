package repository

import (
	"context"

	"hospital-backend/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *entity.AuditLog) error
}
