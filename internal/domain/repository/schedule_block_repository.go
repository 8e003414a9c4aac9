package repository

import (
	"context"

	"hospital-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type ScheduleBlockRepository interface {
	Create(ctx context.Context, block *entity.ScheduleBlock) error
	FindByID(ctx context.Context, id int) (*entity.ScheduleBlock, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.ScheduleBlock, error)
	FindAll(ctx context.Context) ([]entity.ScheduleBlock, error)
	Update(ctx context.Context, block *entity.ScheduleBlock) error
	Delete(ctx context.Context, id int) (int64, error)
}
