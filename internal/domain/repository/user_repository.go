package repository

import (
	"context"

	"hospital-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type PatientProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.PatientProfile, error)
	FindByUHID(ctx context.Context, uhid string) (*entity.PatientProfile, error)
}

type DoctorProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error)
}
