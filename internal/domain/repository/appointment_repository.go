package repository

import (
	"context"
	"time"

	"hospital-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// ClaimSlot inserts the appointment only if its (doctor, date, slot)
	// key is not held by a non-cancelled appointment, as one atomic
	// statement. Returns false when the slot was already taken.
	ClaimSlot(ctx context.Context, appointment *entity.Appointment) (bool, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)

	// FindBookedStartTimes returns the slot labels of every non-cancelled
	// appointment for the doctor on the date.
	FindBookedStartTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)

	// Cancel atomically cancels an appointment only if it is not already
	// cancelled; returns affected rows (0 means it was already cancelled).
	Cancel(ctx context.Context, id uuid.UUID) (int64, error)
}
