package repository

import (
	"context"
	"errors"
	"time"

	"hospital-backend/internal/domain/entity"
	domainRepo "hospital-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// ClaimSlot performs the at-most-once slot claim as a single INSERT ... ON
// CONFLICT DO NOTHING against the partial unique index on (doctor_id,
// appointment_date, time_slot) WHERE status <> 'cancelled'. Two racing
// requests both reach the database; exactly one inserts a row, the other
// sees RowsAffected == 0. There is no read-then-write window.
func (r *appointmentRepository) ClaimSlot(ctx context.Context, appointment *entity.Appointment) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "doctor_id"}, {Name: "appointment_date"}, {Name: "time_slot"},
		},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Neq{Column: clause.Column{Name: "status"}, Value: string(entity.AppointmentStatusCancelled)},
		}},
		DoNothing: true,
	}).Create(appointment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor.User").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBookedStartTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	var slots []string
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status != ?",
			doctorID, date.Format("2006-01-02"), entity.AppointmentStatusCancelled).
		Pluck("time_slot", &slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Cancel atomically cancels an appointment ONLY if it's not already cancelled.
// Returns affected rows: 1 = success, 0 = already cancelled (prevents double-cancel race).
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status != ?", id, entity.AppointmentStatusCancelled).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}
