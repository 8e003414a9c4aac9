package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a patient's claim on one time slot. At most one
// non-cancelled appointment may exist per (doctor_id, appointment_date,
// time_slot); the partial unique index idx_appointments_slot_claim in the
// migrations enforces it at the data layer.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientName     string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone    string            `gorm:"type:varchar(20);not null" json:"patient_phone"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	TimeSlot        string            `gorm:"type:varchar(10);not null" json:"time_slot"` // HH:MM, 24-hour
	Department      string            `gorm:"type:varchar(100)" json:"department,omitempty"`
	Location        string            `gorm:"type:varchar(100)" json:"location,omitempty"`
	Reason          string            `gorm:"type:text" json:"reason,omitempty"`
	Symptoms        string            `gorm:"type:text" json:"symptoms,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// OccupiesSlot reports whether the appointment still blocks its slot.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != AppointmentStatusCancelled
}
