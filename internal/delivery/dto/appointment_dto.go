package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	Date        string    `json:"date" validate:"required"`      // Format: YYYY-MM-DD
	TimeSlot    string    `json:"time_slot" validate:"required"` // Format: HH:MM or H:MM AM/PM
	PatientName string    `json:"patient_name" validate:"required"`
	Phone       string    `json:"phone" validate:"required,min=7,max=20"`
	Department  string    `json:"department" validate:"omitempty"`
	Location    string    `json:"location" validate:"omitempty"`
	Reason      string    `json:"reason" validate:"omitempty"`
	Symptoms    string    `json:"symptoms" validate:"omitempty"`
}

// Response DTOs

type TimeSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location,omitempty"`
}

type SlotListResponse struct {
	DoctorID uuid.UUID          `json:"doctor_id"`
	Date     string             `json:"date"`
	Slots    []TimeSlotResponse `json:"slots"`
	Total    int                `json:"total"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	DoctorName   string    `json:"doctor_name,omitempty"`
	PatientID    uuid.UUID `json:"patient_id"`
	PatientName  string    `json:"patient_name"`
	PatientPhone string    `json:"patient_phone"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Department   string    `json:"department,omitempty"`
	Location     string    `json:"location,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Symptoms     string    `json:"symptoms,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
