package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateScheduleBlockRequest struct {
	DoctorID     uuid.UUID `json:"doctor_id" validate:"required"`
	DayOfWeek    *int      `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	SpecificDate string    `json:"specific_date" validate:"omitempty"` // Format: YYYY-MM-DD
	StartTime    string    `json:"start_time" validate:"required"`     // Format: HH:MM
	EndTime      string    `json:"end_time" validate:"required"`       // Format: HH:MM
	Location     string    `json:"location" validate:"omitempty"`
	IsAvailable  *bool     `json:"is_available" validate:"omitempty"`
}

type UpdateScheduleBlockRequest struct {
	DayOfWeek    *int   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	SpecificDate string `json:"specific_date" validate:"omitempty"`
	StartTime    string `json:"start_time" validate:"omitempty"`
	EndTime      string `json:"end_time" validate:"omitempty"`
	Location     string `json:"location" validate:"omitempty"`
	IsAvailable  *bool  `json:"is_available" validate:"omitempty"`
}

// Response DTOs

type ScheduleBlockResponse struct {
	ID           int       `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	DayOfWeek    *int      `json:"day_of_week,omitempty"`
	SpecificDate string    `json:"specific_date,omitempty"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Location     string    `json:"location,omitempty"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ScheduleBlockListResponse struct {
	Blocks []ScheduleBlockResponse `json:"blocks"`
	Total  int                     `json:"total"`
}
