package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateOtCaseRequest struct {
	PatientID         uuid.UUID  `json:"patient_id" validate:"required"`
	SurgeonID         uuid.UUID  `json:"surgeon_id" validate:"required"`
	AnaesthetistID    *uuid.UUID `json:"anaesthetist_id" validate:"omitempty"`
	ProcedureName     string     `json:"procedure_name" validate:"required"`
	ProcedureCode     string     `json:"procedure_code" validate:"omitempty"`
	Diagnosis         string     `json:"diagnosis" validate:"omitempty"`
	SurgeryType       string     `json:"surgery_type" validate:"omitempty"`
	EstimatedDuration int        `json:"estimated_duration" validate:"omitempty,min=1"`
	ScheduledDate     string     `json:"scheduled_date" validate:"required"` // Format: YYYY-MM-DD
	ScheduledTime     string     `json:"scheduled_time" validate:"omitempty"`
	OtRoom            string     `json:"ot_room" validate:"omitempty"`
	Priority          string     `json:"priority" validate:"omitempty,oneof=elective urgent emergency"`
}

type TransitionOtCaseRequest struct {
	TargetStatus string `json:"target_status" validate:"required"`
}

type RescheduleOtCaseRequest struct {
	ScheduledDate string `json:"scheduled_date" validate:"required"`
	ScheduledTime string `json:"scheduled_time" validate:"omitempty"`
	OtRoom        string `json:"ot_room" validate:"omitempty"`
}

type UpsertPhaseRecordRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type AppendLogEntryRequest struct {
	EventName  string                 `json:"event_name" validate:"required"`
	Details    map[string]interface{} `json:"details" validate:"omitempty"`
	RecordedAt *time.Time             `json:"recorded_at" validate:"omitempty"`
	RecordedBy string                 `json:"recorded_by" validate:"omitempty"`
}

// Response DTOs

type OtCaseResponse struct {
	ID                uuid.UUID  `json:"id"`
	PatientID         uuid.UUID  `json:"patient_id"`
	PatientName       string     `json:"patient_name"`
	UHID              string     `json:"uhid"`
	Age               int        `json:"age"`
	Gender            string     `json:"gender"`
	SurgeonID         uuid.UUID  `json:"surgeon_id"`
	SurgeonName       string     `json:"surgeon_name"`
	AnaesthetistID    *uuid.UUID `json:"anaesthetist_id,omitempty"`
	AnaesthetistName  string     `json:"anaesthetist_name,omitempty"`
	ProcedureName     string     `json:"procedure_name"`
	ProcedureCode     string     `json:"procedure_code,omitempty"`
	Diagnosis         string     `json:"diagnosis,omitempty"`
	SurgeryType       string     `json:"surgery_type,omitempty"`
	EstimatedDuration int        `json:"estimated_duration"`
	ScheduledDate     string     `json:"scheduled_date"`
	ScheduledTime     string     `json:"scheduled_time,omitempty"`
	OtRoom            string     `json:"ot_room,omitempty"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type OtCaseListResponse struct {
	Cases []OtCaseResponse `json:"cases"`
	Total int              `json:"total"`
}

type PhaseRecordResponse struct {
	ID        uuid.UUID              `json:"id"`
	CaseID    uuid.UUID              `json:"case_id"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type CaseLogEntryResponse struct {
	ID         uuid.UUID              `json:"id"`
	Seq        int                    `json:"seq"`
	EventName  string                 `json:"event_name"`
	Details    map[string]interface{} `json:"details,omitempty"`
	RecordedAt time.Time              `json:"recorded_at"`
	RecordedBy string                 `json:"recorded_by,omitempty"`
}

type CaseLogResponse struct {
	Kind    string                 `json:"kind"`
	Entries []CaseLogEntryResponse `json:"entries"`
	Total   int                    `json:"total"`
}

// PhaseStatusResponse is the derived per-phase completeness indicator.
type PhaseStatusResponse struct {
	PreOp   string `json:"pre_op"`
	IntraOp string `json:"intra_op"`
	PostOp  string `json:"post_op"`
}

// FullOtCaseResponse is the aggregate read: case, per-kind records, logs
// and derived phase statuses.
type FullOtCaseResponse struct {
	Case    OtCaseResponse                    `json:"case"`
	Phases  PhaseStatusResponse               `json:"phases"`
	Records map[string]PhaseRecordResponse    `json:"records"`
	Logs    map[string][]CaseLogEntryResponse `json:"logs"`
}
