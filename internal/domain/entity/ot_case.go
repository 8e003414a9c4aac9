package entity

import (
	"time"

	"github.com/google/uuid"
)

// OtCaseStatus represents where a surgical case sits in its lifecycle.
//
// State transitions:
//
//	scheduled → in_prep → in_progress → completed
//	scheduled | in_prep → cancelled
//	scheduled | in_prep → postponed → scheduled (reschedule)
type OtCaseStatus string

const (
	OtCaseStatusScheduled  OtCaseStatus = "scheduled"
	OtCaseStatusInPrep     OtCaseStatus = "in_prep"
	OtCaseStatusInProgress OtCaseStatus = "in_progress"
	OtCaseStatusCompleted  OtCaseStatus = "completed"
	OtCaseStatusCancelled  OtCaseStatus = "cancelled"
	OtCaseStatusPostponed  OtCaseStatus = "postponed"
)

func (s OtCaseStatus) IsValid() bool {
	switch s {
	case OtCaseStatusScheduled, OtCaseStatusInPrep, OtCaseStatusInProgress,
		OtCaseStatusCompleted, OtCaseStatusCancelled, OtCaseStatusPostponed:
		return true
	}
	return false
}

// OtCasePriority classifies scheduling urgency of a case
type OtCasePriority string

const (
	OtCasePriorityElective  OtCasePriority = "elective"
	OtCasePriorityUrgent    OtCasePriority = "urgent"
	OtCasePriorityEmergency OtCasePriority = "emergency"
)

func (p OtCasePriority) IsValid() bool {
	switch p {
	case OtCasePriorityElective, OtCasePriorityUrgent, OtCasePriorityEmergency:
		return true
	}
	return false
}

// PhaseStatus is the derived completeness indicator of one clinical phase.
// It is computed from the case and its sub-records, never stored.
type PhaseStatus string

const (
	PhaseStatusPending  PhaseStatus = "pending"
	PhaseStatusActive   PhaseStatus = "active"
	PhaseStatusComplete PhaseStatus = "complete"
)

// OtCase represents a scheduled surgical procedure tracked through
// pre-op, intra-op and post-op phases.
type OtCase struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientName       string         `gorm:"type:varchar(255);not null" json:"patient_name"`
	UHID              string         `gorm:"column:uhid;type:varchar(20);not null;index" json:"uhid"`
	Age               int            `gorm:"not null" json:"age"`
	Gender            string         `gorm:"type:char(1);not null" json:"gender"`
	SurgeonID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"surgeon_id"`
	SurgeonName       string         `gorm:"type:varchar(255);not null" json:"surgeon_name"`
	AnaesthetistID    *uuid.UUID     `gorm:"type:uuid;index" json:"anaesthetist_id,omitempty"`
	AnaesthetistName  string         `gorm:"type:varchar(255)" json:"anaesthetist_name,omitempty"`
	ProcedureName     string         `gorm:"type:varchar(255);not null" json:"procedure_name"`
	ProcedureCode     string         `gorm:"type:varchar(50)" json:"procedure_code,omitempty"`
	Diagnosis         string         `gorm:"type:text" json:"diagnosis,omitempty"`
	SurgeryType       string         `gorm:"type:varchar(100)" json:"surgery_type,omitempty"`
	EstimatedDuration int            `gorm:"not null;default:60" json:"estimated_duration"` // minutes
	ScheduledDate     time.Time      `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime     string         `gorm:"type:varchar(10)" json:"scheduled_time,omitempty"` // HH:MM
	OtRoom            string         `gorm:"type:varchar(50)" json:"ot_room,omitempty"`
	Priority          OtCasePriority `gorm:"type:varchar(20);not null;default:'elective';index" json:"priority"`
	Status            OtCaseStatus   `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Surgeon DoctorProfile  `gorm:"foreignKey:SurgeonID" json:"surgeon,omitempty"`
}

func (OtCase) TableName() string {
	return "ot_cases"
}

// otCaseTransitions is the complete transition table. Any pair absent here
// is illegal.
var otCaseTransitions = map[OtCaseStatus][]OtCaseStatus{
	OtCaseStatusScheduled:  {OtCaseStatusInPrep, OtCaseStatusCancelled, OtCaseStatusPostponed},
	OtCaseStatusInPrep:     {OtCaseStatusInProgress, OtCaseStatusCancelled, OtCaseStatusPostponed},
	OtCaseStatusInProgress: {OtCaseStatusCompleted},
	OtCaseStatusCompleted:  {},
	OtCaseStatusCancelled:  {},
	OtCaseStatusPostponed:  {OtCaseStatusScheduled},
}

// CanTransitionTo reports whether the status change is in the transition
// table.
func (c *OtCase) CanTransitionTo(target OtCaseStatus) bool {
	for _, s := range otCaseTransitions[c.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// RoleMayTransition reports whether the actor role is allowed to drive
// status transitions at all. Legality of the specific transition is a
// separate check and callers must apply this one first.
func RoleMayTransition(roleID int) bool {
	return roleID == RoleIDAdmin || roleID == RoleIDDoctor
}

// IsReschedulable reports whether scheduled date/time/room may still be
// edited. Once a case leaves scheduled, its slot is fixed; postponed cases
// are waiting for a new date.
func (c *OtCase) IsReschedulable() bool {
	return c.Status == OtCaseStatusScheduled || c.Status == OtCaseStatusPostponed
}

// IsObstetric reports whether obstetric-only sub-records (labour chart,
// neonate sheet) apply to this case.
func (c *OtCase) IsObstetric() bool {
	return c.SurgeryType == "obstetric"
}

// PreOpPhaseStatus derives the pre-op indicator: complete once the
// checklist record exists.
func (c *OtCase) PreOpPhaseStatus(hasChecklist bool) PhaseStatus {
	if hasChecklist {
		return PhaseStatusComplete
	}
	if c.Status == OtCaseStatusInPrep {
		return PhaseStatusActive
	}
	return PhaseStatusPending
}

// IntraOpPhaseStatus derives the intra-op indicator: complete once surgeon
// notes exist, active while the case is in progress without them.
func (c *OtCase) IntraOpPhaseStatus(hasSurgeonNotes bool) PhaseStatus {
	if hasSurgeonNotes {
		return PhaseStatusComplete
	}
	if c.Status == OtCaseStatusInProgress {
		return PhaseStatusActive
	}
	return PhaseStatusPending
}

// PostOpPhaseStatus derives the post-op indicator from case status alone.
func (c *OtCase) PostOpPhaseStatus() PhaseStatus {
	if c.Status == OtCaseStatusCompleted {
		return PhaseStatusComplete
	}
	return PhaseStatusPending
}
