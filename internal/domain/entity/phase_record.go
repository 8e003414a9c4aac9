package entity

import (
	"time"

	"github.com/google/uuid"
)

// PhaseRecordKind identifies one clinical form attached to an OT case.
// Each kind has exactly one editable record per case; saves are upserts
// keyed by (case_id, kind).
type PhaseRecordKind string

const (
	// Pre-op
	RecordKindCounselling    PhaseRecordKind = "counselling"
	RecordKindChecklist      PhaseRecordKind = "checklist"
	RecordKindPreAnaesthetic PhaseRecordKind = "pre_anaesthetic"
	RecordKindSafetyCheck    PhaseRecordKind = "safety_checklist"

	// Intra-op
	RecordKindAnaesthesiaRecord PhaseRecordKind = "anaesthesia_record"
	RecordKindSurgeonNotes      PhaseRecordKind = "surgeon_notes"

	// Post-op
	RecordKindPostOpAssessment PhaseRecordKind = "post_op_assessment"
	RecordKindNeonateSheet     PhaseRecordKind = "neonate_sheet"
)

func (k PhaseRecordKind) IsValid() bool {
	switch k {
	case RecordKindCounselling, RecordKindChecklist, RecordKindPreAnaesthetic,
		RecordKindSafetyCheck, RecordKindAnaesthesiaRecord, RecordKindSurgeonNotes,
		RecordKindPostOpAssessment, RecordKindNeonateSheet:
		return true
	}
	return false
}

// Phase returns which clinical phase the kind belongs to.
func (k PhaseRecordKind) Phase() string {
	switch k {
	case RecordKindCounselling, RecordKindChecklist, RecordKindPreAnaesthetic, RecordKindSafetyCheck:
		return "pre_op"
	case RecordKindAnaesthesiaRecord, RecordKindSurgeonNotes:
		return "intra_op"
	default:
		return "post_op"
	}
}

// ObstetricOnly reports whether the kind applies only to obstetric cases.
func (k PhaseRecordKind) ObstetricOnly() bool {
	return k == RecordKindNeonateSheet
}

// PhaseRecord is the persisted row behind a clinical form. The payload is
// a validated form struct (clinical_forms.go) serialized to JSONB; the
// (case_id, kind) pair is unique so saves are create-or-update in place.
type PhaseRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_phase_record_case_kind" json:"case_id"`
	Kind      PhaseRecordKind `gorm:"type:varchar(30);not null;uniqueIndex:idx_phase_record_case_kind" json:"kind"`
	Payload   JSON            `gorm:"type:jsonb;not null" json:"payload"`
	SavedBy   *uuid.UUID      `gorm:"type:uuid" json:"saved_by,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Case OtCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (PhaseRecord) TableName() string {
	return "phase_records"
}
