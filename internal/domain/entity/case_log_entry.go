package entity

import (
	"time"

	"github.com/google/uuid"
)

// CaseLogKind identifies one append-only clinical log of an OT case.
type CaseLogKind string

const (
	LogKindTimeLog         CaseLogKind = "time_log"
	LogKindMonitoringChart CaseLogKind = "monitoring_chart"
	LogKindLabourChart     CaseLogKind = "labour_chart"
)

func (k CaseLogKind) IsValid() bool {
	switch k {
	case LogKindTimeLog, LogKindMonitoringChart, LogKindLabourChart:
		return true
	}
	return false
}

// ObstetricOnly reports whether the log applies only to obstetric cases.
func (k CaseLogKind) ObstetricOnly() bool {
	return k == LogKindLabourChart
}

// CaseLogEntry is one immutable entry of an append-only case log. Entries
// are never edited or reordered after insertion; Seq is a per-case,
// per-kind monotonic sequence and reads always return insertion order.
type CaseLogEntry struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaseID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_case_log_seq" json:"case_id"`
	Kind       CaseLogKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_case_log_seq" json:"kind"`
	Seq        int         `gorm:"not null;uniqueIndex:idx_case_log_seq" json:"seq"`
	EventName  string      `gorm:"type:varchar(255);not null" json:"event_name"`
	Details    JSON        `gorm:"type:jsonb" json:"details,omitempty"`
	RecordedAt time.Time   `gorm:"not null" json:"recorded_at"`
	RecordedBy string      `gorm:"type:varchar(255)" json:"recorded_by,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Case OtCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (CaseLogEntry) TableName() string {
	return "case_log_entries"
}
