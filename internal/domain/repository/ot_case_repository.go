package repository

import (
	"context"
	"time"

	"hospital-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// OtCaseFilter narrows OT case listings.
type OtCaseFilter struct {
	Status        entity.OtCaseStatus
	ScheduledDate *time.Time
	SurgeonID     *uuid.UUID
}

type OtCaseRepository interface {
	Create(ctx context.Context, otCase *entity.OtCase) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.OtCase, error)
	FindAll(ctx context.Context, filter *OtCaseFilter) ([]entity.OtCase, error)

	// UpdateStatus applies the transition only if the stored status still
	// equals expected, as one conditional statement; returns affected
	// rows (0 means a concurrent transition won).
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, target entity.OtCaseStatus) (int64, error)

	// UpdateSchedule rewrites scheduled date/time/room. Callers gate this
	// on the case still being reschedulable.
	UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay, otRoom string) error
}

type PhaseRecordRepository interface {
	// Upsert creates the (case, kind) record or updates its payload in
	// place, returning the persisted row.
	Upsert(ctx context.Context, record *entity.PhaseRecord) error

	FindByCase(ctx context.Context, caseID uuid.UUID) ([]entity.PhaseRecord, error)
	FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind entity.PhaseRecordKind) (*entity.PhaseRecord, error)
}

type CaseLogRepository interface {
	// Append inserts the entry with the next per-(case, kind) sequence
	// number and populates entry.ID and entry.Seq with the stored values.
	// Entries are immutable once written.
	Append(ctx context.Context, entry *entity.CaseLogEntry) error

	FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind entity.CaseLogKind) ([]entity.CaseLogEntry, error)
	FindByCase(ctx context.Context, caseID uuid.UUID) ([]entity.CaseLogEntry, error)
}
