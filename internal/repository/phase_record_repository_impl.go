package repository

import (
	"context"
	"errors"

	"hospital-backend/internal/domain/entity"
	domainRepo "hospital-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type phaseRecordRepository struct {
	db *gorm.DB
}

func NewPhaseRecordRepository(db *gorm.DB) domainRepo.PhaseRecordRepository {
	return &phaseRecordRepository{db: db}
}

// Upsert creates the record or, if one already exists for (case_id, kind),
// replaces its payload in place. One statement; the unique index owns the
// conflict detection.
func (r *phaseRecordRepository) Upsert(ctx context.Context, record *entity.PhaseRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "case_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "saved_by", "updated_at"}),
	}).Create(record).Error
}

func (r *phaseRecordRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]entity.PhaseRecord, error) {
	var records []entity.PhaseRecord
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("kind ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *phaseRecordRepository) FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind entity.PhaseRecordKind) (*entity.PhaseRecord, error) {
	var record entity.PhaseRecord
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND kind = ?", caseID, kind).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

type caseLogRepository struct {
	db *gorm.DB
}

func NewCaseLogRepository(db *gorm.DB) domainRepo.CaseLogRepository {
	return &caseLogRepository{db: db}
}

// Append inserts the entry with the next sequence number for its
// (case, kind) log. The subselect and insert run in one statement, so two
// concurrent appends cannot take the same seq: the loser violates the
// unique index and is retried once. The generated id and seq are scanned
// back into the entry for the caller.
func (r *caseLogRepository) Append(ctx context.Context, entry *entity.CaseLogEntry) error {
	insert := func() error {
		return r.db.WithContext(ctx).Raw(`
			INSERT INTO case_log_entries
				(id, case_id, kind, seq, event_name, details, recorded_at, recorded_by, created_at)
			VALUES (
				gen_random_uuid(), ?, ?,
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM case_log_entries WHERE case_id = ? AND kind = ?),
				?, ?, ?, ?, NOW()
			)
			RETURNING id, seq`,
			entry.CaseID, entry.Kind, entry.CaseID, entry.Kind,
			entry.EventName, entry.Details, entry.RecordedAt, entry.RecordedBy,
		).Scan(entry).Error
	}

	err := insert()
	if err != nil && isUniqueViolation(err) {
		err = insert()
	}
	return err
}

func (r *caseLogRepository) FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind entity.CaseLogKind) ([]entity.CaseLogEntry, error) {
	var entries []entity.CaseLogEntry
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND kind = ?", caseID, kind).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *caseLogRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]entity.CaseLogEntry, error) {
	var entries []entity.CaseLogEntry
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("kind ASC, seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
