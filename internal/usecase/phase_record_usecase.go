package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-backend/internal/converter"
	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"
	"hospital-backend/internal/domain/repository"
	"hospital-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownRecordKind  = errors.New("unknown phase record kind")
	ErrUnknownLogKind     = errors.New("unknown case log kind")
	ErrNotObstetricCase   = errors.New("record applies only to obstetric cases")
	ErrRecordNotFound     = errors.New("phase record not found")
	ErrInvalidFormPayload = errors.New("invalid form payload")
)

type PhaseRecordUsecase interface {
	UpsertRecord(ctx context.Context, caseID uuid.UUID, kind string, req *dto.UpsertPhaseRecordRequest) (*dto.PhaseRecordResponse, error)
	GetRecord(ctx context.Context, caseID uuid.UUID, kind string) (*dto.PhaseRecordResponse, error)
	AppendLog(ctx context.Context, caseID uuid.UUID, kind string, req *dto.AppendLogEntryRequest) (*dto.CaseLogEntryResponse, error)
	GetLog(ctx context.Context, caseID uuid.UUID, kind string) (*dto.CaseLogResponse, error)
}

type phaseRecordUsecase struct {
	log         *logrus.Logger
	caseRepo    repository.OtCaseRepository
	recordRepo  repository.PhaseRecordRepository
	caseLogRepo repository.CaseLogRepository
	audit       service.AuditService
}

func NewPhaseRecordUsecase(
	log *logrus.Logger,
	caseRepo repository.OtCaseRepository,
	recordRepo repository.PhaseRecordRepository,
	caseLogRepo repository.CaseLogRepository,
	audit service.AuditService,
) PhaseRecordUsecase {
	return &phaseRecordUsecase{
		log:         log,
		caseRepo:    caseRepo,
		recordRepo:  recordRepo,
		caseLogRepo: caseLogRepo,
		audit:       audit,
	}
}

// UpsertRecord saves one clinical form against a case. The payload is
// decoded into the typed form for the kind and validated before anything
// touches the database; derived values (recovery score totals) are
// recomputed server-side, never trusted from the client. Saving the same
// kind again replaces the payload in place.
func (u *phaseRecordUsecase) UpsertRecord(ctx context.Context, caseID uuid.UUID, kind string, req *dto.UpsertPhaseRecordRequest) (*dto.PhaseRecordResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	recordKind := entity.PhaseRecordKind(kind)
	if !recordKind.IsValid() {
		return nil, ErrUnknownRecordKind
	}

	otCase, err := u.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find ot case %s: %+v", caseID, err)
		return nil, err
	}
	if otCase == nil {
		return nil, ErrCaseNotFound
	}

	if recordKind.ObstetricOnly() && !otCase.IsObstetric() {
		return nil, ErrNotObstetricCase
	}

	form, err := entity.DecodePhaseForm(recordKind, req.Payload)
	if err != nil {
		u.log.Warnf("Rejected %s payload for case %s: %+v", recordKind, caseID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormPayload, err)
	}

	payload, err := entity.FormToJSON(form)
	if err != nil {
		return nil, err
	}

	record := &entity.PhaseRecord{
		CaseID:  caseID,
		Kind:    recordKind,
		Payload: payload,
		SavedBy: &userID,
	}

	if err := u.recordRepo.Upsert(ctx, record); err != nil {
		u.log.Warnf("Failed to upsert %s record for case %s: %+v", recordKind, caseID, err)
		return nil, err
	}

	u.audit.Record(ctx, &userID, entity.AuditActionPhaseRecordUpsert, "phase_record", record.ID.String(), entity.JSON{
		"case_id": caseID.String(),
		"kind":    string(recordKind),
	})

	u.log.Infof("Phase record saved: case=%s, kind=%s", caseID, recordKind)
	return converter.PhaseRecordToResponse(record), nil
}

func (u *phaseRecordUsecase) GetRecord(ctx context.Context, caseID uuid.UUID, kind string) (*dto.PhaseRecordResponse, error) {
	recordKind := entity.PhaseRecordKind(kind)
	if !recordKind.IsValid() {
		return nil, ErrUnknownRecordKind
	}

	record, err := u.recordRepo.FindByCaseAndKind(ctx, caseID, recordKind)
	if err != nil {
		u.log.Warnf("Failed to find %s record for case %s: %+v", recordKind, caseID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	return converter.PhaseRecordToResponse(record), nil
}

// AppendLog inserts one immutable entry at the tail of a case log.
// Entries get the next per-(case, kind) sequence number and are never
// edited afterwards.
func (u *phaseRecordUsecase) AppendLog(ctx context.Context, caseID uuid.UUID, kind string, req *dto.AppendLogEntryRequest) (*dto.CaseLogEntryResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	logKind := entity.CaseLogKind(kind)
	if !logKind.IsValid() {
		return nil, ErrUnknownLogKind
	}

	otCase, err := u.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find ot case %s: %+v", caseID, err)
		return nil, err
	}
	if otCase == nil {
		return nil, ErrCaseNotFound
	}

	if logKind.ObstetricOnly() && !otCase.IsObstetric() {
		return nil, ErrNotObstetricCase
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	entry := &entity.CaseLogEntry{
		CaseID:     caseID,
		Kind:       logKind,
		EventName:  req.EventName,
		Details:    entity.JSON(req.Details),
		RecordedAt: recordedAt,
		RecordedBy: req.RecordedBy,
	}

	if err := u.caseLogRepo.Append(ctx, entry); err != nil {
		u.log.Warnf("Failed to append %s entry for case %s: %+v", logKind, caseID, err)
		return nil, err
	}

	u.audit.Record(ctx, &userID, entity.AuditActionCaseLogAppend, "case_log_entry", entry.ID.String(), entity.JSON{
		"case_id": caseID.String(),
		"kind":    string(logKind),
		"event":   req.EventName,
	})

	return converter.CaseLogEntryToResponse(entry), nil
}

func (u *phaseRecordUsecase) GetLog(ctx context.Context, caseID uuid.UUID, kind string) (*dto.CaseLogResponse, error) {
	logKind := entity.CaseLogKind(kind)
	if !logKind.IsValid() {
		return nil, ErrUnknownLogKind
	}

	otCase, err := u.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find ot case %s: %+v", caseID, err)
		return nil, err
	}
	if otCase == nil {
		return nil, ErrCaseNotFound
	}

	entries, err := u.caseLogRepo.FindByCaseAndKind(ctx, caseID, logKind)
	if err != nil {
		u.log.Warnf("Failed to find %s entries for case %s: %+v", logKind, caseID, err)
		return nil, err
	}

	return &dto.CaseLogResponse{
		Kind:    string(logKind),
		Entries: converter.CaseLogEntriesToResponses(entries),
		Total:   len(entries),
	}, nil
}
