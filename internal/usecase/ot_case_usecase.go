package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-backend/internal/converter"
	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/delivery/http/middleware"
	"hospital-backend/internal/domain/entity"
	"hospital-backend/internal/domain/repository"
	"hospital-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrCaseNotFound       = errors.New("ot case not found")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrNotAuthorized      = errors.New("role is not allowed to perform this action")
	ErrInvalidStatus      = errors.New("unknown ot case status")
	ErrInvalidPriority    = errors.New("unknown ot case priority")
	ErrNotReschedulable   = errors.New("case schedule can no longer be changed")
	ErrPatientNotAdmitted = errors.New("patient is not admitted")
)

type OtCaseUsecase interface {
	CreateCase(ctx context.Context, req *dto.CreateOtCaseRequest) (*dto.OtCaseResponse, error)
	TransitionStatus(ctx context.Context, caseID uuid.UUID, req *dto.TransitionOtCaseRequest) (*dto.OtCaseResponse, error)
	Reschedule(ctx context.Context, caseID uuid.UUID, req *dto.RescheduleOtCaseRequest) (*dto.OtCaseResponse, error)
	GetCases(ctx context.Context, filter *repository.OtCaseFilter) (*dto.OtCaseListResponse, error)
	GetFullCase(ctx context.Context, caseID uuid.UUID) (*dto.FullOtCaseResponse, error)
}

type otCaseUsecase struct {
	log         *logrus.Logger
	caseRepo    repository.OtCaseRepository
	recordRepo  repository.PhaseRecordRepository
	caseLogRepo repository.CaseLogRepository
	patientRepo repository.PatientProfileRepository
	doctorRepo  repository.DoctorProfileRepository
	publisher   service.EventPublisher
	audit       service.AuditService
}

func NewOtCaseUsecase(
	log *logrus.Logger,
	caseRepo repository.OtCaseRepository,
	recordRepo repository.PhaseRecordRepository,
	caseLogRepo repository.CaseLogRepository,
	patientRepo repository.PatientProfileRepository,
	doctorRepo repository.DoctorProfileRepository,
	publisher service.EventPublisher,
	audit service.AuditService,
) OtCaseUsecase {
	return &otCaseUsecase{
		log:         log,
		caseRepo:    caseRepo,
		recordRepo:  recordRepo,
		caseLogRepo: caseLogRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		publisher:   publisher,
		audit:       audit,
	}
}

// CreateCase schedules a surgical case against an admitted patient and an
// existing surgeon. Patient identity fields are snapshotted onto the case
// the way they appear on the printed case sheet.
func (u *otCaseUsecase) CreateCase(ctx context.Context, req *dto.CreateOtCaseRequest) (*dto.OtCaseResponse, error) {
	userID, roleID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !entity.RoleMayTransition(roleID) {
		return nil, ErrNotAuthorized
	}

	patient, err := u.patientRepo.FindByUserID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !patient.IsAdmitted {
		return nil, ErrPatientNotAdmitted
	}

	surgeon, err := u.doctorRepo.FindByUserID(ctx, req.SurgeonID)
	if err != nil {
		u.log.Warnf("Failed to find surgeon %s: %+v", req.SurgeonID, err)
		return nil, err
	}
	if surgeon == nil {
		return nil, ErrDoctorNotFound
	}

	var anaesthetistName string
	if req.AnaesthetistID != nil {
		anaesthetist, err := u.doctorRepo.FindByUserID(ctx, *req.AnaesthetistID)
		if err != nil {
			u.log.Warnf("Failed to find anaesthetist %s: %+v", *req.AnaesthetistID, err)
			return nil, err
		}
		if anaesthetist == nil {
			return nil, ErrDoctorNotFound
		}
		anaesthetistName = anaesthetist.User.FullName
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	priority := entity.OtCasePriority(req.Priority)
	if req.Priority == "" {
		priority = entity.OtCasePriorityElective
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	estimatedDuration := req.EstimatedDuration
	if estimatedDuration == 0 {
		estimatedDuration = 60
	}

	otCase := &entity.OtCase{
		PatientID:         req.PatientID,
		PatientName:       patient.User.FullName,
		UHID:              patient.UHID,
		Age:               patient.AgeAt(time.Now()),
		Gender:            patient.Gender,
		SurgeonID:         req.SurgeonID,
		SurgeonName:       surgeon.User.FullName,
		AnaesthetistID:    req.AnaesthetistID,
		AnaesthetistName:  anaesthetistName,
		ProcedureName:     req.ProcedureName,
		ProcedureCode:     req.ProcedureCode,
		Diagnosis:         req.Diagnosis,
		SurgeryType:       req.SurgeryType,
		EstimatedDuration: estimatedDuration,
		ScheduledDate:     scheduledDate,
		ScheduledTime:     req.ScheduledTime,
		OtRoom:            req.OtRoom,
		Priority:          priority,
		Status:            entity.OtCaseStatusScheduled,
	}

	if err := u.caseRepo.Create(ctx, otCase); err != nil {
		u.log.Warnf("Failed to create ot case: %+v", err)
		return nil, err
	}

	u.audit.Record(ctx, &userID, entity.AuditActionOtCaseCreate, "ot_case", otCase.ID.String(), entity.JSON{
		"procedure": req.ProcedureName,
		"surgeon":   surgeon.User.FullName,
		"date":      req.ScheduledDate,
	})

	u.publisher.Publish(ctx, service.ChannelOtCases, service.Event{
		Name: service.EventOtCaseCreated,
		Payload: map[string]interface{}{
			"case_id":   otCase.ID.String(),
			"procedure": req.ProcedureName,
			"date":      req.ScheduledDate,
		},
	})

	u.log.Infof("OT case created: id=%s, procedure=%s, date=%s", otCase.ID, req.ProcedureName, req.ScheduledDate)
	return converter.OtCaseToResponse(otCase), nil
}

// TransitionStatus drives the case state machine. The role gate runs
// before transition legality so a disallowed role always gets the
// authorization failure, never the transition one. The stored status is
// changed with a conditional update keyed on the status the decision was
// made against; a lost race mutates nothing.
func (u *otCaseUsecase) TransitionStatus(ctx context.Context, caseID uuid.UUID, req *dto.TransitionOtCaseRequest) (*dto.OtCaseResponse, error) {
	userID, roleID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !entity.RoleMayTransition(roleID) {
		return nil, ErrNotAuthorized
	}

	target := entity.OtCaseStatus(req.TargetStatus)
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	otCase, err := u.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find ot case %s: %+v", caseID, err)
		return nil, err
	}
	if otCase == nil {
		return nil, ErrCaseNotFound
	}

	if !otCase.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}

	affected, err := u.caseRepo.UpdateStatus(ctx, caseID, otCase.Status, target)
	if err != nil {
		u.log.Warnf("Failed to update ot case %s status: %+v", caseID, err)
		return nil, err
	}
	if affected == 0 {
		// A concurrent transition moved the case first; the table row was
		// not touched, report the request as illegal against current state.
		return nil, ErrIllegalTransition
	}

	previous := otCase.Status
	otCase.Status = target

	u.audit.Record(ctx, &userID, entity.AuditActionOtCaseTransition, "ot_case", caseID.String(), entity.JSON{
		"from": string(previous),
		"to":   string(target),
	})

	u.publisher.Publish(ctx, service.ChannelOtCases, service.Event{
		Name: service.EventOtCaseTransitioned,
		Payload: map[string]interface{}{
			"case_id": caseID.String(),
			"from":    string(previous),
			"to":      string(target),
		},
	})

	u.log.Infof("OT case transitioned: id=%s, %s -> %s", caseID, previous, target)
	return converter.OtCaseToResponse(otCase), nil
}

// Reschedule rewrites the scheduled date/time/room. Only legal while the
// case has not left the scheduling states; once preparation starts the
// slot is fixed.
func (u *otCaseUsecase) Reschedule(ctx context.Context, caseID uuid.UUID, req *dto.RescheduleOtCaseRequest) (*dto.OtCaseResponse, error) {
	userID, roleID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !entity.RoleMayTransition(roleID) {
		return nil, ErrNotAuthorized
	}

	otCase, err := u.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find ot case %s: %+v", caseID, err)
		return nil, err
	}
	if otCase == nil {
		return nil, ErrCaseNotFound
	}

	if !otCase.IsReschedulable() {
		return nil, ErrNotReschedulable
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	if err := u.caseRepo.UpdateSchedule(ctx, caseID, scheduledDate, req.ScheduledTime, req.OtRoom); err != nil {
		u.log.Warnf("Failed to reschedule ot case %s: %+v", caseID, err)
		return nil, err
	}

	otCase.ScheduledDate = scheduledDate
	otCase.ScheduledTime = req.ScheduledTime
	otCase.OtRoom = req.OtRoom

	u.audit.Record(ctx, &userID, entity.AuditActionOtCaseReschedule, "ot_case", caseID.String(), entity.JSON{
		"date": req.ScheduledDate,
		"time": req.ScheduledTime,
		"room": req.OtRoom,
	})

	return converter.OtCaseToResponse(otCase), nil
}

func (u *otCaseUsecase) GetCases(ctx context.Context, filter *repository.OtCaseFilter) (*dto.OtCaseListResponse, error) {
	cases, err := u.caseRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find ot cases: %+v", err)
		return nil, err
	}

	return &dto.OtCaseListResponse{
		Cases: converter.OtCasesToResponses(cases),
		Total: len(cases),
	}, nil
}

// GetFullCase is the aggregate read used to drive the phase screens: the
// case, every phase record, every log, and the derived phase statuses.
func (u *otCaseUsecase) GetFullCase(ctx context.Context, caseID uuid.UUID) (*dto.FullOtCaseResponse, error) {
	otCase, err := u.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find ot case %s: %+v", caseID, err)
		return nil, err
	}
	if otCase == nil {
		return nil, ErrCaseNotFound
	}

	records, err := u.recordRepo.FindByCase(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find phase records for case %s: %+v", caseID, err)
		return nil, err
	}

	logs, err := u.caseLogRepo.FindByCase(ctx, caseID)
	if err != nil {
		u.log.Warnf("Failed to find case logs for case %s: %+v", caseID, err)
		return nil, err
	}

	return converter.FullOtCaseToResponse(otCase, records, logs), nil
}

// actorFromContext extracts the acting user and role set by the auth
// middleware.
func actorFromContext(ctx context.Context) (uuid.UUID, int, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, 0, errors.New("user not found in context")
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return uuid.Nil, 0, errors.New("role not found in context")
	}
	return userID, roleID, nil
}
