package usecase

import (
	"errors"
	"testing"

	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type otCaseFixture struct {
	usecase   OtCaseUsecase
	patients  *fakePatientRepo
	cases     *fakeOtCaseRepo
	records   *fakePhaseRecordRepo
	logs      *fakeCaseLogRepo
	publisher *fakePublisher
	audit     *fakeAudit

	patientID uuid.UUID
	surgeonID uuid.UUID
}

func newOtCaseFixture(t *testing.T) *otCaseFixture {
	t.Helper()

	patientID := uuid.New()
	surgeonID := uuid.New()

	patients := &fakePatientRepo{profiles: map[uuid.UUID]*entity.PatientProfile{
		patientID: {
			UserID:     patientID,
			UHID:       "UH-2040",
			Gender:     entity.GenderFemale,
			IsAdmitted: true,
			User:       entity.User{FullName: "Meera Pillai"},
		},
	}}
	doctors := &fakeDoctorRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{
		surgeonID: {
			UserID:         surgeonID,
			Specialization: "General Surgery",
			User:           entity.User{FullName: "Dr. Rao"},
		},
	}}

	cases := newFakeOtCaseRepo()
	records := newFakePhaseRecordRepo()
	logs := &fakeCaseLogRepo{}
	publisher := &fakePublisher{}
	audit := &fakeAudit{}

	return &otCaseFixture{
		usecase:   NewOtCaseUsecase(testLogger(), cases, records, logs, patients, doctors, publisher, audit),
		patients:  patients,
		cases:     cases,
		records:   records,
		logs:      logs,
		publisher: publisher,
		audit:     audit,
		patientID: patientID,
		surgeonID: surgeonID,
	}
}

func (f *otCaseFixture) createRequest() *dto.CreateOtCaseRequest {
	return &dto.CreateOtCaseRequest{
		PatientID:     f.patientID,
		SurgeonID:     f.surgeonID,
		ProcedureName: "Laparoscopic Appendicectomy",
		ScheduledDate: "2026-09-15",
		OtRoom:        "OT-2",
	}
}

// scheduledCase creates a case through the usecase and returns its ID.
func (f *otCaseFixture) scheduledCase(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.usecase.CreateCase(actorContext(uuid.New(), entity.RoleIDDoctor), f.createRequest())
	if err != nil {
		t.Fatalf("creating case: %v", err)
	}
	return resp.ID
}

func TestCreateCaseSnapshotsPatientIdentity(t *testing.T) {
	f := newOtCaseFixture(t)

	resp, err := f.usecase.CreateCase(actorContext(uuid.New(), entity.RoleIDDoctor), f.createRequest())
	if err != nil {
		t.Fatalf("CreateCase returned error: %v", err)
	}

	if resp.PatientName != "Meera Pillai" {
		t.Errorf("patient name = %s, want snapshot Meera Pillai", resp.PatientName)
	}
	if resp.UHID != "UH-2040" {
		t.Errorf("uhid = %s, want UH-2040", resp.UHID)
	}
	if resp.SurgeonName != "Dr. Rao" {
		t.Errorf("surgeon name = %s, want Dr. Rao", resp.SurgeonName)
	}
	if resp.Status != string(entity.OtCaseStatusScheduled) {
		t.Errorf("status = %s, want scheduled", resp.Status)
	}
	if resp.Priority != string(entity.OtCasePriorityElective) {
		t.Errorf("priority = %s, want default elective", resp.Priority)
	}
	if resp.EstimatedDuration != 60 {
		t.Errorf("estimated duration = %d, want default 60", resp.EstimatedDuration)
	}
}

func TestCreateCaseRequiresAdmittedPatient(t *testing.T) {
	f := newOtCaseFixture(t)
	outpatientID := uuid.New()
	f.patients.profiles[outpatientID] = &entity.PatientProfile{
		UserID: outpatientID, UHID: "UH-2041", IsAdmitted: false,
	}

	req := f.createRequest()
	req.PatientID = outpatientID

	_, err := f.usecase.CreateCase(actorContext(uuid.New(), entity.RoleIDDoctor), req)
	if !errors.Is(err, ErrPatientNotAdmitted) {
		t.Errorf("err = %v, want ErrPatientNotAdmitted", err)
	}
}

func TestCreateCaseRoleGate(t *testing.T) {
	f := newOtCaseFixture(t)

	for _, roleID := range []int{entity.RoleIDNurse, entity.RoleIDPatient} {
		if _, err := f.usecase.CreateCase(actorContext(uuid.New(), roleID), f.createRequest()); !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("role %d: err = %v, want ErrNotAuthorized", roleID, err)
		}
	}
}

func TestCreateCaseInvalidPriority(t *testing.T) {
	f := newOtCaseFixture(t)

	req := f.createRequest()
	req.Priority = "routine"

	if _, err := f.usecase.CreateCase(actorContext(uuid.New(), entity.RoleIDAdmin), req); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("err = %v, want ErrInvalidPriority", err)
	}
}

func TestTransitionStatus(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	resp, err := f.usecase.TransitionStatus(ctx, caseID, &dto.TransitionOtCaseRequest{TargetStatus: "in_prep"})
	if err != nil {
		t.Fatalf("TransitionStatus returned error: %v", err)
	}
	if resp.Status != "in_prep" {
		t.Errorf("status = %s, want in_prep", resp.Status)
	}

	stored, _ := f.cases.FindByID(ctx, caseID)
	if stored.Status != entity.OtCaseStatusInPrep {
		t.Errorf("stored status = %s, want in_prep", stored.Status)
	}
}

// A role that may not transition gets the authorization failure even for
// a transition that would be perfectly legal, and for one that would be
// illegal: the role gate runs first and legality is never evaluated.
func TestTransitionRoleGateBeforeLegality(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	nurseCtx := actorContext(uuid.New(), entity.RoleIDNurse)

	for _, target := range []string{"in_prep", "completed"} {
		_, err := f.usecase.TransitionStatus(nurseCtx, caseID, &dto.TransitionOtCaseRequest{TargetStatus: target})
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("target %s: err = %v, want ErrNotAuthorized", target, err)
		}
	}
}

func TestTransitionIllegal(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	// scheduled can never jump straight to completed.
	_, err := f.usecase.TransitionStatus(ctx, caseID, &dto.TransitionOtCaseRequest{TargetStatus: "completed"})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("err = %v, want ErrIllegalTransition", err)
	}

	stored, _ := f.cases.FindByID(ctx, caseID)
	if stored.Status != entity.OtCaseStatusScheduled {
		t.Errorf("stored status changed to %s on a rejected transition", stored.Status)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	_, err := f.usecase.TransitionStatus(ctx, caseID, &dto.TransitionOtCaseRequest{TargetStatus: "archived"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestTransitionCaseNotFound(t *testing.T) {
	f := newOtCaseFixture(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	_, err := f.usecase.TransitionStatus(ctx, uuid.New(), &dto.TransitionOtCaseRequest{TargetStatus: "in_prep"})
	if !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("err = %v, want ErrCaseNotFound", err)
	}
}

func TestTransitionLostRace(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	// Another request cancels the case between our read and our write.
	f.cases.beforeUpdateStatus = func() {
		f.cases.beforeUpdateStatus = nil
		f.cases.setStatus(caseID, entity.OtCaseStatusCancelled)
	}

	_, err := f.usecase.TransitionStatus(ctx, caseID, &dto.TransitionOtCaseRequest{TargetStatus: "in_prep"})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("err = %v, want ErrIllegalTransition for a lost race", err)
	}

	stored, _ := f.cases.FindByID(ctx, caseID)
	if stored.Status != entity.OtCaseStatusCancelled {
		t.Errorf("stored status = %s, the losing write must not apply", stored.Status)
	}
}

func TestReschedule(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDAdmin)

	resp, err := f.usecase.Reschedule(ctx, caseID, &dto.RescheduleOtCaseRequest{
		ScheduledDate: "2026-09-20",
		ScheduledTime: "08:30",
		OtRoom:        "OT-1",
	})
	if err != nil {
		t.Fatalf("Reschedule returned error: %v", err)
	}
	if resp.ScheduledDate != "2026-09-20" || resp.ScheduledTime != "08:30" || resp.OtRoom != "OT-1" {
		t.Errorf("rescheduled to %s %s %s", resp.ScheduledDate, resp.ScheduledTime, resp.OtRoom)
	}
}

func TestRescheduleOnlyBeforePreparation(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	f.cases.setStatus(caseID, entity.OtCaseStatusInPrep)

	_, err := f.usecase.Reschedule(ctx, caseID, &dto.RescheduleOtCaseRequest{ScheduledDate: "2026-09-20"})
	if !errors.Is(err, ErrNotReschedulable) {
		t.Errorf("err = %v, want ErrNotReschedulable", err)
	}
}

func TestReschedulePostponedCase(t *testing.T) {
	f := newOtCaseFixture(t)
	caseID := f.scheduledCase(t)
	ctx := actorContext(uuid.New(), entity.RoleIDDoctor)

	f.cases.setStatus(caseID, entity.OtCaseStatusPostponed)

	if _, err := f.usecase.Reschedule(ctx, caseID, &dto.RescheduleOtCaseRequest{ScheduledDate: "2026-09-25"}); err != nil {
		t.Errorf("a postponed case must stay reschedulable, got %v", err)
	}
}
