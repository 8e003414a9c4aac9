package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"hospital-backend/internal/delivery/http/middleware"
	"hospital-backend/internal/domain/entity"
	"hospital-backend/internal/domain/repository"
	"hospital-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// actorContext builds a request context the way the auth middleware does.
func actorContext(userID uuid.UUID, roleID int) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleIDKey, roleID)
	return ctx
}

type fakePatientRepo struct {
	profiles map[uuid.UUID]*entity.PatientProfile
}

func (r *fakePatientRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.PatientProfile, error) {
	return r.profiles[userID], nil
}

func (r *fakePatientRepo) FindByUHID(_ context.Context, uhid string) (*entity.PatientProfile, error) {
	for _, p := range r.profiles {
		if p.UHID == uhid {
			return p, nil
		}
	}
	return nil, nil
}

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
}

func (r *fakeDoctorRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return r.profiles[userID], nil
}

type fakeBlockRepo struct {
	blocks []entity.ScheduleBlock
}

func (r *fakeBlockRepo) Create(_ context.Context, block *entity.ScheduleBlock) error {
	block.ID = len(r.blocks) + 1
	r.blocks = append(r.blocks, *block)
	return nil
}

func (r *fakeBlockRepo) FindByID(_ context.Context, id int) (*entity.ScheduleBlock, error) {
	for i := range r.blocks {
		if r.blocks[i].ID == id {
			block := r.blocks[i]
			return &block, nil
		}
	}
	return nil, nil
}

func (r *fakeBlockRepo) FindByDoctorID(_ context.Context, doctorID uuid.UUID) ([]entity.ScheduleBlock, error) {
	var out []entity.ScheduleBlock
	for _, b := range r.blocks {
		if b.DoctorID == doctorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlockRepo) FindAll(_ context.Context) ([]entity.ScheduleBlock, error) {
	return r.blocks, nil
}

func (r *fakeBlockRepo) Update(_ context.Context, block *entity.ScheduleBlock) error {
	for i := range r.blocks {
		if r.blocks[i].ID == block.ID {
			r.blocks[i] = *block
			return nil
		}
	}
	return nil
}

func (r *fakeBlockRepo) Delete(_ context.Context, id int) (int64, error) {
	for i := range r.blocks {
		if r.blocks[i].ID == id {
			r.blocks = append(r.blocks[:i], r.blocks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// fakeAppointmentRepo mimics the partial unique index on
// (doctor, date, slot) WHERE status <> 'cancelled'.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []entity.Appointment
	claimErr     error
}

func slotKey(doctorID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date.Format("2006-01-02"), slot)
}

func (r *fakeAppointmentRepo) ClaimSlot(_ context.Context, appointment *entity.Appointment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.claimErr != nil {
		return false, r.claimErr
	}

	key := slotKey(appointment.DoctorID, appointment.AppointmentDate, appointment.TimeSlot)
	for _, a := range r.appointments {
		if a.Status != entity.AppointmentStatusCancelled && slotKey(a.DoctorID, a.AppointmentDate, a.TimeSlot) == key {
			return false, nil
		}
	}

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	r.appointments = append(r.appointments, *appointment)
	return true, nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			appointment := r.appointments[i]
			return &appointment, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(_ context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindBookedStartTimes(_ context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) && a.Status != entity.AppointmentStatusCancelled {
			out = append(out, a.TimeSlot)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			if r.appointments[i].Status == entity.AppointmentStatusCancelled {
				return 0, nil
			}
			r.appointments[i].Status = entity.AppointmentStatusCancelled
			return 1, nil
		}
	}
	return 0, nil
}

type fakeSlotHolder struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeSlotHolder() *fakeSlotHolder {
	return &fakeSlotHolder{held: map[string]bool{}}
}

func (h *fakeSlotHolder) ClaimSlot(_ context.Context, doctorID uuid.UUID, date time.Time, startTime string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := slotKey(doctorID, date, startTime)
	if h.held[key] {
		return service.ErrSlotHeld
	}
	h.held[key] = true
	return nil
}

func (h *fakeSlotHolder) ReleaseSlot(_ context.Context, doctorID uuid.UUID, date time.Time, startTime string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.held, slotKey(doctorID, date, startTime))
	return nil
}

func (h *fakeSlotHolder) holds(doctorID uuid.UUID, date time.Time, startTime string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.held[slotKey(doctorID, date, startTime)]
}

type fakePublisher struct {
	mu     sync.Mutex
	events []service.Event
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event service.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) eventNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var names []string
	for _, e := range p.events {
		names = append(names, e.Name)
	}
	return names
}

type fakeAudit struct {
	mu        sync.Mutex
	actions   []string
	entityIDs []string
}

func (a *fakeAudit) Record(_ context.Context, _ *uuid.UUID, action string, _ string, entityID string, _ entity.JSON) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	a.entityIDs = append(a.entityIDs, entityID)
}

type fakeOtCaseRepo struct {
	mu    sync.Mutex
	cases map[uuid.UUID]*entity.OtCase

	// beforeUpdateStatus runs inside UpdateStatus before the conditional
	// check, to stage a concurrent transition.
	beforeUpdateStatus func()
}

func newFakeOtCaseRepo() *fakeOtCaseRepo {
	return &fakeOtCaseRepo{cases: map[uuid.UUID]*entity.OtCase{}}
}

func (r *fakeOtCaseRepo) Create(_ context.Context, otCase *entity.OtCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if otCase.ID == uuid.Nil {
		otCase.ID = uuid.New()
	}
	stored := *otCase
	r.cases[otCase.ID] = &stored
	return nil
}

func (r *fakeOtCaseRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.OtCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cases[id]
	if !ok {
		return nil, nil
	}
	otCase := *stored
	return &otCase, nil
}

func (r *fakeOtCaseRepo) FindAll(_ context.Context, _ *repository.OtCaseFilter) ([]entity.OtCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.OtCase
	for _, c := range r.cases {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeOtCaseRepo) UpdateStatus(_ context.Context, id uuid.UUID, expected, target entity.OtCaseStatus) (int64, error) {
	if r.beforeUpdateStatus != nil {
		r.beforeUpdateStatus()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cases[id]
	if !ok || stored.Status != expected {
		return 0, nil
	}
	stored.Status = target
	return 1, nil
}

func (r *fakeOtCaseRepo) UpdateSchedule(_ context.Context, id uuid.UUID, date time.Time, timeOfDay, otRoom string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.cases[id]; ok {
		stored.ScheduledDate = date
		stored.ScheduledTime = timeOfDay
		stored.OtRoom = otRoom
	}
	return nil
}

func (r *fakeOtCaseRepo) setStatus(id uuid.UUID, status entity.OtCaseStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases[id].Status = status
}

type fakePhaseRecordRepo struct {
	mu      sync.Mutex
	records map[string]*entity.PhaseRecord
}

func newFakePhaseRecordRepo() *fakePhaseRecordRepo {
	return &fakePhaseRecordRepo{records: map[string]*entity.PhaseRecord{}}
}

func recordKey(caseID uuid.UUID, kind entity.PhaseRecordKind) string {
	return fmt.Sprintf("%s|%s", caseID, kind)
}

func (r *fakePhaseRecordRepo) Upsert(_ context.Context, record *entity.PhaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey(record.CaseID, record.Kind)
	if existing, ok := r.records[key]; ok {
		existing.Payload = record.Payload
		existing.SavedBy = record.SavedBy
		*record = *existing
		return nil
	}
	record.ID = uuid.New()
	stored := *record
	r.records[key] = &stored
	return nil
}

func (r *fakePhaseRecordRepo) FindByCase(_ context.Context, caseID uuid.UUID) ([]entity.PhaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PhaseRecord
	for _, rec := range r.records {
		if rec.CaseID == caseID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakePhaseRecordRepo) FindByCaseAndKind(_ context.Context, caseID uuid.UUID, kind entity.PhaseRecordKind) (*entity.PhaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[recordKey(caseID, kind)]
	if !ok {
		return nil, nil
	}
	record := *stored
	return &record, nil
}

type fakeCaseLogRepo struct {
	mu      sync.Mutex
	entries []entity.CaseLogEntry
}

func (r *fakeCaseLogRepo) Append(_ context.Context, entry *entity.CaseLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := 0
	for _, e := range r.entries {
		if e.CaseID == entry.CaseID && e.Kind == entry.Kind {
			seq = e.Seq
		}
	}
	entry.Seq = seq + 1
	entry.ID = uuid.New()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeCaseLogRepo) FindByCaseAndKind(_ context.Context, caseID uuid.UUID, kind entity.CaseLogKind) ([]entity.CaseLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CaseLogEntry
	for _, e := range r.entries {
		if e.CaseID == caseID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeCaseLogRepo) FindByCase(_ context.Context, caseID uuid.UUID) ([]entity.CaseLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CaseLogEntry
	for _, e := range r.entries {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}
