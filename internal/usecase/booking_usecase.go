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
	ErrSlotAlreadyBooked           = errors.New("slot has already been booked")
	ErrSlotNotFound                = errors.New("slot not found in the doctor's schedule")
	ErrPatientNotFound             = errors.New("patient profile not found")
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrAppointmentNotOwned         = errors.New("appointment does not belong to you")
	ErrAppointmentAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrDatePast                    = errors.New("cannot book a slot on a past date")
)

type BookingUsecase interface {
	BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type bookingUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	blockRepo       repository.ScheduleBlockRepository
	patientRepo     repository.PatientProfileRepository
	slotHolder      service.SlotHolder
	publisher       service.EventPublisher
	audit           service.AuditService
}

func NewBookingUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	blockRepo repository.ScheduleBlockRepository,
	patientRepo repository.PatientProfileRepository,
	slotHolder service.SlotHolder,
	publisher service.EventPublisher,
	audit service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		blockRepo:       blockRepo,
		patientRepo:     patientRepo,
		slotHolder:      slotHolder,
		publisher:       publisher,
		audit:           audit,
	}
}

// BookAppointment converts one slot into one appointment, at most once.
//
// Flow:
//  1. Validate the patient and the requested date/slot
//  2. Re-resolve the slot against the doctor's schedule (stale refs fail
//     with ErrSlotNotFound, taken slots with ErrSlotAlreadyBooked)
//  3. Redis slot hold (atomic Lua claim, the high-concurrency front gate)
//  4. Insert the appointment with an atomic conditional insert; the
//     partial unique index is the authority on the slot key
//  5. If the insert errors -> compensate: release the Redis hold
//  6. Announce appointment.booked, fire-and-forget
func (u *bookingUsecase) BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.patientRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", userID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	targetDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if targetDate.Before(today) {
		return nil, ErrDatePast
	}

	// Normalize the requested label ("02:00 PM" and "14:00" are the same
	// slot) to the canonical 24-hour key used on the claim index.
	requestedMinute, err := entity.MinuteOfDay(req.TimeSlot)
	if err != nil {
		return nil, ErrSlotNotFound
	}

	// Step 2: re-validate against the current schedule at claim time.
	// Candidates are resolved without the booked-exclusion so a taken
	// slot is distinguishable from one that no longer exists.
	blocks, err := u.blockRepo.FindByDoctorID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule blocks for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}

	candidates := entity.ResolveAvailableSlots(blocks, targetDate, nil)
	var slot *entity.TimeSlot
	for i := range candidates {
		m, merr := entity.MinuteOfDay(candidates[i].StartTime)
		if merr != nil {
			continue
		}
		if m == requestedMinute && (req.Location == "" || candidates[i].Location == req.Location) {
			slot = &candidates[i]
			break
		}
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	// Step 3: Redis atomic hold. This is the critical section under
	// concurrent booking; losers never reach the database.
	if err := u.slotHolder.ClaimSlot(ctx, req.DoctorID, targetDate, slot.StartTime); err != nil {
		if errors.Is(err, service.ErrSlotHeld) {
			return nil, ErrSlotAlreadyBooked
		}
		u.log.Warnf("Failed Redis slot hold for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}

	appointment := &entity.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       userID,
		PatientName:     req.PatientName,
		PatientPhone:    req.Phone,
		AppointmentDate: targetDate,
		TimeSlot:        slot.StartTime,
		Department:      req.Department,
		Location:        slot.Location,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		Status:          entity.AppointmentStatusScheduled,
	}

	// Step 4: authoritative atomic claim at the data layer.
	claimed, err := u.appointmentRepo.ClaimSlot(ctx, appointment)
	if err != nil {
		u.log.Errorf("Failed to insert appointment, compensating Redis hold: %+v", err)

		// Step 5: COMPENSATE - the hold must not outlive the failed insert
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := u.slotHolder.ReleaseSlot(releaseCtx, req.DoctorID, targetDate, slot.StartTime); releaseErr != nil {
			u.log.Errorf("CRITICAL: Failed to release slot hold after DB failure for doctor %s: %+v", req.DoctorID, releaseErr)
		}

		return nil, err
	}
	if !claimed {
		// The database already holds a non-cancelled appointment for this
		// key (the hold had expired or was flushed). The hold we just set
		// now mirrors the database, so it stays.
		return nil, ErrSlotAlreadyBooked
	}

	u.audit.Record(ctx, &userID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), entity.JSON{
		"doctor_id": req.DoctorID.String(),
		"date":      targetDate.Format("2006-01-02"),
		"time_slot": slot.StartTime,
	})

	// Step 6: fire-and-forget announcement
	u.publisher.Publish(ctx, service.ChannelAppointments, service.Event{
		Name: service.EventAppointmentBooked,
		Payload: map[string]interface{}{
			"appointment_id": appointment.ID.String(),
			"doctor_id":      req.DoctorID.String(),
			"date":           targetDate.Format("2006-01-02"),
			"time_slot":      slot.StartTime,
		},
	})

	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s, slot=%s",
		appointment.ID, req.DoctorID, targetDate.Format("2006-01-02"), slot.StartTime)
	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment cancels a booking and frees its slot.
//
// Flow:
// 1. Find appointment and verify ownership
// 2. Atomic cancel in DB (0 rows = already cancelled)
// 3. Release the Redis hold so availability reflects the free slot
func (u *bookingUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if appointment.PatientID != userID {
		return ErrAppointmentNotOwned
	}

	affected, err := u.appointmentRepo.Cancel(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentAlreadyCancelled
	}

	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.slotHolder.ReleaseSlot(releaseCtx, appointment.DoctorID, appointment.AppointmentDate, appointment.TimeSlot); err != nil {
		// Log but don't fail - holds are re-synced on next startup
		u.log.Warnf("Failed to release slot hold for appointment %s (non-fatal): %+v", appointmentID, err)
	}

	u.audit.Record(ctx, &userID, entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(), nil)

	u.publisher.Publish(ctx, service.ChannelAppointments, service.Event{
		Name: service.EventAppointmentCancelled,
		Payload: map[string]interface{}{
			"appointment_id": appointmentID.String(),
			"doctor_id":      appointment.DoctorID.String(),
			"date":           appointment.AppointmentDate.Format("2006-01-02"),
			"time_slot":      appointment.TimeSlot,
		},
	})

	u.log.Infof("Appointment cancelled: id=%s", appointmentID)
	return nil
}

// GetMyAppointments returns all appointments of the logged-in patient
func (u *bookingUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
