package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-backend/internal/converter"
	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"
	"hospital-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

type SlotUsecase interface {
	ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string, location string) (*dto.SlotListResponse, error)
}

type slotUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorProfileRepository
	blockRepo       repository.ScheduleBlockRepository
	appointmentRepo repository.AppointmentRepository
}

func NewSlotUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorProfileRepository,
	blockRepo repository.ScheduleBlockRepository,
	appointmentRepo repository.AppointmentRepository,
) SlotUsecase {
	return &slotUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		blockRepo:       blockRepo,
		appointmentRepo: appointmentRepo,
	}
}

// ListAvailableSlots computes the bookable slots for one doctor and date:
// applicable schedule blocks expanded to 30-minute slots, minus the
// start times already claimed by non-cancelled appointments. A doctor
// with no applicable block simply has no slots; that is not an error.
func (u *slotUsecase) ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string, location string) (*dto.SlotListResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	targetDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	blocks, err := u.blockRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule blocks for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	booked, err := u.appointmentRepo.FindBookedStartTimes(ctx, doctorID, targetDate)
	if err != nil {
		u.log.Warnf("Failed to find booked slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	slots := entity.ResolveAvailableSlots(blocks, targetDate, booked)

	// Optional location filter on top of the resolved set
	if location != "" {
		filtered := slots[:0]
		for _, slot := range slots {
			if slot.Location == location {
				filtered = append(filtered, slot)
			}
		}
		slots = filtered
	}

	return &dto.SlotListResponse{
		DoctorID: doctorID,
		Date:     targetDate.Format("2006-01-02"),
		Slots:    converter.SlotsToResponses(slots),
		Total:    len(slots),
	}, nil
}
