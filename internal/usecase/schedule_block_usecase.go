package usecase

import (
	"context"
	"errors"
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
	ErrScheduleBlockNotFound = errors.New("schedule block not found")
	ErrInvalidTimeRange      = errors.New("start time must be before end time")
	ErrInvalidTimeLabel      = errors.New("invalid time label, use HH:MM or H:MM AM/PM")
	ErrBlockTargetMissing    = errors.New("either day_of_week or specific_date is required")
)

type ScheduleBlockUsecase interface {
	CreateBlock(ctx context.Context, req *dto.CreateScheduleBlockRequest) (*dto.ScheduleBlockResponse, error)
	UpdateBlock(ctx context.Context, id int, req *dto.UpdateScheduleBlockRequest) (*dto.ScheduleBlockResponse, error)
	DeleteBlock(ctx context.Context, id int) error
	GetBlocksByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleBlockListResponse, error)
}

type scheduleBlockUsecase struct {
	log        *logrus.Logger
	blockRepo  repository.ScheduleBlockRepository
	doctorRepo repository.DoctorProfileRepository
	audit      service.AuditService
}

func NewScheduleBlockUsecase(
	log *logrus.Logger,
	blockRepo repository.ScheduleBlockRepository,
	doctorRepo repository.DoctorProfileRepository,
	audit service.AuditService,
) ScheduleBlockUsecase {
	return &scheduleBlockUsecase{
		log:        log,
		blockRepo:  blockRepo,
		doctorRepo: doctorRepo,
		audit:      audit,
	}
}

func (u *scheduleBlockUsecase) CreateBlock(ctx context.Context, req *dto.CreateScheduleBlockRequest) (*dto.ScheduleBlockResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByUserID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	var specificDate *time.Time
	if req.SpecificDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SpecificDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		specificDate = &parsed
	}

	if req.DayOfWeek == nil && specificDate == nil {
		return nil, ErrBlockTargetMissing
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	block := &entity.ScheduleBlock{
		DoctorID:     req.DoctorID,
		DayOfWeek:    req.DayOfWeek,
		SpecificDate: specificDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		IsAvailable:  isAvailable,
	}

	if err := u.blockRepo.Create(ctx, block); err != nil {
		u.log.Warnf("Failed to create schedule block: %+v", err)
		return nil, err
	}

	u.audit.Record(ctx, &userID, entity.AuditActionScheduleBlockWrite, "schedule_block", block.StartTime, entity.JSON{
		"doctor_id": req.DoctorID.String(),
		"op":        "create",
	})

	return converter.ScheduleBlockToResponse(block), nil
}

func (u *scheduleBlockUsecase) UpdateBlock(ctx context.Context, id int, req *dto.UpdateScheduleBlockRequest) (*dto.ScheduleBlockResponse, error) {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	block, err := u.blockRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find schedule block %d: %+v", id, err)
		return nil, err
	}
	if block == nil {
		return nil, ErrScheduleBlockNotFound
	}

	if req.DayOfWeek != nil {
		block.DayOfWeek = req.DayOfWeek
		block.SpecificDate = nil
	}
	if req.SpecificDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SpecificDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		block.SpecificDate = &parsed
	}
	if req.StartTime != "" {
		block.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		block.EndTime = req.EndTime
	}
	if req.Location != "" {
		block.Location = req.Location
	}
	if req.IsAvailable != nil {
		block.IsAvailable = *req.IsAvailable
	}

	if err := validateTimeRange(block.StartTime, block.EndTime); err != nil {
		return nil, err
	}

	if err := u.blockRepo.Update(ctx, block); err != nil {
		u.log.Warnf("Failed to update schedule block %d: %+v", id, err)
		return nil, err
	}

	u.audit.Record(ctx, &userID, entity.AuditActionScheduleBlockWrite, "schedule_block", block.StartTime, entity.JSON{
		"doctor_id": block.DoctorID.String(),
		"op":        "update",
	})

	return converter.ScheduleBlockToResponse(block), nil
}

func (u *scheduleBlockUsecase) DeleteBlock(ctx context.Context, id int) error {
	userID, _, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	affected, err := u.blockRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete schedule block %d: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrScheduleBlockNotFound
	}

	u.audit.Record(ctx, &userID, entity.AuditActionScheduleBlockWrite, "schedule_block", "", entity.JSON{
		"block_id": id,
		"op":       "delete",
	})
	return nil
}

func (u *scheduleBlockUsecase) GetBlocksByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleBlockListResponse, error) {
	blocks, err := u.blockRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule blocks for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ScheduleBlockListResponse{
		Blocks: converter.ScheduleBlocksToResponses(blocks),
		Total:  len(blocks),
	}, nil
}

// validateTimeRange checks both labels parse and the interval is
// non-empty. Blocks that fail this would expand to zero slots anyway;
// rejecting them up front keeps the table clean.
func validateTimeRange(start, end string) error {
	startMinute, err := entity.MinuteOfDay(start)
	if err != nil {
		return ErrInvalidTimeLabel
	}
	endMinute, err := entity.MinuteOfDay(end)
	if err != nil {
		return ErrInvalidTimeLabel
	}
	if startMinute >= endMinute {
		return ErrInvalidTimeRange
	}
	return nil
}
