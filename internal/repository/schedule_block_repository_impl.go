package repository

import (
	"context"
	"errors"

	"hospital-backend/internal/domain/entity"
	domainRepo "hospital-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleBlockRepository struct {
	db *gorm.DB
}

func NewScheduleBlockRepository(db *gorm.DB) domainRepo.ScheduleBlockRepository {
	return &scheduleBlockRepository{db: db}
}

func (r *scheduleBlockRepository) Create(ctx context.Context, block *entity.ScheduleBlock) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *scheduleBlockRepository) FindByID(ctx context.Context, id int) (*entity.ScheduleBlock, error) {
	var block entity.ScheduleBlock
	err := r.db.WithContext(ctx).Preload("Doctor.User").Where("id = ?", id).First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

func (r *scheduleBlockRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.ScheduleBlock, error) {
	var blocks []entity.ScheduleBlock
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("specific_date ASC NULLS FIRST, day_of_week ASC, start_time ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *scheduleBlockRepository) FindAll(ctx context.Context) ([]entity.ScheduleBlock, error) {
	var blocks []entity.ScheduleBlock
	err := r.db.WithContext(ctx).
		Preload("Doctor").Preload("Doctor.User").
		Order("doctor_id ASC, start_time ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *scheduleBlockRepository) Update(ctx context.Context, block *entity.ScheduleBlock) error {
	return r.db.WithContext(ctx).Omit("Doctor").Save(block).Error
}

func (r *scheduleBlockRepository) Delete(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ScheduleBlock{})
	return result.RowsAffected, result.Error
}
