package repository

import (
	"context"
	"errors"
	"time"

	"hospital-backend/internal/domain/entity"
	domainRepo "hospital-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type otCaseRepository struct {
	db *gorm.DB
}

func NewOtCaseRepository(db *gorm.DB) domainRepo.OtCaseRepository {
	return &otCaseRepository{db: db}
}

func (r *otCaseRepository) Create(ctx context.Context, otCase *entity.OtCase) error {
	return r.db.WithContext(ctx).Create(otCase).Error
}

func (r *otCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OtCase, error) {
	var otCase entity.OtCase
	err := r.db.WithContext(ctx).Preload("Patient").Preload("Surgeon.User").
		Where("id = ?", id).First(&otCase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &otCase, nil
}

func (r *otCaseRepository) FindAll(ctx context.Context, filter *domainRepo.OtCaseFilter) ([]entity.OtCase, error) {
	query := r.db.WithContext(ctx).Model(&entity.OtCase{})

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.ScheduledDate != nil {
			query = query.Where("scheduled_date = ?", filter.ScheduledDate.Format("2006-01-02"))
		}
		if filter.SurgeonID != nil {
			query = query.Where("surgeon_id = ?", *filter.SurgeonID)
		}
	}

	var cases []entity.OtCase
	err := query.Order("scheduled_date ASC, scheduled_time ASC").Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// UpdateStatus applies a transition ONLY if the stored status still equals
// the expected one. RowsAffected 0 means a concurrent transition got there
// first and nothing was changed.
func (r *otCaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, target entity.OtCaseStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.OtCase{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", target)
	return result.RowsAffected, result.Error
}

func (r *otCaseRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay, otRoom string) error {
	return r.db.WithContext(ctx).Model(&entity.OtCase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"scheduled_date": date.Format("2006-01-02"),
			"scheduled_time": timeOfDay,
			"ot_room":        otRoom,
		}).Error
}
