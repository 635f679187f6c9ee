package fulfillmentrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormFulfillmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormFulfillmentRepository(db *gorm.DB, tracker aggregateTracker) *GormFulfillmentRepository {
	return &GormFulfillmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormFulfillmentRepository) Add(ctx context.Context, intent *fulfillment.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}

	dto := fromDomain(intent)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(intent.ID(), intent)
	return nil
}

// Update writes the columns that change as the attempt progresses.
func (r *GormFulfillmentRepository) Update(ctx context.Context, intent *fulfillment.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}

	dto := fromDomain(intent)
	result := r.db.WithContext(ctx).Model(&IntentDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"stage":          dto.Stage,
		"tracking_code":  dto.TrackingCode,
		"error_messages": dto.ErrorMessages,
		"updated_at":     dto.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("fulfillment intent", intent.ID().String())
	}

	r.tracker.TrackAggregate(intent.ID(), intent)
	return nil
}

func (r *GormFulfillmentRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Intent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto IntentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fulfillment intent", id.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}

// GetAllInProgressBefore returns stalled attempts, oldest first.
func (r *GormFulfillmentRepository) GetAllInProgressBefore(
	ctx context.Context,
	before time.Time,
) ([]*fulfillment.Intent, error) {
	var dtos []IntentDTO
	err := r.db.WithContext(ctx).
		Where("stage IN ?", []string{
			fulfillment.ShipmentRequested.String(),
			fulfillment.ShipmentCreated.String(),
		}).
		Where("updated_at < ?", before).
		Order("updated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	intents := make([]*fulfillment.Intent, 0, len(dtos))
	for _, dto := range dtos {
		intent, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}

	return intents, nil
}
