// Package fulfillmentrepo stores fulfillment intents, the saga log of
// confirm-and-ship attempts.
package fulfillmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// IntentDTO is one row of fulfillment_intents. Timestamps come from the
// domain clock, so GORM's automatic timestamps are switched off.
type IntentDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID      `gorm:"type:uuid;index"`
	Stage         string         `gorm:"type:varchar(32);index:idx_intent_stage_updated,priority:1"`
	TrackingCode  string         `gorm:"type:varchar(64)"`
	Note          string
	Payload       []byte         `gorm:"type:jsonb"`
	ErrorMessages pq.StringArray `gorm:"type:text[]"`
	TraceID       string         `gorm:"type:varchar(32)"`
	CreatedAt     time.Time      `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime:false;index:idx_intent_stage_updated,priority:2"`
}

func (IntentDTO) TableName() string {
	return "fulfillment_intents"
}

func fromDomain(intent *fulfillment.Intent) IntentDTO {
	payload := intent.Payload()
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	return IntentDTO{
		ID:            intent.ID().Bytes(),
		OrderID:       intent.OrderID().Bytes(),
		Stage:         intent.Stage().String(),
		TrackingCode:  intent.TrackingCode(),
		Note:          intent.Note(),
		Payload:       payload,
		ErrorMessages: pq.StringArray(intent.ErrorMessages()),
		TraceID:       intent.TraceID(),
		CreatedAt:     intent.CreatedAt(),
		UpdatedAt:     intent.UpdatedAt(),
	}
}

func ToDomain(dto IntentDTO) (*fulfillment.Intent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	stage, err := fulfillment.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}

	return fulfillment.RestoreIntent(
		id,
		orderID,
		stage,
		dto.TrackingCode,
		dto.Note,
		dto.Payload,
		dto.ErrorMessages,
		dto.TraceID,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
	)
}
