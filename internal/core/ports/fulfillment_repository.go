package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
)

// FulfillmentRepository stores the saga record of confirm-and-ship attempts.
type FulfillmentRepository interface {
	// Add persists a new intent.
	Add(ctx context.Context, intent *fulfillment.Intent) error

	// Update persists the stage, tracking code, error messages and update time.
	Update(ctx context.Context, intent *fulfillment.Intent) error

	// Get retrieves an intent by its identifier.
	// Returns errs.ErrObjectNotFound when no intent matches.
	Get(ctx context.Context, id kernel.UUID) (*fulfillment.Intent, error)

	// GetAllInProgressBefore returns intents still in shipment_requested or
	// shipment_created whose last update happened before the given time,
	// oldest first.
	GetAllInProgressBefore(ctx context.Context, before time.Time) ([]*fulfillment.Intent, error)
}
