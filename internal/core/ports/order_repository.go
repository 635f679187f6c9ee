// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the carrier gateway, notification sinks and
// the confirm in-flight guard. Adapters implement them; the core depends only
// on these interfaces.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// It is the single source of truth for order state.
type OrderRepository interface {
	// Add persists a new order aggregate together with its line items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, payment state, tracking code and cancel reason
	// of an existing order. Line items are never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no order matches.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
