package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/shipment"
)

// CarrierGateway creates shipments at the third-party carrier.
type CarrierGateway interface {
	// CreateShipment submits req once. On success the receipt carries a
	// non-empty tracking code. Failures are *shipment.CarrierError values
	// wrapping shipment.ErrCarrierRejected or shipment.ErrCarrierUnavailable.
	// Implementations must not retry.
	CreateShipment(ctx context.Context, req shipment.Request) (shipment.Receipt, error)
}
