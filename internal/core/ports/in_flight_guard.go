package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrConfirmInFlight is returned by Acquire while another confirmation of the
// same order holds the guard.
var ErrConfirmInFlight = errors.New("confirmation already in flight for this order")

// InFlightGuard serializes confirm-and-ship attempts per order across
// processes. Holds expire on their own so a crashed holder cannot block an
// order forever.
type InFlightGuard interface {
	// Acquire takes the hold for orderID or returns ErrConfirmInFlight.
	Acquire(ctx context.Context, orderID kernel.UUID) error

	// Release gives the hold back. Releasing a hold that expired is not an error.
	Release(ctx context.Context, orderID kernel.UUID) error
}
