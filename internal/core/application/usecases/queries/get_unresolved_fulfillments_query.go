package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUnresolvedFulfillmentsQueryIsNotConstructed = errors.New(
	"GetUnresolvedFulfillmentsQuery must be created via NewGetUnresolvedFulfillmentsQuery constructor",
)

// GetUnresolvedFulfillmentsQuery lists attempts waiting for an operator.
type GetUnresolvedFulfillmentsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetUnresolvedFulfillmentsQuery() GetUnresolvedFulfillmentsQuery {
	return GetUnresolvedFulfillmentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUnresolvedFulfillmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnresolvedFulfillmentsQueryIsNotConstructed)
}

// GetUnresolvedFulfillmentsQueryResponse describes one flagged attempt.
// TrackingCode is empty when it is unknown whether the carrier created a shipment.
type GetUnresolvedFulfillmentsQueryResponse struct {
	IntentID      kernel.UUID
	OrderID       kernel.UUID
	TrackingCode  string
	Note          string
	ErrorMessages []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
