// Package queries contains read-only operations served straight from the database.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads one order with its computed amounts.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the operator view of an order.
type GetOrderQueryResponse struct {
	ID                  kernel.UUID
	Status              order.Status
	PaymentMethod       order.PaymentMethod
	OnlinePaymentStatus order.OnlinePaymentStatus
	Recipient           order.Recipient
	Charges             order.Charges
	Items               []OrderItemResponse
	CheckoutTotal       kernel.Money
	CODAmount           kernel.Money
	TrackingCode        *string
	CanceledReason      string
}

type OrderItemResponse struct {
	Variant  string
	Price    kernel.Money
	Quantity int
	Subtotal kernel.Money
}
