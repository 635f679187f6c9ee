package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a checked-out sales order for fulfillment.
// The order starts in pending.
//
// Example:
//
//	item, _ := order.NewLineItem("T-shirt / M", 150000, 2)
//	cmd, err := NewCreateOrderCommand(
//	    orderID,
//	    order.Recipient{Name: "An", Phone: "0900000000", Address: "12 Main St, Ward 5, District 3, HCMC"},
//	    order.CashOnDelivery,
//	    order.Charges{ShippingFee: 30000},
//	    []order.LineItem{item},
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	recipient     order.Recipient
	paymentMethod order.PaymentMethod
	charges       order.Charges
	items         []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks the identifiers and the payment method. The
// remaining fields are validated when the order is built.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	recipient order.Recipient,
	paymentMethod order.PaymentMethod,
	charges order.Charges,
	items []order.LineItem,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		recipient: recipient,
		charges:   charges,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.items = make([]order.LineItem, len(items))
	copy(cmd.items, items)

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Recipient() order.Recipient {
	return c.recipient
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) Charges() order.Charges {
	return c.charges
}

// Items returns a copy of the line items.
func (c CreateOrderCommand) Items() []order.LineItem {
	items := make([]order.LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
