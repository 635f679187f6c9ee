package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// externallyDrivenStatuses are the targets payment callbacks and carrier
// updates may set. Confirmed belongs to confirm-and-ship, Cancelled to
// CancelOrderCommand.
var externallyDrivenStatuses = map[order.Status]bool{
	order.Unpaid:     true,
	order.Paid:       true,
	order.Delivering: true,
	order.Delivered:  true,
}

// UpdateOrderStatusCommand applies a status reported by another system.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand accepts unpaid, paid, delivering and delivered.
func NewUpdateOrderStatusCommand(orderID kernel.UUID, status order.Status) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if !externallyDrivenStatuses[status] {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s cannot be set directly", status),
		)
	}

	c.status = status
	return nil
}
