package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand is a manual cancellation by an operator.
//
// Example:
//
//	cmd, err := NewCancelOrderCommand(orderID, "customer changed their mind")
//	if err != nil {
//	    return fmt.Errorf("invalid cancellation: %w", err)
//	}
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand requires a valid order ID and a non-blank reason.
func NewCancelOrderCommand(orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("canceled reason")
	}

	c.reason = reason
	return nil
}
