package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmAndShipCommandIsNotConstructed = errors.New(
	"ConfirmAndShipCommand must be created via NewConfirmAndShipCommand constructor",
)

// ConfirmAndShipCommand asks to ship an order through the carrier and confirm it.
//
// Example:
//
//	cmd, err := NewConfirmAndShipCommand(orderID, "call before delivery")
//	if err != nil {
//	    return fmt.Errorf("invalid confirmation: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type ConfirmAndShipCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	note    string

	guard guard.ConstructorGuard
}

// NewConfirmAndShipCommand validates the order ID. The operator note is
// optional and only trimmed.
func NewConfirmAndShipCommand(orderID kernel.UUID, note string) (ConfirmAndShipCommand, error) {
	cmd := ConfirmAndShipCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ConfirmAndShipCommand{}, err
	}
	cmd.note = strings.TrimSpace(note)

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmAndShipCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAndShipCommandIsNotConstructed)
}

func (c ConfirmAndShipCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Note is the operator's free-text note for the carrier.
func (c ConfirmAndShipCommand) Note() string {
	return c.note
}

func (c *ConfirmAndShipCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
