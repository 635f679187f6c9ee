package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler stores a new pending order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle builds the order aggregate and adds it in its own transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Recipient(), cmd.PaymentMethod(), cmd.Charges(), cmd.Items())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
