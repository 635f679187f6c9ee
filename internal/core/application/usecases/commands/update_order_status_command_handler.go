package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler applies payment and delivery updates
// through the order state machine.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle transitions the order. order.ErrInvalidTransition is returned when
// the target is not reachable from the current status.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Transition(cmd.Status(), order.TransitionExtra{}); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
