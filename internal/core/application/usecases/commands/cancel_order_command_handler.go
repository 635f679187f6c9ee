package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CancelOrderCommandHandler moves an order to Cancelled and records the reason.
//
// Cancelling a confirmed order does not touch its carrier shipment; the
// operator is warned to cancel it at the carrier.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationSink
}

// NewCancelOrderCommandHandler creates a handler for manual cancellations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.NotificationSink) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle cancels the order inside a transaction. order.ErrInvalidTransition
// is returned for delivered or already cancelled orders.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if err = o.Transition(order.Cancelled, order.TransitionExtra{CanceledReason: cmd.Reason()}); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if code := o.TrackingCode(); code != nil {
		h.notifier.Notify(ctx, ports.Notification{
			Level:        ports.NotificationWarning,
			OrderID:      o.ID().String(),
			TrackingCode: *code,
			Message: fmt.Sprintf(
				"Order %s cancelled. Shipment %s still exists at the carrier and must be cancelled there.",
				o.ID(), *code,
			),
		})
	}

	return nil
}
