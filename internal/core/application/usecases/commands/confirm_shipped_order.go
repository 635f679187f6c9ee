package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrReconciliationRequired means a carrier shipment exists but the order
// could not be confirmed. The shipment is never cancelled automatically.
var ErrReconciliationRequired = errors.New("shipment created but order not confirmed")

// ReconciliationRequiredError names the shipment an operator has to reconcile.
// It unwraps to both ErrReconciliationRequired and the cause, so
// errors.Is(err, order.ErrInvalidTransition) still tells a refused transition
// apart from a persistence failure.
type ReconciliationRequiredError struct {
	OrderID      kernel.UUID
	IntentID     kernel.UUID
	TrackingCode string
	Cause        error
}

func (e *ReconciliationRequiredError) Error() string {
	return fmt.Sprintf("%s: order %s, tracking code %s: %v",
		ErrReconciliationRequired, e.OrderID, e.TrackingCode, e.Cause)
}

func (e *ReconciliationRequiredError) Unwrap() []error {
	return []error{ErrReconciliationRequired, e.Cause}
}

// confirmShippedOrder writes the second saga step: in one transaction the
// order moves to Confirmed with the intent's tracking code and the intent to
// StatusConfirmed. The passed intent is left untouched; on success the
// confirmed copy is returned.
func confirmShippedOrder(
	ctx context.Context,
	uowFactory UoWFactory,
	intent *fulfillment.Intent,
	now time.Time,
) (*fulfillment.Intent, error) {
	if intent.TrackingCode() == "" {
		return nil, errs.NewValueIsRequiredError("tracking code")
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	fulfillmentRepo := uow.FulfillmentRepository()

	o, err := orderRepo.Get(ctx, intent.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Transition(order.Confirmed, order.TransitionExtra{TrackingCode: intent.TrackingCode()}); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	confirmed := intent.Clone()
	if err = confirmed.MarkStatusConfirmed(now); err != nil {
		return nil, err
	}

	if err = fulfillmentRepo.Update(ctx, confirmed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return confirmed, nil
}

func confirmedMessage(orderID kernel.UUID, trackingCode string) string {
	return fmt.Sprintf("Order %s confirmed. Shipment created with tracking code %s.", orderID, trackingCode)
}

func reconciliationMessage(orderID kernel.UUID, trackingCode string, cause error) string {
	return fmt.Sprintf(
		"Shipment %s was created for order %s but the order could not be confirmed (%v). "+
			"The shipment was not cancelled: reconcile it with the carrier.",
		trackingCode, orderID, cause,
	)
}
