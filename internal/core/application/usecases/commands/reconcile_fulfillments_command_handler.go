package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/ports"
)

// unknownOutcomeReason is recorded for attempts that stopped during the carrier call.
const unknownOutcomeReason = "carrier call outcome unknown: the attempt stopped before a response was recorded"

// ReconcileFulfillmentsResult counts what one run did.
type ReconcileFulfillmentsResult struct {
	// Confirmed intents had a shipment and their order was confirmed now.
	Confirmed int

	// Flagged intents were moved to needs_reconciliation.
	Flagged int
}

// ReconcileFulfillmentsCommandHandler finishes or flags stalled attempts.
//
// Rules per stalled intent:
//   - shipment_requested: the carrier may or may not have created a
//     shipment, so the intent is flagged. The carrier is never called again.
//   - shipment_created: the local status write is completed when the order
//     can still be confirmed, otherwise the intent is flagged.
type ReconcileFulfillmentsCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.NotificationSink
	logger     *slog.Logger
	now        func() time.Time
}

func NewReconcileFulfillmentsCommandHandler(
	uowFactory UoWFactory,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) ReconcileFulfillmentsCommandHandler {
	return ReconcileFulfillmentsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "reconcile_fulfillments"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes every stalled intent. A failure on one intent does not
// stop the others; all failures are joined into the returned error.
func (h ReconcileFulfillmentsCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileFulfillmentsCommand,
) (ReconcileFulfillmentsResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileFulfillmentsResult{}, err
	}

	now := h.now()
	fulfillmentRepo := h.uowFactory.Create().FulfillmentRepository()

	intents, err := fulfillmentRepo.GetAllInProgressBefore(ctx, now.Add(-cmd.StaleAfter()))
	if err != nil {
		return ReconcileFulfillmentsResult{}, err
	}

	var (
		result   ReconcileFulfillmentsResult
		failures []error
	)
	for _, intent := range intents {
		switch intent.Stage() {
		case fulfillment.ShipmentCreated:
			confirmed, confirmErr := confirmShippedOrder(ctx, h.uowFactory, intent, now)
			if confirmErr == nil {
				result.Confirmed++
				h.notifier.Notify(ctx, ports.Notification{
					Level:        ports.NotificationSuccess,
					OrderID:      confirmed.OrderID().String(),
					TrackingCode: confirmed.TrackingCode(),
					Message:      confirmedMessage(confirmed.OrderID(), confirmed.TrackingCode()),
				})
				h.logger.InfoContext(ctx, "Completed stalled confirmation",
					"intent_id", intent.ID().String(), "tracking_code", intent.TrackingCode())
				continue
			}
			if flagErr := h.flag(ctx, fulfillmentRepo, intent, confirmErr); flagErr != nil {
				failures = append(failures, flagErr)
				continue
			}
			result.Flagged++
		case fulfillment.ShipmentRequested:
			if flagErr := h.flag(ctx, fulfillmentRepo, intent, errors.New(unknownOutcomeReason)); flagErr != nil {
				failures = append(failures, flagErr)
				continue
			}
			result.Flagged++
		}
	}

	return result, errors.Join(failures...)
}

func (h ReconcileFulfillmentsCommandHandler) flag(
	ctx context.Context,
	fulfillmentRepo ports.FulfillmentRepository,
	intent *fulfillment.Intent,
	cause error,
) error {
	if err := intent.MarkNeedsReconciliation(cause.Error(), h.now()); err != nil {
		return fmt.Errorf("intent %s: %w", intent.ID(), err)
	}
	if err := fulfillmentRepo.Update(ctx, intent); err != nil {
		return fmt.Errorf("intent %s: %w", intent.ID(), err)
	}

	message := reconciliationMessage(intent.OrderID(), intent.TrackingCode(), cause)
	if intent.TrackingCode() == "" {
		message = fmt.Sprintf(
			"Confirmation of order %s stopped during the carrier call. Check with the carrier whether a shipment exists.",
			intent.OrderID(),
		)
	}

	h.notifier.Notify(ctx, ports.Notification{
		Level:        ports.NotificationWarning,
		OrderID:      intent.OrderID().String(),
		TrackingCode: intent.TrackingCode(),
		Message:      message,
	})
	h.logger.WarnContext(ctx, "Fulfillment needs reconciliation",
		"intent_id", intent.ID().String(),
		"order_id", intent.OrderID().String(),
		"stage_was", intent.Stage().String(),
		"error", cause,
	)
	return nil
}
