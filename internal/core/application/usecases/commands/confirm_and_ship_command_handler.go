package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ConfirmOutcome tells how far a confirm-and-ship attempt got.
type ConfirmOutcome string

const (
	// OutcomeRejected: nothing was sent to the carrier.
	OutcomeRejected ConfirmOutcome = "rejected"

	// OutcomeShipmentFailed: the carrier refused or could not be reached.
	// The order is unchanged.
	OutcomeShipmentFailed ConfirmOutcome = "shipment_failed"

	// OutcomeConfirmed: shipment created and order confirmed.
	OutcomeConfirmed ConfirmOutcome = "confirmed"

	// OutcomeNeedsReconciliation: shipment created, order not confirmed.
	OutcomeNeedsReconciliation ConfirmOutcome = "needs_reconciliation"
)

// ConfirmAndShipResult is what the operator is told about an attempt.
type ConfirmAndShipResult struct {
	Outcome      ConfirmOutcome
	TrackingCode string
	IntentID     kernel.UUID
	Message      string
}

// ConfirmPolicy holds the caller-side decisions the orchestration leaves open.
type ConfirmPolicy struct {
	// RequireCompleteAddress blocks confirmation when ward, district or
	// province cannot be read from the address.
	RequireCompleteAddress bool
}

// ConfirmAndShipCommandHandler turns a confirmed sales order into a carrier
// shipment and confirms the order with the returned tracking code.
//
// The two side effects commit independently, shipment first:
//  1. read the order and check it can still be confirmed
//  2. resolve the address and build the shipment request
//  3. record a fulfillment intent (shipment_requested)
//  4. create the shipment, once, without retry
//  5. confirm the order and the intent in one transaction
//
// A carrier failure leaves the order untouched. A failure in step 5 never
// cancels the shipment; the intent is flagged needs_reconciliation and the
// operator gets a warning instead.
//
// Example:
//
//	handler := NewConfirmAndShipCommandHandler(uowFactory, builder, carrier, notifier, ConfirmPolicy{}, logger)
//	cmd, _ := NewConfirmAndShipCommand(orderID, "")
//
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, shipment.ErrCarrierRejected):
//	    // result.Message holds the carrier's own text
//	case errors.Is(err, ErrReconciliationRequired):
//	    // result.TrackingCode names the orphan shipment
//	}
type ConfirmAndShipCommandHandler struct {
	uowFactory UoWFactory
	builder    services.ShipmentRequestBuilder
	carrier    ports.CarrierGateway
	notifier   ports.NotificationSink
	policy     ConfirmPolicy
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewConfirmAndShipCommandHandler creates the fulfillment orchestrator.
func NewConfirmAndShipCommandHandler(
	uowFactory UoWFactory,
	builder services.ShipmentRequestBuilder,
	carrier ports.CarrierGateway,
	notifier ports.NotificationSink,
	policy ConfirmPolicy,
	logger *slog.Logger,
) ConfirmAndShipCommandHandler {
	return ConfirmAndShipCommandHandler{
		uowFactory: uowFactory,
		builder:    builder,
		carrier:    carrier,
		notifier:   notifier,
		policy:     policy,
		logger:     logger.With("component", "confirm_and_ship"),
		tracer:     otel.Tracer("fulfillment/commands"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle runs one confirm-and-ship attempt. Every failure is returned, none is
// retried.
func (h ConfirmAndShipCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmAndShipCommand,
) (ConfirmAndShipResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmAndShipResult{Outcome: OutcomeRejected}, err
	}

	ctx, span := h.tracer.Start(ctx, "ConfirmAndShip",
		trace.WithAttributes(attribute.String("order.id", cmd.OrderID().String())))
	defer span.End()

	repos := h.uowFactory.Create()

	req, err := h.prepare(ctx, repos.OrderRepository(), cmd)
	if err != nil {
		return h.reject(ctx, span, cmd.OrderID(), err)
	}

	intent, err := h.recordIntent(ctx, repos.FulfillmentRepository(), cmd, req)
	if err != nil {
		return h.reject(ctx, span, cmd.OrderID(), err)
	}

	// From here on the attempt runs to completion even if the caller goes away:
	// a dispatched shipment cannot be called back.
	ctx = context.WithoutCancel(ctx)

	receipt, err := h.createShipment(ctx, req)
	if err != nil {
		return h.failShipment(ctx, span, repos.FulfillmentRepository(), intent, err)
	}

	if err = intent.MarkShipmentCreated(receipt.TrackingCode, h.now()); err != nil {
		return h.flagForReconciliation(ctx, span, repos.FulfillmentRepository(), intent, err)
	}
	if err = repos.FulfillmentRepository().Update(ctx, intent); err != nil {
		// The confirm transaction below rewrites the intent anyway.
		h.logger.WarnContext(ctx, "Failed to record created shipment",
			"intent_id", intent.ID().String(), "tracking_code", intent.TrackingCode(), "error", err)
	}

	confirmed, err := confirmShippedOrder(ctx, h.uowFactory, intent, h.now())
	if err != nil {
		return h.flagForReconciliation(ctx, span, repos.FulfillmentRepository(), intent, err)
	}

	message := confirmedMessage(cmd.OrderID(), confirmed.TrackingCode())
	h.notifier.Notify(ctx, ports.Notification{
		Level:        ports.NotificationSuccess,
		OrderID:      cmd.OrderID().String(),
		TrackingCode: confirmed.TrackingCode(),
		Message:      message,
	})
	h.logger.InfoContext(ctx, "Order confirmed and shipped",
		"order_id", cmd.OrderID().String(), "tracking_code", confirmed.TrackingCode())

	return ConfirmAndShipResult{
		Outcome:      OutcomeConfirmed,
		TrackingCode: confirmed.TrackingCode(),
		IntentID:     confirmed.ID(),
		Message:      message,
	}, nil
}

// prepare reads the order and derives the shipment request without side effects.
func (h ConfirmAndShipCommandHandler) prepare(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	cmd ConfirmAndShipCommand,
) (shipment.Request, error) {
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return shipment.Request{}, err
	}

	if err = o.ValidateTransition(order.Confirmed); err != nil {
		return shipment.Request{}, err
	}

	address := h.builder.ResolveAddress(o)
	if h.policy.RequireCompleteAddress && !address.IsComplete() {
		return shipment.Request{}, &shipment.AddressIncompleteError{
			Address:    o.Recipient().Address,
			Components: address,
		}
	}

	return h.builder.Build(o, cmd.Note())
}

func (h ConfirmAndShipCommandHandler) recordIntent(
	ctx context.Context,
	fulfillmentRepo ports.FulfillmentRepository,
	cmd ConfirmAndShipCommand,
	req shipment.Request,
) (*fulfillment.Intent, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode shipment request: %w", err)
	}

	intent, err := fulfillment.NewIntent(cmd.OrderID(), cmd.Note(), payload, telemetry.TraceID(ctx), h.now())
	if err != nil {
		return nil, err
	}

	if err = fulfillmentRepo.Add(ctx, intent); err != nil {
		return nil, fmt.Errorf("record fulfillment intent: %w", err)
	}

	return intent, nil
}

func (h ConfirmAndShipCommandHandler) createShipment(ctx context.Context, req shipment.Request) (shipment.Receipt, error) {
	ctx, span := h.tracer.Start(ctx, "CarrierGateway.CreateShipment")
	defer span.End()

	receipt, err := h.carrier.CreateShipment(ctx, req)
	if err == nil && strings.TrimSpace(receipt.TrackingCode) == "" {
		err = shipment.NewCarrierRejectedError("carrier returned no tracking code")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "shipment not created")
		return shipment.Receipt{}, err
	}

	span.SetAttributes(attribute.String("shipment.tracking_code", receipt.TrackingCode))
	return receipt, nil
}

func (h ConfirmAndShipCommandHandler) reject(
	ctx context.Context,
	span trace.Span,
	orderID kernel.UUID,
	err error,
) (ConfirmAndShipResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "rejected before shipment")

	h.notifier.Notify(ctx, ports.Notification{
		Level:   ports.NotificationError,
		OrderID: orderID.String(),
		Message: err.Error(),
	})
	h.logger.InfoContext(ctx, "Order confirmation rejected", "order_id", orderID.String(), "error", err)

	return ConfirmAndShipResult{Outcome: OutcomeRejected, Message: err.Error()}, err
}

func (h ConfirmAndShipCommandHandler) failShipment(
	ctx context.Context,
	span trace.Span,
	fulfillmentRepo ports.FulfillmentRepository,
	intent *fulfillment.Intent,
	err error,
) (ConfirmAndShipResult, error) {
	span.SetStatus(codes.Error, "shipment not created")
	message := CarrierMessage(err)

	if markErr := intent.MarkShipmentFailed(message, h.now()); markErr == nil {
		if saveErr := fulfillmentRepo.Update(ctx, intent); saveErr != nil {
			h.logger.ErrorContext(ctx, "Failed to record failed shipment",
				"intent_id", intent.ID().String(), "error", saveErr)
		}
	}

	h.notifier.Notify(ctx, ports.Notification{
		Level:   ports.NotificationError,
		OrderID: intent.OrderID().String(),
		Message: message,
	})
	h.logger.WarnContext(ctx, "Carrier shipment failed",
		"order_id", intent.OrderID().String(), "intent_id", intent.ID().String(), "error", err)

	return ConfirmAndShipResult{
		Outcome:  OutcomeShipmentFailed,
		IntentID: intent.ID(),
		Message:  message,
	}, err
}

func (h ConfirmAndShipCommandHandler) flagForReconciliation(
	ctx context.Context,
	span trace.Span,
	fulfillmentRepo ports.FulfillmentRepository,
	intent *fulfillment.Intent,
	cause error,
) (ConfirmAndShipResult, error) {
	span.RecordError(cause)
	span.SetStatus(codes.Error, "shipment created, order not confirmed")

	if err := intent.MarkNeedsReconciliation(cause.Error(), h.now()); err != nil {
		h.logger.ErrorContext(ctx, "Failed to flag intent", "intent_id", intent.ID().String(), "error", err)
	} else if err = fulfillmentRepo.Update(ctx, intent); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record intent needing reconciliation",
			"intent_id", intent.ID().String(), "error", err)
	}

	message := reconciliationMessage(intent.OrderID(), intent.TrackingCode(), cause)
	h.notifier.Notify(ctx, ports.Notification{
		Level:        ports.NotificationWarning,
		OrderID:      intent.OrderID().String(),
		TrackingCode: intent.TrackingCode(),
		Message:      message,
	})
	h.logger.ErrorContext(ctx, "Shipment created but order not confirmed",
		"order_id", intent.OrderID().String(),
		"intent_id", intent.ID().String(),
		"tracking_code", intent.TrackingCode(),
		"error", cause,
	)

	return ConfirmAndShipResult{
			Outcome:      OutcomeNeedsReconciliation,
			TrackingCode: intent.TrackingCode(),
			IntentID:     intent.ID(),
			Message:      message,
		}, &ReconciliationRequiredError{
			OrderID:      intent.OrderID(),
			IntentID:     intent.ID(),
			TrackingCode: intent.TrackingCode(),
			Cause:        cause,
		}
}

// CarrierMessage returns the carrier's own text for a shipment failure, or
// the error text for anything else.
func CarrierMessage(err error) string {
	var carrierErr *shipment.CarrierError
	if errors.As(err, &carrierErr) && carrierErr.Message != "" {
		return carrierErr.Message
	}
	return err.Error()
}
