package commands

import (
	"context"
	"time"
)

// ResolveFulfillmentCommandHandler marks a needs_reconciliation intent as
// handled. It does not change the order; the operator does that through the
// regular status operations if needed.
type ResolveFulfillmentCommandHandler struct {
	uowFactory UoWFactory
	now        func() time.Time
}

func NewResolveFulfillmentCommandHandler(uowFactory UoWFactory) ResolveFulfillmentCommandHandler {
	return ResolveFulfillmentCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle returns fulfillment.ErrInvalidStageTransition when the intent is
// not waiting for reconciliation.
func (h ResolveFulfillmentCommandHandler) Handle(ctx context.Context, cmd ResolveFulfillmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	fulfillmentRepo := h.uowFactory.Create().FulfillmentRepository()

	intent, err := fulfillmentRepo.Get(ctx, cmd.IntentID())
	if err != nil {
		return err
	}

	if err = intent.Resolve(cmd.Note(), h.now()); err != nil {
		return err
	}

	return fulfillmentRepo.Update(ctx, intent)
}
