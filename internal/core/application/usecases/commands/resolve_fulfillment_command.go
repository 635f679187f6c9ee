package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrResolveFulfillmentCommandIsNotConstructed = errors.New(
	"ResolveFulfillmentCommand must be created via NewResolveFulfillmentCommand constructor",
)

// ResolveFulfillmentCommand closes an intent an operator reconciled by hand.
type ResolveFulfillmentCommand struct { //nolint:recvcheck //using for validation
	intentID kernel.UUID
	note     string

	guard guard.ConstructorGuard
}

// NewResolveFulfillmentCommand requires the intent ID and a note saying what was done.
func NewResolveFulfillmentCommand(intentID kernel.UUID, note string) (ResolveFulfillmentCommand, error) {
	cmd := ResolveFulfillmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIntentID(intentID),
		cmd.setNote(note),
	); err != nil {
		return ResolveFulfillmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrResolveFulfillmentCommandIsNotConstructed)
}

func (c ResolveFulfillmentCommand) IntentID() kernel.UUID {
	return c.intentID
}

func (c ResolveFulfillmentCommand) Note() string {
	return c.note
}

func (c *ResolveFulfillmentCommand) setIntentID(intentID kernel.UUID) error {
	if err := intentID.Validate(); err != nil {
		return err
	}

	c.intentID = intentID
	return nil
}

func (c *ResolveFulfillmentCommand) setNote(note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return errs.NewValueIsRequiredError("resolution note")
	}

	c.note = note
	return nil
}
