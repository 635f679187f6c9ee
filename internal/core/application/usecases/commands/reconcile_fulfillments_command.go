package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReconcileFulfillmentsCommandIsNotConstructed = errors.New(
	"ReconcileFulfillmentsCommand must be created via NewReconcileFulfillmentsCommand constructor",
)

// ReconcileFulfillmentsCommand looks for confirm-and-ship attempts that
// stopped between steps, e.g. because the process crashed.
//
// Example:
//
//	cmd, _ := NewReconcileFulfillmentsCommand(5 * time.Minute)
//	result, err := handler.Handle(ctx, cmd)
type ReconcileFulfillmentsCommand struct {
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

// NewReconcileFulfillmentsCommand requires a positive age. Attempts younger
// than staleAfter may still be running and are left alone.
func NewReconcileFulfillmentsCommand(staleAfter time.Duration) (ReconcileFulfillmentsCommand, error) {
	if staleAfter <= 0 {
		return ReconcileFulfillmentsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"stale after",
			fmt.Errorf("%s is not greater than 0", staleAfter),
		)
	}

	return ReconcileFulfillmentsCommand{
		staleAfter: staleAfter,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileFulfillmentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileFulfillmentsCommandIsNotConstructed)
}

func (c ReconcileFulfillmentsCommand) StaleAfter() time.Duration {
	return c.staleAfter
}
