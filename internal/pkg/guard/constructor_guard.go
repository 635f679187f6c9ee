// Package guard provides ConstructorGuard, a marker embedded in aggregates,
// commands and queries so that zero-value instances fail validation.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. A struct that embeds it
// and was built as a literal keeps the zero value and fails Validate.
//
//	type ConfirmAndShipCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c ConfirmAndShipCommand) Validate() error {
//	    return c.guard.Validate(ErrConfirmAndShipCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// for a zero-value guard and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
