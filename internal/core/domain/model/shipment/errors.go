package shipment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOrder is returned when an order without line items is shipped.
	ErrEmptyOrder = errors.New("order has no details to ship")

	// ErrAddressIncomplete is returned when ward, district or province is
	// missing and the caller requires a complete address.
	ErrAddressIncomplete = errors.New("address is incomplete")

	// ErrCarrierRejected means the carrier answered and refused the shipment.
	ErrCarrierRejected = errors.New("carrier rejected shipment")

	// ErrCarrierUnavailable means the carrier could not be reached or failed
	// on its side.
	ErrCarrierUnavailable = errors.New("carrier unavailable")
)

// CarrierError carries the carrier's own message. Message is shown to the
// operator as is.
type CarrierError struct {
	// Kind is ErrCarrierRejected or ErrCarrierUnavailable.
	Kind    error
	Message string
	Cause   error
}

func NewCarrierRejectedError(message string) *CarrierError {
	return &CarrierError{Kind: ErrCarrierRejected, Message: message}
}

func NewCarrierUnavailableError(message string, cause error) *CarrierError {
	return &CarrierError{Kind: ErrCarrierUnavailable, Message: message, Cause: cause}
}

func (e *CarrierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CarrierError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// AddressIncompleteError lists the missing parts of an address.
type AddressIncompleteError struct {
	Address    string
	Components AddressComponents
}

func (e *AddressIncompleteError) Error() string {
	var missing []string
	if e.Components.Ward == "" {
		missing = append(missing, "ward")
	}
	if e.Components.District == "" {
		missing = append(missing, "district")
	}
	if e.Components.Province == "" {
		missing = append(missing, "province")
	}
	return fmt.Sprintf("%s: %q is missing %v", ErrAddressIncomplete, e.Address, missing)
}

func (e *AddressIncompleteError) Unwrap() error {
	return ErrAddressIncomplete
}
