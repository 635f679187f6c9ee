package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel behind every refused status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError describes a refused status change.
type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──┬──> Unpaid ──┬──> Paid ──┐
//	          │             │           │
//	          ├──> Paid ────┼───────────┴──> Confirmed ──> Delivering ──> Delivered
//	          │             │                    ▲
//	          └─────────────┴────────────────────┘
//
//	Cancelled is reachable from every state except Delivered and Cancelled.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Pending is the initial state of every placed order.
	Pending

	// Unpaid marks a non-cash order whose online payment has not arrived.
	Unpaid

	// Paid marks a non-cash order paid through its online channel.
	Paid

	// Confirmed means the order was accepted and, when shipped by carrier,
	// has a tracking code.
	Confirmed

	// Delivering means the carrier picked the parcel up.
	Delivering

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

// validNext lists the targets reachable from each state.
var validNext = map[Status]map[Status]bool{
	Pending:    {Unpaid: true, Paid: true, Confirmed: true, Cancelled: true},
	Unpaid:     {Paid: true, Confirmed: true, Cancelled: true},
	Paid:       {Confirmed: true, Cancelled: true},
	Confirmed:  {Delivering: true, Cancelled: true},
	Delivering: {Delivered: true, Cancelled: true},
	Delivered:  {},
	Cancelled:  {},
}

var statusNames = map[Status]string{
	Pending:    "pending",
	Unpaid:     "unpaid",
	Paid:       "paid",
	Confirmed:  "confirmed",
	Delivering: "delivering",
	Delivered:  "delivered",
	Cancelled:  "cancelled",
}

// ParseStatus maps the lowercase API/persistence name back to a Status.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for status, name := range statusNames {
		if name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveTrackingCode checks that a tracking code only exists once
// the order has been confirmed. Cancelled orders may keep the code of a
// shipment created before the cancellation.
func (s Status) ValidateCanHaveTrackingCode(hasTrackingCode bool) error {
	if hasTrackingCode && (s == Pending || s == Unpaid || s == Paid) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a tracking code", s),
		)
	}
	return nil
}

// ValidateTransition checks that target is reachable from s without changing anything.
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !validNext[s][target] {
		return &InvalidTransitionError{From: s, To: target}
	}
	return nil
}

// TransitionTo returns target when the move is allowed.
//
//	next, err := order.Pending.TransitionTo(order.Confirmed) // Confirmed, nil
//	_, err = order.Cancelled.TransitionTo(order.Confirmed)   // ErrInvalidTransition
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := s.ValidateTransition(target); err != nil {
		return Unknown, err
	}
	return target, nil
}
