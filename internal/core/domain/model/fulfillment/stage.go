package fulfillment

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Stage is the progress of an intent.
type Stage int

const (
	StageUnknown Stage = iota

	// ShipmentRequested is recorded before the carrier call.
	ShipmentRequested

	// ShipmentCreated means the carrier returned a tracking code and the
	// order has not been confirmed yet.
	ShipmentCreated

	// StatusConfirmed is terminal: shipment and order agree.
	StatusConfirmed

	// ShipmentFailed is terminal: no shipment exists.
	ShipmentFailed

	// NeedsReconciliation means a shipment may exist without a confirmed order.
	NeedsReconciliation

	// Resolved is terminal: an operator handled the mismatch.
	Resolved
)

var stageNames = map[Stage]string{
	ShipmentRequested:   "shipment_requested",
	ShipmentCreated:     "shipment_created",
	StatusConfirmed:     "status_confirmed",
	ShipmentFailed:      "shipment_failed",
	NeedsReconciliation: "needs_reconciliation",
	Resolved:            "resolved",
}

var stageNext = map[Stage]map[Stage]bool{
	ShipmentRequested:   {ShipmentCreated: true, ShipmentFailed: true, NeedsReconciliation: true},
	ShipmentCreated:     {StatusConfirmed: true, NeedsReconciliation: true},
	NeedsReconciliation: {Resolved: true},
}

func ParseStage(s string) (Stage, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for stage, name := range stageNames {
		if name == normalized {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%q is not a valid stage", s))
}

func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsInProgress reports whether the attempt stopped between steps.
func (s Stage) IsInProgress() bool {
	return s == ShipmentRequested || s == ShipmentCreated
}

func (s Stage) IsTerminal() bool {
	return s == StatusConfirmed || s == ShipmentFailed || s == Resolved
}

func (s Stage) canMoveTo(target Stage) error {
	if !stageNext[s][target] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStageTransition, s, target)
	}
	return nil
}
