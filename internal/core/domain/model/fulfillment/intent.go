package fulfillment

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrIntentIsNotConstructed  = errors.New("Intent must be created via NewIntent constructor")
	ErrInvalidStageTransition = errors.New("invalid fulfillment stage transition")
)

// Intent is the saga record of one confirm-and-ship attempt.
type Intent struct {
	id           kernel.UUID
	orderID      kernel.UUID
	stage        Stage
	trackingCode string
	note         string

	// payload is the JSON snapshot of the shipment request, kept for audit.
	payload       []byte
	errorMessages []string
	traceID       string

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewIntent records that a shipment is about to be requested for orderID.
func NewIntent(orderID kernel.UUID, note string, payload []byte, traceID string, now time.Time) (*Intent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("created at")
	}

	return &Intent{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		stage:         ShipmentRequested,
		note:          note,
		payload:       cloneBytes(payload),
		traceID:       traceID,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreIntent rebuilds an intent from persistence.
func RestoreIntent(
	id kernel.UUID,
	orderID kernel.UUID,
	stage Stage,
	trackingCode string,
	note string,
	payload []byte,
	errorMessages []string,
	traceID string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Intent, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), stage.Validate()); err != nil {
		return nil, err
	}
	if trackingCode == "" && (stage == ShipmentCreated || stage == StatusConfirmed) {
		return nil, errs.NewValueIsRequiredError("tracking code")
	}

	return &Intent{
		id:            id,
		orderID:       orderID,
		stage:         stage,
		trackingCode:  trackingCode,
		note:          note,
		payload:       cloneBytes(payload),
		errorMessages: append([]string(nil), errorMessages...),
		traceID:       traceID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

func (i *Intent) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrIntentIsNotConstructed
	}
	return nil
}

func (i *Intent) ID() kernel.UUID {
	return i.id
}

func (i *Intent) OrderID() kernel.UUID {
	return i.orderID
}

func (i *Intent) Stage() Stage {
	return i.stage
}

func (i *Intent) TrackingCode() string {
	return i.trackingCode
}

func (i *Intent) Note() string {
	return i.note
}

func (i *Intent) Payload() []byte {
	return cloneBytes(i.payload)
}

func (i *Intent) TraceID() string {
	return i.traceID
}

func (i *Intent) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Intent) UpdatedAt() time.Time {
	return i.updatedAt
}

func (i *Intent) ErrorMessages() []string {
	return append([]string(nil), i.errorMessages...)
}

// LastError returns the most recent recorded error message, if any.
func (i *Intent) LastError() string {
	if len(i.errorMessages) == 0 {
		return ""
	}
	return i.errorMessages[len(i.errorMessages)-1]
}

// Clone returns an independent copy, so a change applied inside a
// transaction can be dropped when the transaction fails.
func (i *Intent) Clone() *Intent {
	clone := *i
	clone.payload = cloneBytes(i.payload)
	clone.errorMessages = append([]string(nil), i.errorMessages...)
	return &clone
}

// MarkShipmentCreated stores the carrier tracking code.
func (i *Intent) MarkShipmentCreated(trackingCode string, now time.Time) error {
	trackingCode = strings.TrimSpace(trackingCode)
	if trackingCode == "" {
		return errs.NewValueIsRequiredError("tracking code")
	}
	if err := i.moveTo(ShipmentCreated, now); err != nil {
		return err
	}
	i.trackingCode = trackingCode
	return nil
}

// MarkShipmentFailed records the carrier's message. No shipment exists.
func (i *Intent) MarkShipmentFailed(message string, now time.Time) error {
	if err := i.moveTo(ShipmentFailed, now); err != nil {
		return err
	}
	i.appendError(message)
	return nil
}

// MarkStatusConfirmed closes a successful attempt.
func (i *Intent) MarkStatusConfirmed(now time.Time) error {
	return i.moveTo(StatusConfirmed, now)
}

// MarkNeedsReconciliation flags the attempt for an operator.
func (i *Intent) MarkNeedsReconciliation(reason string, now time.Time) error {
	if err := i.moveTo(NeedsReconciliation, now); err != nil {
		return err
	}
	i.appendError(reason)
	return nil
}

// Resolve closes a flagged attempt with the operator's note.
func (i *Intent) Resolve(note string, now time.Time) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return errs.NewValueIsRequiredError("resolution note")
	}
	if err := i.moveTo(Resolved, now); err != nil {
		return err
	}
	i.appendError("resolved: " + note)
	return nil
}

func (i *Intent) moveTo(target Stage, now time.Time) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if err := i.stage.canMoveTo(target); err != nil {
		return err
	}
	i.stage = target
	if now.After(i.updatedAt) {
		i.updatedAt = now
	}
	return nil
}

func (i *Intent) appendError(message string) {
	message = strings.TrimSpace(message)
	if message != "" {
		i.errorMessages = append(i.errorMessages, message)
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
