package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Recipient is who the parcel goes to. Address is a single comma-delimited
// string, most specific segment first.
type Recipient struct {
	Name    string
	Phone   string
	Address string
}

// Charges are the order-level amounts added to or removed from the line totals.
type Charges struct {
	ShippingFee      kernel.Money
	DiscountOrder    kernel.Money
	DiscountShipping kernel.Money
}

// TransitionExtra carries the fields some transitions set alongside the status.
type TransitionExtra struct {
	// TrackingCode is accepted only on the transition to Confirmed.
	TrackingCode string

	// CanceledReason is required on the transition to Cancelled.
	CanceledReason string
}

// Order is the sales order aggregate root.
//
// Order follows these invariants:
//   - Must have a valid identifier and payment method
//   - Charges and line prices are non-negative, quantities positive
//   - Status changes only through Transition
//   - A tracking code exists only from Confirmed onwards
type Order struct {
	id                  kernel.UUID
	status              Status
	paymentMethod       PaymentMethod
	onlinePaymentStatus OnlinePaymentStatus
	recipient           Recipient
	charges             Charges
	details             []LineItem
	trackingCode        *string
	canceledReason      string

	isConstructed bool
}

// NewOrder places an order in Pending status with an unpaid online payment.
// Empty details are accepted here; shipping such an order fails later with
// shipment.ErrEmptyOrder.
//
//	item, _ := order.NewLineItem("T-shirt / M", 150000, 2)
//	o, err := order.NewOrder(
//	    kernel.NewUUID(),
//	    order.Recipient{Name: "An", Phone: "0900000000", Address: "12 Main St, Ward 5, District 3, HCMC"},
//	    order.CashOnDelivery,
//	    order.Charges{ShippingFee: 30000},
//	    []order.LineItem{item},
//	)
func NewOrder(
	id kernel.UUID,
	recipient Recipient,
	paymentMethod PaymentMethod,
	charges Charges,
	details []LineItem,
) (*Order, error) {
	o := &Order{
		status:              Pending,
		onlinePaymentStatus: OnlinePaymentUnpaid,
		isConstructed:       true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRecipient(recipient),
		o.setPaymentMethod(paymentMethod),
		o.setCharges(charges),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence, re-checking every invariant.
func RestoreOrder(
	id kernel.UUID,
	recipient Recipient,
	paymentMethod PaymentMethod,
	onlinePaymentStatus OnlinePaymentStatus,
	charges Charges,
	details []LineItem,
	status Status,
	trackingCode *string,
	canceledReason string,
) (*Order, error) {
	o, err := NewOrder(id, recipient, paymentMethod, charges, details)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(
		status.Validate(),
		onlinePaymentStatus.Validate(),
		status.ValidateCanHaveTrackingCode(trackingCode != nil),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.onlinePaymentStatus = onlinePaymentStatus
	o.canceledReason = canceledReason
	if trackingCode != nil {
		code := *trackingCode
		o.trackingCode = &code
	}

	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) OnlinePaymentStatus() OnlinePaymentStatus {
	return o.onlinePaymentStatus
}

func (o *Order) Recipient() Recipient {
	return o.recipient
}

func (o *Order) Charges() Charges {
	return o.charges
}

// Details returns a copy of the line items in order.
func (o *Order) Details() []LineItem {
	details := make([]LineItem, len(o.details))
	copy(details, o.details)
	return details
}

// TrackingCode returns nil until a shipment was linked on confirmation.
func (o *Order) TrackingCode() *string {
	if o.trackingCode == nil {
		return nil
	}
	code := *o.trackingCode
	return &code
}

func (o *Order) CanceledReason() string {
	return o.canceledReason
}

// CheckoutTotal is Σ(price × quantity) + shipping_fee − discount_order − discount_shipping.
func (o *Order) CheckoutTotal() kernel.Money {
	var total kernel.Money
	for _, item := range o.details {
		total += item.Subtotal()
	}
	return total + o.charges.ShippingFee - o.charges.DiscountOrder - o.charges.DiscountShipping
}

// CODAmount is the amount the carrier collects: the checkout total for
// cash-on-delivery orders and zero for every other payment method.
func (o *Order) CODAmount() kernel.Money {
	if !o.paymentMethod.IsCashOnDelivery() {
		return 0
	}
	return o.CheckoutTotal()
}

// ValidateTransition checks a status change without applying it.
func (o *Order) ValidateTransition(target Status) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if (target == Paid || target == Unpaid) && o.paymentMethod.IsCashOnDelivery() {
		return &InvalidTransitionError{
			From:   o.status,
			To:     target,
			Reason: "cash-on-delivery orders have no online payment",
		}
	}
	return o.status.ValidateTransition(target)
}

// Transition moves the order to target and applies the extra fields.
//
// Business rules:
//   - target must be reachable from the current status
//   - extra.TrackingCode may only accompany Confirmed
//   - extra.CanceledReason is required for Cancelled and rejected otherwise
//   - moving to Paid records the online payment as paid
//
// On error the order is left untouched.
//
//	err := o.Transition(order.Confirmed, order.TransitionExtra{TrackingCode: "GHN123"})
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // e.g. cancelled by someone else in the meantime
//	}
func (o *Order) Transition(target Status, extra TransitionExtra) error {
	if err := o.ValidateTransition(target); err != nil {
		return err
	}

	trackingCode := strings.TrimSpace(extra.TrackingCode)
	canceledReason := strings.TrimSpace(extra.CanceledReason)

	if trackingCode != "" && target != Confirmed {
		return errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("cannot be set on transition to %s", target),
		)
	}
	if target == Cancelled && canceledReason == "" {
		return errs.NewValueIsRequiredError("canceled reason")
	}
	if target != Cancelled && canceledReason != "" {
		return errs.NewValueIsInvalidErrorWithCause(
			"canceled reason",
			fmt.Errorf("cannot be set on transition to %s", target),
		)
	}

	o.status = target
	if trackingCode != "" {
		o.trackingCode = &trackingCode
	}
	if target == Cancelled {
		o.canceledReason = canceledReason
	}
	if target == Paid {
		o.onlinePaymentStatus = OnlinePaymentPaid
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRecipient(recipient Recipient) error {
	recipient.Name = strings.TrimSpace(recipient.Name)
	recipient.Phone = strings.TrimSpace(recipient.Phone)
	recipient.Address = strings.TrimSpace(recipient.Address)

	var problems []error
	if recipient.Phone == "" {
		problems = append(problems, errs.NewValueIsRequiredError("phone number"))
	}
	if recipient.Address == "" {
		problems = append(problems, errs.NewValueIsRequiredError("address"))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	o.recipient = recipient
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setCharges(charges Charges) error {
	if err := errors.Join(
		charges.ShippingFee.ValidateNonNegative("shipping fee"),
		charges.DiscountOrder.ValidateNonNegative("discount order"),
		charges.DiscountShipping.ValidateNonNegative("discount shipping"),
	); err != nil {
		return err
	}
	o.charges = charges
	return nil
}

func (o *Order) setDetails(details []LineItem) error {
	for i, item := range details {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("order detail %d: %w", i, err)
		}
	}
	o.details = make([]LineItem, len(details))
	copy(o.details, details)
	return nil
}
