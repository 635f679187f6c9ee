package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod is how the customer pays for the order.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	CashOnDelivery
	Card
	Transfer
	WalletApp
)

var paymentMethodNames = map[PaymentMethod]string{
	CashOnDelivery: "cod",
	Card:           "card",
	Transfer:       "transfer",
	WalletApp:      "wallet_app",
}

// ParsePaymentMethod accepts the persisted/API names.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for method, name := range paymentMethodNames {
		if name == normalized {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment method is invalid",
		fmt.Errorf("%q is not a valid payment method", s),
	)
}

func (m PaymentMethod) Validate() error {
	if _, ok := paymentMethodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method is invalid",
			fmt.Errorf("%d is not a valid payment method", m),
		)
	}
	return nil
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

// IsCashOnDelivery reports whether the carrier collects the payment.
func (m PaymentMethod) IsCashOnDelivery() bool {
	return m == CashOnDelivery
}

// OnlinePaymentStatus tracks non-cash payments. It is ignored for cash-on-delivery orders.
type OnlinePaymentStatus int

const (
	OnlinePaymentUnknown OnlinePaymentStatus = iota
	OnlinePaymentUnpaid
	OnlinePaymentPaid
)

func (s OnlinePaymentStatus) Validate() error {
	if s != OnlinePaymentUnpaid && s != OnlinePaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause(
			"online payment status is invalid",
			fmt.Errorf("%d is not a valid online payment status", s),
		)
	}
	return nil
}

func (s OnlinePaymentStatus) String() string {
	switch s {
	case OnlinePaymentUnpaid:
		return "unpaid"
	case OnlinePaymentPaid:
		return "paid"
	default:
		return "unknown"
	}
}
