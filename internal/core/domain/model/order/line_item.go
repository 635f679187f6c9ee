package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one row of order_details.
type LineItem struct {
	variant  string
	price    kernel.Money
	quantity int

	guard guard.ConstructorGuard
}

// NewLineItem validates the variant name, a non-negative unit price and a
// positive quantity.
func NewLineItem(variant string, price kernel.Money, quantity int) (LineItem, error) {
	item := LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setVariant(variant),
		item.setPrice(price),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) Variant() string {
	return i.variant
}

// Price is the unit price.
func (i LineItem) Price() kernel.Money {
	return i.price
}

func (i LineItem) Quantity() int {
	return i.quantity
}

// Subtotal is price × quantity.
func (i LineItem) Subtotal() kernel.Money {
	return i.price.Times(i.quantity)
}

func (i *LineItem) setVariant(variant string) error {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		return errs.NewValueIsRequiredError("variant")
	}
	i.variant = variant
	return nil
}

func (i *LineItem) setPrice(price kernel.Money) error {
	if err := price.ValidateNonNegative("price"); err != nil {
		return err
	}
	i.price = price
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
