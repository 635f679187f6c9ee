package shipment

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DefaultPriceUnit is the rounding unit applied to item prices when none is configured.
const DefaultPriceUnit kernel.Money = 1000

// PackageDefaults are the parcel attributes the carrier requires but orders do
// not carry. They come from configuration and are passed explicitly.
type PackageDefaults struct {
	// Weight in grams, dimensions in centimetres. Applied to the parcel and
	// to every item.
	Weight int
	Length int
	Width  int
	Height int

	PaymentTypeID int
	RequiredNote  string
	ServiceTypeID int

	// PriceUnit is the multiple item prices are truncated to.
	PriceUnit kernel.Money
}

// Validate checks that every dimension and identifier is positive.
func (d PackageDefaults) Validate() error {
	var problems []error
	for _, field := range []struct {
		name  string
		value int
	}{
		{"weight", d.Weight},
		{"length", d.Length},
		{"width", d.Width},
		{"height", d.Height},
		{"payment type id", d.PaymentTypeID},
		{"service type id", d.ServiceTypeID},
	} {
		if field.value <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				field.name,
				fmt.Errorf("%d is not greater than 0", field.value),
			))
		}
	}
	if strings.TrimSpace(d.RequiredNote) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("required note"))
	}
	if d.PriceUnit <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"price unit",
			fmt.Errorf("%d is not greater than 0", d.PriceUnit),
		))
	}
	return errors.Join(problems...)
}
