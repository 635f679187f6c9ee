package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is an amount in whole currency units (e.g. VND). Arithmetic is plain
// int64 arithmetic; the type only adds domain helpers.
type Money int64

// ValidateNonNegative rejects negative amounts for the named field.
func (m Money) ValidateNonNegative(paramName string) error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			paramName,
			fmt.Errorf("%d is negative", int64(m)),
		)
	}
	return nil
}

// FloorTo truncates the amount down to a multiple of unit:
// 299500.FloorTo(1000) == 299000. A non-positive unit leaves the amount as is.
func (m Money) FloorTo(unit Money) Money {
	if unit <= 0 {
		return m
	}
	if m >= 0 {
		return m / unit * unit
	}
	// Go division truncates toward zero; step one unit further for negatives.
	q := m / unit
	if m%unit != 0 {
		q--
	}
	return q * unit
}

// Times multiplies the amount by a quantity.
func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

func (m Money) Int64() int64 {
	return int64(m)
}
