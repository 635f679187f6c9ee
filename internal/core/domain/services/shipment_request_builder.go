package services

import (
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentRequestBuilder derives the carrier payload from an order, the
// configured package defaults and an operator note.
//
// Business rules:
//   - Orders must be valid and have at least one line item
//   - cod_amount is the checkout total for cash-on-delivery, else 0
//   - item prices are truncated to a multiple of the configured unit
//   - insurance_value equals the shipping fee
//   - package weight and dimensions apply to the parcel and to each item
//
// Example usage:
//
//	builder := NewShipmentRequestBuilder(resolver, defaults)
//	req, err := builder.Build(o, "call before delivery")
//	if errors.Is(err, shipment.ErrEmptyOrder) {
//	    // Nothing to ship
//	    return
//	}
type ShipmentRequestBuilder struct {
	resolver AddressResolver
	defaults shipment.PackageDefaults
}

// NewShipmentRequestBuilder creates a new ShipmentRequestBuilder instance.
//
// Parameters:
//   - resolver: address decomposition strategy
//   - defaults: package attributes from configuration; a non-positive
//     PriceUnit falls back to shipment.DefaultPriceUnit
func NewShipmentRequestBuilder(resolver AddressResolver, defaults shipment.PackageDefaults) ShipmentRequestBuilder {
	if defaults.PriceUnit <= 0 {
		defaults.PriceUnit = shipment.DefaultPriceUnit
	}
	return ShipmentRequestBuilder{
		resolver: resolver,
		defaults: defaults,
	}
}

// ResolveAddress exposes the builder's resolver so callers can apply an
// address policy before building.
func (b ShipmentRequestBuilder) ResolveAddress(o *order.Order) shipment.AddressComponents {
	return b.resolver.Resolve(o.Recipient().Address)
}

// Build creates a fresh shipment request. The order is not modified.
//
// Parameters:
//   - o: the order to ship (must be valid)
//   - note: operator note copied to the request
//
// Returns:
//   - shipment.Request: the payload for CarrierGateway.CreateShipment
//   - error: shipment.ErrEmptyOrder when the order has no details, or a
//     validation error for an unconstructed order
func (b ShipmentRequestBuilder) Build(o *order.Order, note string) (shipment.Request, error) {
	if err := o.Validate(); err != nil {
		return shipment.Request{}, err
	}

	details := o.Details()
	if len(details) == 0 {
		return shipment.Request{}, shipment.ErrEmptyOrder
	}

	recipient := o.Recipient()
	address := b.resolver.Resolve(recipient.Address)

	items := make([]shipment.Item, 0, len(details))
	for _, d := range details {
		items = append(items, shipment.Item{
			Name:     d.Variant(),
			Quantity: d.Quantity(),
			Price:    d.Price().FloorTo(b.defaults.PriceUnit),
			Weight:   b.defaults.Weight,
			Length:   b.defaults.Length,
			Width:    b.defaults.Width,
			Height:   b.defaults.Height,
		})
	}

	return shipment.Request{
		PaymentTypeID:  b.defaults.PaymentTypeID,
		Note:           note,
		RequiredNote:   b.defaults.RequiredNote,
		ToName:         recipient.Name,
		ToPhone:        recipient.Phone,
		ToAddress:      recipient.Address,
		ToWardName:     address.Ward,
		ToDistrictName: address.District,
		ToProvinceName: address.Province,
		CODAmount:      o.CODAmount(),
		InsuranceValue: o.Charges().ShippingFee,
		Weight:         b.defaults.Weight,
		Length:         b.defaults.Length,
		Width:          b.defaults.Width,
		Height:         b.defaults.Height,
		ServiceTypeID:  b.defaults.ServiceTypeID,
		Items:          items,
	}, nil
}
