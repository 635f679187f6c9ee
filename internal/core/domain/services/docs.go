// Package services provides domain services that derive carrier-facing data
// from orders. They hold no state beyond configuration and never perform I/O.
//
// The package includes:
//   - AddressResolver: decomposes a free-text address into ward, district and province
//   - ShipmentRequestBuilder: builds the carrier shipment payload from an order
//
// Domain services implement rules that span an aggregate and configuration,
// following Domain-Driven Design principles.
package services
