// Package shipment holds the carrier-facing value types: the request payload
// derived from an order, the decomposed recipient address, the configured
// package defaults and the receipt returned by the carrier.
//
// Values in this package are ephemeral. A Request is rebuilt for every
// confirmation attempt and is never used to re-issue a shipment.
package shipment
