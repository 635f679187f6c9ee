package services

import (
	"strings"

	"fulfillment/internal/core/domain/model/shipment"
)

// AddressResolver turns a recipient address into the administrative parts the
// carrier requires. Implementations must not fail: missing parts are empty.
type AddressResolver interface {
	Resolve(address string) shipment.AddressComponents
}

var _ AddressResolver = PositionalAddressResolver{}

// PositionalAddressResolver reads address parts by their position in a
// comma-delimited address, most specific segment first.
//
// Segment layout:
//   - index 0: street detail, not decomposed
//   - index 1: ward
//   - index 2: district
//   - index 3: province
//   - further segments are ignored
//
// Example usage:
//
//	resolver := NewPositionalAddressResolver()
//	parts := resolver.Resolve("12 Main St, Ward 5, District 3, HCMC")
//	// parts.Ward == "Ward 5", parts.District == "District 3", parts.Province == "HCMC"
type PositionalAddressResolver struct{}

// NewPositionalAddressResolver creates a new PositionalAddressResolver instance.
func NewPositionalAddressResolver() PositionalAddressResolver {
	return PositionalAddressResolver{}
}

// Resolve splits address on commas and trims each segment.
//
// Parameters:
//   - address: the raw recipient address
//
// Returns:
//   - shipment.AddressComponents: parts found at indexes 1 to 3; a part whose
//     segment does not exist is the empty string
func (PositionalAddressResolver) Resolve(address string) shipment.AddressComponents {
	segments := strings.Split(address, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	at := func(i int) string {
		if i < len(segments) {
			return segments[i]
		}
		return ""
	}

	return shipment.AddressComponents{
		Ward:     at(1),
		District: at(2),
		Province: at(3),
	}
}
