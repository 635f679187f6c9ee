package shipment

// AddressComponents are the administrative parts of a recipient address.
// Any part may be empty when the address has too few segments.
type AddressComponents struct {
	Ward     string
	District string
	Province string
}

// IsComplete reports whether ward, district and province are all present.
func (a AddressComponents) IsComplete() bool {
	return a.Ward != "" && a.District != "" && a.Province != ""
}
