package shipment

import "fulfillment/internal/core/domain/model/kernel"

// Request is the carrier-shaped payload for one shipment attempt.
type Request struct {
	PaymentTypeID int    `json:"payment_type_id"`
	Note          string `json:"note"`
	RequiredNote  string `json:"required_note"`

	ToName         string `json:"to_name"`
	ToPhone        string `json:"to_phone"`
	ToAddress      string `json:"to_address"`
	ToWardName     string `json:"to_ward_name"`
	ToDistrictName string `json:"to_district_name"`
	ToProvinceName string `json:"to_province_name"`

	CODAmount      kernel.Money `json:"cod_amount"`
	InsuranceValue kernel.Money `json:"insurance_value"`

	Weight int `json:"weight"`
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`

	ServiceTypeID int    `json:"service_type_id"`
	Items         []Item `json:"items"`
}

// Item is one order line as the carrier sees it.
type Item struct {
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Price    kernel.Money `json:"price"`
	Weight   int          `json:"weight"`
	Length   int          `json:"length"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
}

// Receipt is what a successful shipment creation returns.
type Receipt struct {
	TrackingCode string
}
