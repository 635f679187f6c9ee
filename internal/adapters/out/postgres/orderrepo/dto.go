// Package orderrepo maps the order aggregate to the orders and order_details
// tables.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is one row of the orders table. Money columns hold whole currency units.
type OrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status              int       `gorm:"index"`
	PaymentMethod       string    `gorm:"type:varchar(32)"`
	OnlinePaymentStatus int
	CustomerName        string
	PhoneNumber         string `gorm:"type:varchar(32)"`
	Address             string
	ShippingFee         int64
	DiscountOrder       int64
	DiscountShipping    int64
	TrackingCode        *string `gorm:"type:varchar(64);index"`
	CanceledReason      string
	Details             []OrderDetailDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderDetailDTO is one line item. Position keeps the order the lines were placed in.
type OrderDetailDTO struct {
	ID       uint      `gorm:"primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;index"`
	Position int
	Variant  string
	Price    int64
	Quantity int
}

func (OrderDetailDTO) TableName() string {
	return "order_details"
}

func fromDomain(o *order.Order) OrderDTO {
	recipient := o.Recipient()
	charges := o.Charges()

	details := make([]OrderDetailDTO, 0, len(o.Details()))
	for i, item := range o.Details() {
		details = append(details, OrderDetailDTO{
			OrderID:  o.ID().Bytes(),
			Position: i,
			Variant:  item.Variant(),
			Price:    item.Price().Int64(),
			Quantity: item.Quantity(),
		})
	}

	return OrderDTO{
		ID:                  o.ID().Bytes(),
		Status:              int(o.Status()),
		PaymentMethod:       o.PaymentMethod().String(),
		OnlinePaymentStatus: int(o.OnlinePaymentStatus()),
		CustomerName:        recipient.Name,
		PhoneNumber:         recipient.Phone,
		Address:             recipient.Address,
		ShippingFee:         charges.ShippingFee.Int64(),
		DiscountOrder:       charges.DiscountOrder.Int64(),
		DiscountShipping:    charges.DiscountShipping.Int64(),
		TrackingCode:        o.TrackingCode(),
		CanceledReason:      o.CanceledReason(),
		Details:             details,
	}
}

// ToDomain rebuilds the aggregate from a row. Details must already be sorted by position.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	details := make([]order.LineItem, 0, len(dto.Details))
	for _, d := range dto.Details {
		item, itemErr := order.NewLineItem(d.Variant, kernel.Money(d.Price), d.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		details = append(details, item)
	}

	return order.RestoreOrder(
		id,
		order.Recipient{Name: dto.CustomerName, Phone: dto.PhoneNumber, Address: dto.Address},
		method,
		order.OnlinePaymentStatus(dto.OnlinePaymentStatus),
		order.Charges{
			ShippingFee:      kernel.Money(dto.ShippingFee),
			DiscountOrder:    kernel.Money(dto.DiscountOrder),
			DiscountShipping: kernel.Money(dto.DiscountShipping),
		},
		details,
		order.Status(dto.Status),
		dto.TrackingCode,
		dto.CanceledReason,
	)
}
