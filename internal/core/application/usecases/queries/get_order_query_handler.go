package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order and its line items with plain SQL and
// restores the aggregate only to compute checkout total and COD amount.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	id := query.OrderID()

	var (
		status, onlinePaymentStatus                   int
		paymentMethod, name, phone, address, canceled string
		shippingFee, discountOrder, discountShipping  int64
		trackingCode                                  sql.NullString
	)
	err := db.Raw(`
		SELECT
			status,
			payment_method,
			online_payment_status,
			customer_name,
			phone_number,
			address,
			shipping_fee,
			discount_order,
			discount_shipping,
			tracking_code,
			canceled_reason
		FROM orders
		WHERE id = ?
	`, id.Bytes()).Row().Scan(
		&status,
		&paymentMethod,
		&onlinePaymentStatus,
		&name,
		&phone,
		&address,
		&shippingFee,
		&discountOrder,
		&discountShipping,
		&trackingCode,
		&canceled,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", id.String())
		}
		return GetOrderQueryResponse{}, err
	}

	details, err := h.loadDetails(db, id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	method, err := order.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var code *string
	if trackingCode.Valid {
		code = &trackingCode.String
	}

	o, err := order.RestoreOrder(
		id,
		order.Recipient{Name: name, Phone: phone, Address: address},
		method,
		order.OnlinePaymentStatus(onlinePaymentStatus),
		order.Charges{
			ShippingFee:      kernel.Money(shippingFee),
			DiscountOrder:    kernel.Money(discountOrder),
			DiscountShipping: kernel.Money(discountShipping),
		},
		details,
		order.Status(status),
		code,
		canceled,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	items := make([]OrderItemResponse, 0, len(details))
	for _, d := range o.Details() {
		items = append(items, OrderItemResponse{
			Variant:  d.Variant(),
			Price:    d.Price(),
			Quantity: d.Quantity(),
			Subtotal: d.Subtotal(),
		})
	}

	return GetOrderQueryResponse{
		ID:                  o.ID(),
		Status:              o.Status(),
		PaymentMethod:       o.PaymentMethod(),
		OnlinePaymentStatus: o.OnlinePaymentStatus(),
		Recipient:           o.Recipient(),
		Charges:             o.Charges(),
		Items:               items,
		CheckoutTotal:       o.CheckoutTotal(),
		CODAmount:           o.CODAmount(),
		TrackingCode:        o.TrackingCode(),
		CanceledReason:      o.CanceledReason(),
	}, nil
}

func (h GetOrderQueryHandler) loadDetails(db *gorm.DB, id kernel.UUID) ([]order.LineItem, error) {
	rows, err := db.Raw(`
		SELECT variant, price, quantity
		FROM order_details
		WHERE order_id = ?
		ORDER BY position
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]order.LineItem, 0)
	for rows.Next() {
		var (
			variant  string
			price    int64
			quantity int
		)
		if err = rows.Scan(&variant, &price, &quantity); err != nil {
			return nil, err
		}

		item, itemErr := order.NewLineItem(variant, kernel.Money(price), quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		details = append(details, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}
