package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreateOrderItem struct {
	Variant  string `json:"variant"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	ID               *openapi_types.UUID `json:"id,omitempty"`
	CustomerName     string              `json:"customer_name"`
	PhoneNumber      string              `json:"phone_number"`
	Address          string              `json:"address"`
	PaymentMethod    string              `json:"payment_method"`
	ShippingFee      int64               `json:"shipping_fee"`
	DiscountOrder    int64               `json:"discount_order"`
	DiscountShipping int64               `json:"discount_shipping"`
	Items            []CreateOrderItem   `json:"items"`
}

type CreateOrderResponse struct {
	ID openapi_types.UUID `json:"id"`
}

type ConfirmRequest struct {
	Note string `json:"note"`
}

type ConfirmResponse struct {
	TrackingCode string `json:"tracking_code"`
	Message      string `json:"message"`
}

// ConfirmFailure tells the operator how far a failed confirmation got.
// TrackingCode is set only when a shipment exists.
type ConfirmFailure struct {
	Code                   int    `json:"code"`
	Message                string `json:"message"`
	Outcome                string `json:"outcome"`
	TrackingCode           string `json:"tracking_code,omitempty"`
	ReconciliationRequired bool   `json:"reconciliation_required,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ResolveRequest struct {
	Note string `json:"note"`
}

type OrderItem struct {
	Variant  string `json:"variant"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

type Order struct {
	ID                  openapi_types.UUID `json:"id"`
	Status              string             `json:"status"`
	PaymentMethod       string             `json:"payment_method"`
	OnlinePaymentStatus string             `json:"online_payment_status"`
	CustomerName        string             `json:"customer_name"`
	PhoneNumber         string             `json:"phone_number"`
	Address             string             `json:"address"`
	ShippingFee         int64              `json:"shipping_fee"`
	DiscountOrder       int64              `json:"discount_order"`
	DiscountShipping    int64              `json:"discount_shipping"`
	Items               []OrderItem        `json:"items"`
	CheckoutTotal       int64              `json:"checkout_total"`
	CODAmount           int64              `json:"cod_amount"`
	TrackingCode        *string            `json:"tracking_code,omitempty"`
	CanceledReason      string             `json:"canceled_reason,omitempty"`
}

type Fulfillment struct {
	IntentID      openapi_types.UUID `json:"intent_id"`
	OrderID       openapi_types.UUID `json:"order_id"`
	TrackingCode  string             `json:"tracking_code,omitempty"`
	Note          string             `json:"note,omitempty"`
	ErrorMessages []string           `json:"error_messages"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ServerInterface lists one method per operation of the OpenAPI document.
type ServerInterface interface {
	// POST /api/v1/orders
	CreateOrder(ctx echo.Context) error
	// GET /api/v1/orders/{id}
	GetOrder(ctx echo.Context, id openapi_types.UUID) error
	// POST /api/v1/orders/{id}/confirm
	ConfirmOrder(ctx echo.Context, id openapi_types.UUID) error
	// POST /api/v1/orders/{id}/cancel
	CancelOrder(ctx echo.Context, id openapi_types.UUID) error
	// POST /api/v1/orders/{id}/status
	UpdateOrderStatus(ctx echo.Context, id openapi_types.UUID) error
	// GET /api/v1/fulfillments/unresolved
	GetUnresolvedFulfillments(ctx echo.Context) error
	// POST /api/v1/fulfillments/{id}/resolve
	ResolveFulfillment(ctx echo.Context, id openapi_types.UUID) error
}

// ServerInterfaceWrapper binds path parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) ConfirmOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ConfirmOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UpdateOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetUnresolvedFulfillments(ctx echo.Context) error {
	return w.Handler.GetUnresolvedFulfillments(ctx)
}

func (w *ServerInterfaceWrapper) ResolveFulfillment(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ResolveFulfillment(ctx, id)
}

func bindID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every operation to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/orders", wrapper.CreateOrder)
	router.GET("/api/v1/orders/:id", wrapper.GetOrder)
	router.POST("/api/v1/orders/:id/confirm", wrapper.ConfirmOrder)
	router.POST("/api/v1/orders/:id/cancel", wrapper.CancelOrder)
	router.POST("/api/v1/orders/:id/status", wrapper.UpdateOrderStatus)
	router.GET("/api/v1/fulfillments/unresolved", wrapper.GetUnresolvedFulfillments)
	router.POST("/api/v1/fulfillments/:id/resolve", wrapper.ResolveFulfillment)
}
