package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Use case handlers the server depends on.
type (
	ConfirmAndShipHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmAndShipCommand) (commands.ConfirmAndShipResult, error)
	}

	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}

	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) error
	}

	ResolveFulfillmentHandler interface {
		Handle(ctx context.Context, cmd commands.ResolveFulfillmentCommand) error
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	GetUnresolvedFulfillmentsHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetUnresolvedFulfillmentsQuery,
		) ([]queries.GetUnresolvedFulfillmentsQueryResponse, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder               CreateOrderHandler
	ConfirmAndShip            ConfirmAndShipHandler
	CancelOrder               CancelOrderHandler
	UpdateOrderStatus         UpdateOrderStatusHandler
	ResolveFulfillment        ResolveFulfillmentHandler
	GetOrder                  GetOrderHandler
	GetUnresolvedFulfillments GetUnresolvedFulfillmentsHandler
}

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	handlers Handlers
	guard    ports.InFlightGuard
	logger   *slog.Logger
}

// NewServer creates the HTTP server. guard keeps a second confirmation of the
// same order out while the first is running.
func NewServer(handlers Handlers, guard ports.InFlightGuard, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		guard:    guard,
		logger:   logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders. A missing id is generated.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body CreateOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.ID != nil {
		id, err := kernel.UUIDFromGoogle(*body.ID)
		if err != nil {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		orderID = id
	}

	method, err := order.ParsePaymentMethod(body.PaymentMethod)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items := make([]order.LineItem, 0, len(body.Items))
	for i, item := range body.Items {
		lineItem, err := order.NewLineItem(item.Variant, kernel.Money(item.Price), item.Quantity)
		if err != nil {
			return writeError(ctx, http.StatusBadRequest, fmt.Sprintf("item %d: %s", i, err))
		}
		items = append(items, lineItem)
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		order.Recipient{Name: body.CustomerName, Phone: body.PhoneNumber, Address: body.Address},
		method,
		order.Charges{
			ShippingFee:      kernel.Money(body.ShippingFee),
			DiscountOrder:    kernel.Money(body.DiscountOrder),
			DiscountShipping: kernel.Money(body.DiscountShipping),
		},
		items,
	)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.Bytes()})
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeDomainError(ctx, err)
	}

	items := make([]OrderItem, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, OrderItem{
			Variant:  item.Variant,
			Price:    item.Price.Int64(),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal.Int64(),
		})
	}

	return ctx.JSON(http.StatusOK, Order{
		ID:                  view.ID.Bytes(),
		Status:              view.Status.String(),
		PaymentMethod:       view.PaymentMethod.String(),
		OnlinePaymentStatus: view.OnlinePaymentStatus.String(),
		CustomerName:        view.Recipient.Name,
		PhoneNumber:         view.Recipient.Phone,
		Address:             view.Recipient.Address,
		ShippingFee:         view.Charges.ShippingFee.Int64(),
		DiscountOrder:       view.Charges.DiscountOrder.Int64(),
		DiscountShipping:    view.Charges.DiscountShipping.Int64(),
		Items:               items,
		CheckoutTotal:       view.CheckoutTotal.Int64(),
		CODAmount:           view.CODAmount.Int64(),
		TrackingCode:        view.TrackingCode,
		CanceledReason:      view.CanceledReason,
	})
}

// ConfirmOrder handles POST /api/v1/orders/{id}/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context, id openapi_types.UUID) error {
	var body ConfirmRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&body); err != nil {
			return writeError(ctx, http.StatusBadRequest, "Invalid request body")
		}
	}

	orderID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewConfirmAndShipCommand(orderID, body.Note)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	reqCtx := ctx.Request().Context()
	if err = s.guard.Acquire(reqCtx, orderID); err != nil {
		if errors.Is(err, ports.ErrConfirmInFlight) {
			return ctx.JSON(http.StatusConflict, ConfirmFailure{
				Code:    http.StatusConflict,
				Message: "Order is already being confirmed",
				Outcome: string(commands.OutcomeRejected),
			})
		}
		s.logger.ErrorContext(reqCtx, "Failed to acquire confirm hold", "order_id", orderID.String(), "error", err)
		return writeError(ctx, http.StatusServiceUnavailable, "Confirmation is temporarily unavailable")
	}
	defer func() {
		if releaseErr := s.guard.Release(context.WithoutCancel(reqCtx), orderID); releaseErr != nil {
			s.logger.WarnContext(reqCtx, "Failed to release confirm hold",
				"order_id", orderID.String(), "error", releaseErr)
		}
	}()

	result, err := s.handlers.ConfirmAndShip.Handle(reqCtx, cmd)
	if err == nil {
		return ctx.JSON(http.StatusOK, ConfirmResponse{
			TrackingCode: result.TrackingCode,
			Message:      result.Message,
		})
	}

	status := confirmFailureStatus(err)
	failure := ConfirmFailure{
		Code:    status,
		Message: result.Message,
		Outcome: string(result.Outcome),
	}
	if failure.Message == "" {
		failure.Message = err.Error()
	}
	if failure.Outcome == "" {
		failure.Outcome = string(commands.OutcomeRejected)
	}
	if result.Outcome == commands.OutcomeNeedsReconciliation {
		failure.TrackingCode = result.TrackingCode
		failure.ReconciliationRequired = true
	}
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(reqCtx, "Confirmation failed", "order_id", orderID.String(), "error", err)
		failure.Message = "Confirmation failed"
	}

	return ctx.JSON(status, failure)
}

// confirmFailureStatus maps a confirm-and-ship error to its HTTP status.
// A shipment without confirmation is checked first: its cause may itself be
// an invalid transition.
func confirmFailureStatus(err error) int {
	switch {
	case errors.Is(err, commands.ErrReconciliationRequired):
		return http.StatusConflict
	case errors.Is(err, shipment.ErrEmptyOrder), errors.Is(err, shipment.ErrAddressIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, shipment.ErrCarrierRejected):
		return http.StatusBadGateway
	case errors.Is(err, shipment.ErrCarrierUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, id openapi_types.UUID) error {
	var body CancelRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, body.Reason)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid cancellation: "+err.Error())
	}

	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateOrderStatus handles POST /api/v1/orders/{id}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id openapi_types.UUID) error {
	var body StatusRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetUnresolvedFulfillments handles GET /api/v1/fulfillments/unresolved.
func (s *Server) GetUnresolvedFulfillments(ctx echo.Context) error {
	items, err := s.handlers.GetUnresolvedFulfillments.Handle(
		ctx.Request().Context(),
		queries.NewGetUnresolvedFulfillmentsQuery(),
	)
	if err != nil {
		return s.writeDomainError(ctx, err)
	}

	response := make([]Fulfillment, len(items))
	for i, item := range items {
		messages := item.ErrorMessages
		if messages == nil {
			messages = []string{}
		}
		response[i] = Fulfillment{
			IntentID:      item.IntentID.Bytes(),
			OrderID:       item.OrderID.Bytes(),
			TrackingCode:  item.TrackingCode,
			Note:          item.Note,
			ErrorMessages: messages,
			CreatedAt:     item.CreatedAt,
			UpdatedAt:     item.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ResolveFulfillment handles POST /api/v1/fulfillments/{id}/resolve.
func (s *Server) ResolveFulfillment(ctx echo.Context, id openapi_types.UUID) error {
	var body ResolveRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	intentID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewResolveFulfillmentCommand(intentID, body.Note)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.handlers.ResolveFulfillment.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) writeDomainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return writeError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, fulfillment.ErrInvalidStageTransition):
		return writeError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return writeError(ctx, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"path", ctx.Path(), "error", err)
		return writeError(ctx, http.StatusInternalServerError, "Internal error")
	}
}

func writeError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, Error{Code: status, Message: message})
}
