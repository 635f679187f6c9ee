package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConfirm struct{ mock.Mock }

func (m *MockConfirm) Handle(ctx context.Context, cmd commands.ConfirmAndShipCommand) (commands.ConfirmAndShipResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ConfirmAndShipResult), args.Error(1)
}

type MockCreateOrder struct{ mock.Mock }

func (m *MockCreateOrder) Handle(ctx context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockCancel struct{ mock.Mock }

func (m *MockCancel) Handle(ctx context.Context, cmd commands.CancelOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockUpdateStatus struct{ mock.Mock }

func (m *MockUpdateStatus) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockResolve struct{ mock.Mock }

func (m *MockResolve) Handle(ctx context.Context, cmd commands.ResolveFulfillmentCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockUnresolved struct{ mock.Mock }

func (m *MockUnresolved) Handle(
	ctx context.Context,
	query queries.GetUnresolvedFulfillmentsQuery,
) ([]queries.GetUnresolvedFulfillmentsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetUnresolvedFulfillmentsQueryResponse), args.Error(1)
}

type MockGuard struct{ mock.Mock }

func (m *MockGuard) Acquire(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockGuard) Release(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type fixture struct {
	create     *MockCreateOrder
	confirm    *MockConfirm
	cancel     *MockCancel
	status     *MockUpdateStatus
	resolve    *MockResolve
	getOrder   *MockGetOrder
	unresolved *MockUnresolved
	guard      *MockGuard
	e          *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		create:     new(MockCreateOrder),
		confirm:    new(MockConfirm),
		cancel:     new(MockCancel),
		status:     new(MockUpdateStatus),
		resolve:    new(MockResolve),
		getOrder:   new(MockGetOrder),
		unresolved: new(MockUnresolved),
		guard:      new(MockGuard),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:               f.create,
		ConfirmAndShip:            f.confirm,
		CancelOrder:               f.cancel,
		UpdateOrderStatus:         f.status,
		ResolveFulfillment:        f.resolve,
		GetOrder:                  f.getOrder,
		GetUnresolvedFulfillments: f.unresolved,
	}, f.guard, logger)

	e, err := httpin.NewRouter(server, logger)
	require.NoError(t, err)
	f.e = e
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) expectGuard(orderID kernel.UUID) {
	f.guard.On("Acquire", mock.Anything, orderID).Return(nil).Once()
	f.guard.On("Release", mock.Anything, orderID).Return(nil).Once()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthAndDocs(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = f.do(http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders/{id}/confirm")
}

func TestConfirmOrder_Success(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.expectGuard(orderID)
	f.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmAndShipCommand) bool {
		return cmd.OrderID().IsEqual(orderID) && cmd.Note() == "call first"
	})).Return(commands.ConfirmAndShipResult{
		Outcome:      commands.OutcomeConfirmed,
		TrackingCode: "GHN42",
		Message:      "Order confirmed",
	}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/confirm", `{"note":"call first"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[httpin.ConfirmResponse](t, rec)
	assert.Equal(t, "GHN42", resp.TrackingCode)
	assert.Equal(t, "Order confirmed", resp.Message)
	f.guard.AssertExpectations(t)
	f.confirm.AssertExpectations(t)
}

func TestConfirmOrder_WithoutBody(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.expectGuard(orderID)
	f.confirm.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ConfirmAndShipResult{Outcome: commands.OutcomeConfirmed, TrackingCode: "GHN1"}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/confirm", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfirmOrder_FailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		result     commands.ConfirmAndShipResult
		err        error
		wantStatus int
		wantCode   string
		wantRecon  bool
	}{
		{
			name:       "empty order",
			result:     commands.ConfirmAndShipResult{Outcome: commands.OutcomeRejected, Message: "order has no items"},
			err:        shipment.ErrEmptyOrder,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "incomplete address",
			result:     commands.ConfirmAndShipResult{Outcome: commands.OutcomeRejected},
			err:        &shipment.AddressIncompleteError{Address: "Main St"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "already confirmed",
			result:     commands.ConfirmAndShipResult{Outcome: commands.OutcomeRejected},
			err:        order.ErrInvalidTransition,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "carrier rejected",
			result:     commands.ConfirmAndShipResult{Outcome: commands.OutcomeShipmentFailed, Message: "Phone is invalid"},
			err:        shipment.NewCarrierRejectedError("Phone is invalid"),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "carrier unavailable",
			result:     commands.ConfirmAndShipResult{Outcome: commands.OutcomeShipmentFailed, Message: "timeout"},
			err:        shipment.NewCarrierUnavailableError("timeout", errors.New("i/o timeout")),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "shipped but not confirmed",
			result: commands.ConfirmAndShipResult{
				Outcome:      commands.OutcomeNeedsReconciliation,
				TrackingCode: "GHN42",
				Message:      "reconcile",
			},
			err:        &commands.ReconciliationRequiredError{TrackingCode: "GHN42", Cause: order.ErrInvalidTransition},
			wantStatus: http.StatusConflict,
			wantCode:   "GHN42",
			wantRecon:  true,
		},
		{
			name:       "not found",
			result:     commands.ConfirmAndShipResult{Outcome: commands.OutcomeRejected},
			err:        errs.NewObjectNotFoundError("order", "x"),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			orderID := kernel.NewUUID()
			f.expectGuard(orderID)
			f.confirm.On("Handle", mock.Anything, mock.Anything).Return(tt.result, tt.err).Once()

			rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/confirm", `{"note":""}`)

			require.Equal(t, tt.wantStatus, rec.Code)
			failure := decode[httpin.ConfirmFailure](t, rec)
			assert.Equal(t, tt.wantStatus, failure.Code)
			assert.Equal(t, string(tt.result.Outcome), failure.Outcome)
			assert.Equal(t, tt.wantCode, failure.TrackingCode)
			assert.Equal(t, tt.wantRecon, failure.ReconciliationRequired)
			assert.NotEmpty(t, failure.Message)
			if tt.result.Message != "" {
				assert.Equal(t, tt.result.Message, failure.Message)
			}
			f.guard.AssertExpectations(t)
		})
	}
}

func TestConfirmOrder_InFlight(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.guard.On("Acquire", mock.Anything, orderID).Return(ports.ErrConfirmInFlight).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/confirm", `{}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	f.confirm.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestConfirmOrder_InvalidRequests(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders/not-a-uuid/confirm", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/confirm",
		`{"note":"`+strings.Repeat("x", 501)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.guard.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
	f.confirm.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.OrderID().IsEqual(orderID) &&
			cmd.PaymentMethod() == order.CashOnDelivery &&
			cmd.Charges().ShippingFee == 30000 &&
			len(cmd.Items()) == 2
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders", `{
		"id": "`+orderID.String()+`",
		"customer_name": "Nguyen Van An",
		"phone_number": "0900000000",
		"address": "12 Main St, Ward 5, District 3, HCMC",
		"payment_method": "cod",
		"shipping_fee": 30000,
		"discount_order": 20000,
		"items": [
			{"variant": "T-shirt / M", "price": 150000, "quantity": 2},
			{"variant": "Jacket / L", "price": 299000, "quantity": 1}
		]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[httpin.CreateOrderResponse](t, rec)
	assert.Equal(t, orderID.String(), resp.ID.String())
	f.create.AssertExpectations(t)
}

func TestCreateOrder_GeneratesID(t *testing.T) {
	f := newFixture(t)
	f.create.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"customer_name":"An","phone_number":"0900","address":"Main St","payment_method":"card","items":[]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[httpin.CreateOrderResponse](t, rec)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", resp.ID.String())
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"customer_name":"An","phone_number":"0900","address":"Main St","payment_method":"barter","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders",
		`{"customer_name":"An","phone_number":"0900","address":"Main St","payment_method":"cod",
		"items":[{"variant":"Cap","price":1000,"quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	code := "GHN42"
	f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(queries.GetOrderQueryResponse{
		ID:                  orderID,
		Status:              order.Confirmed,
		PaymentMethod:       order.CashOnDelivery,
		OnlinePaymentStatus: order.OnlinePaymentUnpaid,
		Recipient:           order.Recipient{Name: "An", Phone: "0900000000", Address: "12 Main St, Ward 5, District 3, HCMC"},
		Charges:             order.Charges{ShippingFee: 30000, DiscountOrder: 20000},
		Items:               []queries.OrderItemResponse{{Variant: "T-shirt / M", Price: 150000, Quantity: 2, Subtotal: 300000}},
		CheckoutTotal:       609000,
		CODAmount:           609000,
		TrackingCode:        &code,
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[httpin.Order](t, rec)
	assert.Equal(t, orderID.String(), view.ID.String())
	assert.Equal(t, "confirmed", view.Status)
	assert.Equal(t, "cod", view.PaymentMethod)
	assert.Equal(t, int64(609000), view.CODAmount)
	require.Len(t, view.Items, 1)
	require.NotNil(t, view.TrackingCode)
	assert.Equal(t, "GHN42", *view.TrackingCode)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	f.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", "x")).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.cancel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelOrderCommand) bool {
		return cmd.OrderID().IsEqual(orderID) && cmd.Reason() == "out of stock"
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", `{"reason":"out of stock"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.cancel.AssertExpectations(t)
}

func TestCancelOrder_Errors(t *testing.T) {
	f := newFixture(t)
	f.cancel.On("Handle", mock.Anything, mock.Anything).Return(order.ErrInvalidTransition).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", `{"reason":"late"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.cancel.AssertNumberOfCalls(t, "Handle", 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.status.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
		return cmd.Status() == order.Delivering
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", `{"status":"delivering"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.status.AssertNumberOfCalls(t, "Handle", 1)
}

func TestGetUnresolvedFulfillments(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	f.unresolved.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetUnresolvedFulfillmentsQueryResponse{
		{
			IntentID:      kernel.NewUUID(),
			OrderID:       kernel.NewUUID(),
			TrackingCode:  "GHN42",
			ErrorMessages: []string{"order cancelled"},
			CreatedAt:     at,
			UpdatedAt:     at,
		},
		{IntentID: kernel.NewUUID(), OrderID: kernel.NewUUID(), CreatedAt: at, UpdatedAt: at},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/fulfillments/unresolved", "")

	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]httpin.Fulfillment](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "GHN42", items[0].TrackingCode)
	assert.Equal(t, []string{"order cancelled"}, items[0].ErrorMessages)
	assert.NotNil(t, items[1].ErrorMessages)
}

func TestResolveFulfillment(t *testing.T) {
	f := newFixture(t)
	f.resolve.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/fulfillments/"+kernel.NewUUID().String()+"/resolve",
		`{"note":"cancelled at carrier"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.resolve.On("Handle", mock.Anything, mock.Anything).Return(fulfillment.ErrInvalidStageTransition).Once()
	rec = f.do(http.MethodPost, "/api/v1/fulfillments/"+kernel.NewUUID().String()+"/resolve", `{"note":"again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
