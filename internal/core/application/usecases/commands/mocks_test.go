package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockFulfillmentRepository struct{ mock.Mock }

func (m *MockFulfillmentRepository) Add(ctx context.Context, intent *fulfillment.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) Update(ctx context.Context, intent *fulfillment.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Intent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Intent), args.Error(1)
}

func (m *MockFulfillmentRepository) GetAllInProgressBefore(
	ctx context.Context,
	before time.Time,
) ([]*fulfillment.Intent, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fulfillment.Intent), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) FulfillmentRepository() ports.FulfillmentRepository {
	args := m.Called()
	return args.Get(0).(ports.FulfillmentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCarrierGateway struct{ mock.Mock }

func (m *MockCarrierGateway) CreateShipment(ctx context.Context, req shipment.Request) (shipment.Receipt, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(shipment.Receipt), args.Error(1)
}

// RecordingSink keeps every notification for later assertions.
type RecordingSink struct {
	Notifications []ports.Notification
}

func (s *RecordingSink) Notify(_ context.Context, n ports.Notification) {
	s.Notifications = append(s.Notifications, n)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func packageDefaults() shipment.PackageDefaults {
	return shipment.PackageDefaults{
		Weight:        200,
		Length:        15,
		Width:         10,
		Height:        5,
		PaymentTypeID: 2,
		RequiredNote:  "KHONGCHOXEMHANG",
		ServiceTypeID: 2,
		PriceUnit:     1000,
	}
}

// sampleOrder is the two-line cash-on-delivery order worth 609000.
func sampleOrder(t *testing.T, address string) *order.Order {
	t.Helper()

	shirt, err := order.NewLineItem("T-shirt / M", 150000, 2)
	require.NoError(t, err)
	jacket, err := order.NewLineItem("Jacket / L", 299000, 1)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.Recipient{Name: "Nguyen Van An", Phone: "0900000000", Address: address},
		order.CashOnDelivery,
		order.Charges{ShippingFee: 30000, DiscountOrder: 20000},
		[]order.LineItem{shirt, jacket},
	)
	require.NoError(t, err)
	return o
}

func emptyOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.Recipient{Name: "An", Phone: "0900000000", Address: "12 Main St, Ward 5, District 3, HCMC"},
		order.CashOnDelivery,
		order.Charges{ShippingFee: 30000},
		nil,
	)
	require.NoError(t, err)
	return o
}

// restoreWithStatus returns a copy of o in the given status.
func restoreWithStatus(t *testing.T, o *order.Order, status order.Status, trackingCode *string, reason string) *order.Order {
	t.Helper()

	restored, err := order.RestoreOrder(
		o.ID(), o.Recipient(), o.PaymentMethod(), o.OnlinePaymentStatus(),
		o.Charges(), o.Details(), status, trackingCode, reason,
	)
	require.NoError(t, err)
	return restored
}
