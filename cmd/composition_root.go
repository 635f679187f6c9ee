package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	carrier    ports.CarrierGateway
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	carrier ports.CarrierGateway,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		carrier:    carrier,
		notifier:   notifier,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateShipmentRequestBuilder() services.ShipmentRequestBuilder {
	return services.NewShipmentRequestBuilder(services.NewPositionalAddressResolver(), c.cfg.Package)
}

func (c *CompositionRoot) CreateConfirmAndShipCommandHandler() commands.ConfirmAndShipCommandHandler {
	return commands.NewConfirmAndShipCommandHandler(
		c.uowFactoryFunc(),
		c.CreateShipmentRequestBuilder(),
		c.carrier,
		c.notifier,
		commands.ConfirmPolicy{RequireCompleteAddress: c.cfg.RequireCompleteAddress},
		c.logger,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactoryFunc(), c.notifier)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactoryFunc())
}

func (c *CompositionRoot) CreateReconcileFulfillmentsCommandHandler() commands.ReconcileFulfillmentsCommandHandler {
	return commands.NewReconcileFulfillmentsCommandHandler(c.uowFactoryFunc(), c.notifier, c.logger)
}

func (c *CompositionRoot) CreateResolveFulfillmentCommandHandler() commands.ResolveFulfillmentCommandHandler {
	return commands.NewResolveFulfillmentCommandHandler(c.uowFactoryFunc())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnresolvedFulfillmentsQueryHandler() queries.GetUnresolvedFulfillmentsQueryHandler {
	return queries.NewGetUnresolvedFulfillmentsQueryHandler(c.gormDB)
}

// CreateHTTPHandlers wires every use case exposed by the HTTP API.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		ConfirmAndShip:            c.CreateConfirmAndShipCommandHandler(),
		CancelOrder:               c.CreateCancelOrderCommandHandler(),
		UpdateOrderStatus:         c.CreateUpdateOrderStatusCommandHandler(),
		ResolveFulfillment:        c.CreateResolveFulfillmentCommandHandler(),
		GetOrder:                  c.CreateGetOrderQueryHandler(),
		GetUnresolvedFulfillments: c.CreateGetUnresolvedFulfillmentsQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReconcileFulfillmentsCommandHandler(), c.cfg.Reconciliation(), c.logger)
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactoryFunc() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
