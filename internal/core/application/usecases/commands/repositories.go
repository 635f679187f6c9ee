// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every command is validated by its constructor guard before the handler
// touches a repository.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository, bound to the
	// current transaction when one is active.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// FulfillmentRepoFactory provides access to the fulfillment intent
	// repository, bound the same way.
	FulfillmentRepoFactory interface {
		FulfillmentRepository() ports.FulfillmentRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW spans orders and fulfillment intents. Confirming a shipped order
	// writes both in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, intent.OrderID())
	//   // ... transition, then update order and intent
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		FulfillmentRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
