// Package fulfillment models the persisted record of one confirm-and-ship
// attempt.
//
// An Intent is written before the carrier is called and advanced after each
// step, so that a crash or a refused status change always leaves a row an
// operator or the reconciliation job can act on:
//
//	ShipmentRequested ──> ShipmentCreated ──> StatusConfirmed
//	        │                    │
//	        ├──> ShipmentFailed  │
//	        │                    │
//	        └────────────────────┴──> NeedsReconciliation ──> Resolved
package fulfillment
