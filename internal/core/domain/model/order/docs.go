// Package order implements the Order aggregate of the fulfillment domain and
// the lifecycle state machine every status change goes through.
//
// The package includes:
//   - Order: aggregate root holding recipient data, charges, line items,
//     payment method and the carrier tracking code
//   - Status: finite state machine
//     pending -> {unpaid, paid} -> confirmed -> delivering -> delivered,
//     with cancelled reachable from every non-terminal state
//   - PaymentMethod and OnlinePaymentStatus
//   - LineItem: one ordered variant with unit price and quantity
//
// Key business rules:
//   - Orders start in pending and are never deleted, only moved to a terminal state
//   - Only cash-on-delivery orders carry a cash-on-delivery amount
//   - paid/unpaid are reachable only for non-cash payment methods
//   - A tracking code can be attached only on the transition to confirmed
//   - A cancellation always records its reason
//
// The state machine does not know about carriers: requiring a tracking code
// for carrier-shipped confirmations is enforced by the confirm-and-ship use case.
package order
