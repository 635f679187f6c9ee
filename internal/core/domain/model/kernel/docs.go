// Package kernel holds the value objects shared by every aggregate of the
// fulfillment domain:
//   - UUID: identifier of orders and fulfillment intents
//   - Money: integer amount in the smallest currency unit
//
// Both are immutable and have invalid zero values where that matters
// (a nil UUID never identifies anything).
package kernel
