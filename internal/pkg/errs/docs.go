// Package errs provides the shared error types of the fulfillment service.
//
// Each type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound) with a struct carrying the
// offending parameter and an optional cause. Unwrap always returns the
// sentinel, so callers classify failures with errors.Is and read details
// with errors.As.
package errs
