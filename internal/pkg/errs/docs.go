// Package errs provides the error taxonomy shared by every layer of the
// fulfillment service.
//
// Each kind follows the same pattern:
//   - a sentinel error (ErrValueIsInvalid, ErrConflict, ...) usable with errors.Is
//   - a struct type carrying the details of one occurrence
//   - New...Error and New...ErrorWithCause constructors
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Kinds and their meaning at the edges of the system:
//   - ValueIsRequired, ValueIsInvalid, ValueIsOutOfRange: malformed, user-correctable input
//   - ObjectNotFound: unknown order, payment, driver or delivery
//   - Conflict: the request collides with state that already exists (already paid, already completed)
//   - Forbidden: the acting party does not own the resource
//   - UpstreamFailure: the payment gateway or print backend failed or rejected the call
//   - InvalidTransition: an order status move that the transition table does not allow
package errs
