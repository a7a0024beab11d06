// Package order contains the Order aggregate of the print shop: the order
// with its items, the status vocabulary with its transition table, and the
// price list used to quote new orders.
//
// Every fulfillment component (payment reconciliation, print dispatch,
// delivery coordination, administrative edits) changes an order only through
// the aggregate methods, which enforce:
//   - legal status transitions, with cancelled reachable from any non-terminal state
//   - milestone timestamps (paid, printed, shipped, delivered) set at most once
//   - monetary conservation: total = subtotal + delivery fee - discount
//
// Status changes are recorded as events on the embedded events.Recorder and
// published after the surrounding transaction commits.
package order
