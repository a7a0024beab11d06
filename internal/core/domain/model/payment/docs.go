// Package payment models push payment attempts and their reconciliation
// against the owning order.
//
// Gateways deliver results at least once, through callbacks and status
// polls, so Reconcile is written as a function of (payment, order, outcome)
// that is a no-op once the payment is terminal.
package payment
