// Package delivery models the doorstep leg of fulfillment: drivers, the
// delivery they are assigned to and the GPS history they stream while
// carrying it.
//
// A Delivery references its Order by id and its Driver by id; it never owns
// either. Order status changes that accompany delivery steps (shipped,
// in_transit, delivered) are applied by the command handlers in the same
// transaction.
package delivery
