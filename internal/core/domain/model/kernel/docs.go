// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: surrogate identifier for orders, payments, print jobs, drivers and deliveries
//   - OrderNumber: the customer facing identifier (PK-YYMMDD-XXXX)
//   - Phone: a mobile number normalized to the MSISDN form the payment gateway expects
//   - Location: a validated latitude/longitude pair with haversine distance
//
// All value objects are immutable. Their zero values are invalid and report an
// error from Validate, which is backed by guard.ConstructorGuard.
package kernel
