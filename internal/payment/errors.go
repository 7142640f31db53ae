// Package payment implements the reservation-to-payment workflow: pricing
// a reservation, starting a checkout session with the external processor,
// and reconciling the two confirmation paths (redirect return and webhook)
// into exactly one durable payment record per reservation.
package payment

import "errors"

// ErrInvalidCategory is returned when a ticket category is neither A nor B.
var ErrInvalidCategory = errors.New("invalid ticket category")

// ErrInvalidQuantity is returned when a ticket quantity is not a positive
// integer.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrAlreadyPaid is returned by StartCheckout when the reservation already
// has a payment. No processor session is started in that case.
var ErrAlreadyPaid = errors.New("reservation already paid")

// ErrNotPaid is returned by the redirect-return path when the checkout
// session has not actually been paid. The browser reaching the success URL
// proves nothing by itself.
var ErrNotPaid = errors.New("checkout session not paid")

// ErrSessionMismatch is returned when a checkout session's metadata does
// not correlate to the reservation the caller claims it pays for.
var ErrSessionMismatch = errors.New("checkout session does not match reservation")
