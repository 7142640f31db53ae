package model

import "time"

// Payment is the durable record that a reservation's charge completed. At
// most one Payment exists per reservation; the `reservations.id` reference
// carries a UNIQUE key so that the two confirmation paths (redirect return
// and webhook) can race on the insert and let the database arbitrate.
// Payments are never updated or deleted by the reconciliation logic.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – one-to-one reference to the paid reservation (unique).
//  AmountCents   – amount actually charged, as reported by the processor.
//  Method        – payment method label (e.g. "card").
//  ExternalRef   – processor checkout session / transaction identifier.
//  CreatedAt     – creation timestamp.
type Payment struct {
	ID            uint64    // payments.id
	ReservationID uint64    // payments.reservation_id (UNIQUE)
	AmountCents   int64     // payments.amount_cents
	Method        string    // payments.method
	ExternalRef   string    // payments.external_ref
	CreatedAt     time.Time // payments.created_at
}
