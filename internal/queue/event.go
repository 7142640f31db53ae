// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentRecordedEvent is published once a payment row has been created
// for a reservation, from whichever confirmation path created it. It
// carries enough information for downstream consumers (ticket issuance,
// notifications, analytics) without querying the primary database.
type PaymentRecordedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ProgrammeID   uint64 `json:"programme_id"`
	Equipe1       string `json:"equipe1"`
	Equipe2       string `json:"equipe2"`
	Stadium       string `json:"stadium"`
	Category      string `json:"category"`
	Quantity      uint32 `json:"quantity"`
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method"`
	ExternalRef   string `json:"external_ref"`
	RecordedAt    string `json:"recorded_at"`
}
