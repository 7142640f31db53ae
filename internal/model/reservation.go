package model

import (
	"strings"
	"time"
)

// TicketCategory identifies which of a programme's two price tiers a
// reservation is for. Only categories A and B exist.
type TicketCategory string

const (
	CategoryA TicketCategory = "A"
	CategoryB TicketCategory = "B"
)

// ParseCategory normalizes a client-supplied category string. The boolean
// reports whether the value maps to a known category.
func ParseCategory(s string) (TicketCategory, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return CategoryA, true
	case "B":
		return CategoryB, true
	}
	return "", false
}

// Reservation records a spectator's request for N tickets of one category
// for one programme. The unit price is snapshotted from the programme at
// creation time; later edits to the programme's prices never change what an
// existing reservation is charged. A reservation has no status column: it
// is considered UNPAID until a Payment row referencing it exists, and PAID
// afterwards.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – spectator who made the reservation.
//  ProgrammeID      – programme being reserved.
//  Category         – ticket category (A or B).
//  Quantity         – number of tickets, always > 0.
//  UnitPriceCents   – snapshotted tier price at reservation time.
//  TotalAmountCents – UnitPriceCents * Quantity.
//  CreatedAt        – creation timestamp, set once.
type Reservation struct {
	ID               uint64         // reservations.id
	UserID           uint64         // reservations.user_id
	ProgrammeID      uint64         // reservations.programme_id
	Category         TicketCategory // reservations.category
	Quantity         uint32         // reservations.quantity
	UnitPriceCents   int64          // reservations.unit_price_cents
	TotalAmountCents int64          // reservations.total_amount_cents
	CreatedAt        time.Time      // reservations.created_at
}
