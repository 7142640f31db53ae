package model

import "time"

// Programme represents a scheduled match between two teams with two ticket
// price tiers. Prices are stored in cents. CreatedBy references the agent
// who created the programme and is nullable so that deleting an agent does
// not cascade into the catalogue.
//
// Fields:
//  ID          – primary key identifier.
//  Equipe1     – first team name.
//  Equipe2     – second team name.
//  Stadium     – venue name.
//  Date        – kickoff date and time (UTC).
//  Division    – league/division label.
//  PriceACents – unit price for category A tickets, in cents.
//  PriceBCents – unit price for category B tickets, in cents.
//  CreatedBy   – user ID of the creating agent (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Programme struct {
	ID          uint64    // programmes.id
	Equipe1     string    // programmes.equipe1
	Equipe2     string    // programmes.equipe2
	Stadium     string    // programmes.stadium
	Date        time.Time // programmes.date
	Division    string    // programmes.division
	PriceACents int64     // programmes.price_a_cents
	PriceBCents int64     // programmes.price_b_cents
	CreatedBy   *uint64   // programmes.created_by (nullable)
	CreatedAt   time.Time // programmes.created_at
	UpdatedAt   time.Time // programmes.updated_at
}
