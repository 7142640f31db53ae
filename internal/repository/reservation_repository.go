package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/matchtix/stadium-ticketing/internal/model"
)

// ReservationRepo provides persistence for ticket reservations. A
// reservation snapshots its unit price at creation time, so pricing for
// the downstream payment flow never depends on the programme's current
// price fields. Reservations are never updated by the payment workflow;
// their paid/unpaid state is derived from the payments table.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// Create inserts a new reservation and populates the generated ID and
// creation timestamp. UnitPriceCents and TotalAmountCents must already be
// set by the caller from the programme's tier price.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, programme_id, category, quantity, unit_price_cents, total_amount_cents)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.ProgrammeID, string(res.Category), res.Quantity,
		res.UnitPriceCents, res.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to populate the immutable creation timestamp.
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// GetByID returns a reservation by its identifier. ErrReservationNotFound
// is returned when no row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, programme_id, category, quantity, unit_price_cents, total_amount_cents, created_at
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	var category string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.UserID, &res.ProgrammeID, &category, &res.Quantity,
		&res.UnitPriceCents, &res.TotalAmountCents, &res.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	res.Category = model.TicketCategory(category)
	return &res, nil
}

// ReservationDetail is a reservation joined with its programme and payment
// state, returned by the history listings. Amounts are rendered as decimal
// strings alongside the raw cents so clients do not need to convert.
type ReservationDetail struct {
	ID               uint64  `json:"id"`
	ProgrammeID      uint64  `json:"programme_id"`
	Equipe1          string  `json:"equipe1"`
	Equipe2          string  `json:"equipe2"`
	Stadium          string  `json:"stadium"`
	Date             string  `json:"date"`
	Category         string  `json:"category"`
	Quantity         uint32  `json:"quantity"`
	TotalAmountCents int64   `json:"total_amount_cents"`
	TotalAmount      string  `json:"total_amount"`
	Status           string  `json:"status"`
	PaymentRef       *string `json:"payment_ref,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

const detailQ = `SELECT r.id, r.programme_id, p.equipe1, p.equipe2, p.stadium, p.date,
                        r.category, r.quantity, r.total_amount_cents, r.created_at,
                        pay.external_ref
                 FROM reservations r
                 JOIN programmes p ON p.id = r.programme_id
                 LEFT JOIN payments pay ON pay.reservation_id = r.id`

func scanDetail(rows interface{ Scan(...any) error }) (ReservationDetail, error) {
	var d ReservationDetail
	var date, createdAt time.Time
	var payRef sql.NullString
	err := rows.Scan(&d.ID, &d.ProgrammeID, &d.Equipe1, &d.Equipe2, &d.Stadium, &date,
		&d.Category, &d.Quantity, &d.TotalAmountCents, &createdAt, &payRef)
	if err != nil {
		return d, err
	}
	d.Date = date.UTC().Format(time.RFC3339)
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	d.TotalAmount = model.FormatCents(d.TotalAmountCents)
	if payRef.Valid {
		ref := payRef.String
		d.PaymentRef = &ref
		d.Status = "PAID"
	} else {
		d.Status = "UNPAID"
	}
	return d, nil
}

// ListByUser returns the reservation history for a spectator, newest
// first. When no reservations exist an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQ+` WHERE r.user_id = ? ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByProgramme returns all reservations for a programme, newest first.
// Used by agents to review sales for an event.
func (r *ReservationRepo) ListByProgramme(ctx context.Context, programmeID uint64) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQ+` WHERE r.programme_id = ? ORDER BY r.created_at DESC`, programmeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetDetail returns a single reservation detail without an ownership
// restriction. Used internally, e.g. to build event payloads after a
// webhook confirmation where no user context exists.
func (r *ReservationRepo) GetDetail(ctx context.Context, reservationID uint64) (*ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQ+` WHERE r.id = ?`, reservationID)
	d, err := scanDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetailForUser returns a single reservation detail, restricted to the
// owning user. ErrReservationNotFound is returned when no matching row
// exists (either the id is unknown or it belongs to someone else).
func (r *ReservationRepo) GetDetailForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQ+` WHERE r.id = ? AND r.user_id = ?`, reservationID, userID)
	d, err := scanDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
