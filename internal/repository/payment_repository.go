package repository

import (
	"context"
	"database/sql"

	"github.com/matchtix/stadium-ticketing/internal/model"
)

// PaymentRepo provides persistence for payment records. The payments
// table carries a UNIQUE key on reservation_id, which is what makes
// Insert atomic: concurrent confirmation paths both attempt the insert
// and the database rejects the loser with a duplicate-key error. There
// is no read-then-write window to race through.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Insert creates a payment row for a reservation. It returns
// ErrDuplicatePayment when a payment already exists for that reservation,
// which callers treat as success-no-op. On success the generated ID and
// creation timestamp are populated on the provided struct. Creation is
// all-or-nothing: a failed insert leaves no partial row behind.
func (r *PaymentRepo) Insert(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (reservation_id, amount_cents, method, external_ref)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.ReservationID, p.AmountCents, p.Method, p.ExternalRef)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicatePayment
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// GetByReservation returns the payment for a reservation, or (nil, nil)
// when none exists.
func (r *PaymentRepo) GetByReservation(ctx context.Context, reservationID uint64) (*model.Payment, error) {
	const q = `SELECT id, reservation_id, amount_cents, method, external_ref, created_at
	           FROM payments WHERE reservation_id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&p.ID, &p.ReservationID, &p.AmountCents, &p.Method, &p.ExternalRef, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
