package repository

import (
	"context"
	"database/sql"

	"github.com/matchtix/stadium-ticketing/internal/model"
)

// ProgrammeRepo provides CRUD operations for programmes. Programmes are
// created and maintained by agents and browsed by spectators. All
// timestamp fields are stored in UTC.
type ProgrammeRepo struct {
	db *sql.DB
}

// NewProgrammeRepo returns a new ProgrammeRepo bound to the given database.
func NewProgrammeRepo(db *sql.DB) *ProgrammeRepo { return &ProgrammeRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *ProgrammeRepo) DB() *sql.DB { return r.db }

const programmeCols = "id, equipe1, equipe2, stadium, date, division, price_a_cents, price_b_cents, created_by, created_at, updated_at"

func scanProgramme(row interface{ Scan(...any) error }) (*model.Programme, error) {
	var p model.Programme
	var createdBy sql.NullInt64
	err := row.Scan(&p.ID, &p.Equipe1, &p.Equipe2, &p.Stadium, &p.Date, &p.Division,
		&p.PriceACents, &p.PriceBCents, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		p.CreatedBy = &v
	}
	return &p, nil
}

// Create inserts a new programme and populates the generated ID and
// timestamps on the provided struct.
func (r *ProgrammeRepo) Create(ctx context.Context, p *model.Programme) error {
	const q = `INSERT INTO programmes (equipe1, equipe2, stadium, date, division, price_a_cents, price_b_cents, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var createdBy any
	if p.CreatedBy != nil {
		createdBy = *p.CreatedBy
	}
	res, err := r.db.ExecContext(ctx, q,
		p.Equipe1, p.Equipe2, p.Stadium, p.Date.UTC().Format("2006-01-02 15:04:05"),
		p.Division, p.PriceACents, p.PriceBCents, createdBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	// Query back the row to populate timestamps and defaults.
	fresh, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// GetByID returns a programme by its identifier. ErrProgrammeNotFound is
// returned when no row exists.
func (r *ProgrammeRepo) GetByID(ctx context.Context, id uint64) (*model.Programme, error) {
	p, err := scanProgramme(r.db.QueryRowContext(ctx,
		"SELECT "+programmeCols+" FROM programmes WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrProgrammeNotFound
	}
	return p, err
}

// Update replaces the editable fields of an existing programme.
// ErrProgrammeNotFound is returned when the programme does not exist.
func (r *ProgrammeRepo) Update(ctx context.Context, p *model.Programme) error {
	const q = `UPDATE programmes
	           SET equipe1=?, equipe2=?, stadium=?, date=?, division=?, price_a_cents=?, price_b_cents=?
	           WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		p.Equipe1, p.Equipe2, p.Stadium, p.Date.UTC().Format("2006-01-02 15:04:05"),
		p.Division, p.PriceACents, p.PriceBCents, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the update is a no-op; confirm existence.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a programme. Reservations referencing it cascade at the
// schema level, mirroring the original data model.
func (r *ProgrammeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM programmes WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProgrammeNotFound
	}
	return nil
}

// List returns all programmes ordered by date ascending, soonest first.
// When no programmes exist an empty slice is returned. Timestamps are
// included as-is; no expiry or capacity filtering happens here.
func (r *ProgrammeRepo) List(ctx context.Context) ([]model.Programme, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+programmeCols+" FROM programmes ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Programme, 0)
	for rows.Next() {
		p, err := scanProgramme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
