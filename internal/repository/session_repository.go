// This file defines repository methods for sessions. A Session is one
// concrete bookable slot; rows are created by the materializer (or manually
// by owners) and their current_participants cache is corrected by the
// reconciler. The sessions table carries a unique index on
// (template_id, session_date) which is the sole deduplication mechanism for
// concurrent materialization passes.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrSessionNotFound indicates that a session was not located in the DB.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepo manages persistence for sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories, e.g. the booking flow that
// inserts a reservation and bumps the participant cache atomically.
func (r *SessionRepo) DB() *sql.DB {
	return r.db
}

const sessionCols = `id, branch_id, hall_id, template_id, title, session_date, start_time,
       duration_min, price_cents, max_participants, current_participants, created_at, updated_at`

// scanSession scans one row produced by a sessionCols SELECT.
func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var (
		s          model.Session
		templateID sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.BranchID, &s.HallID, &templateID, &s.Title, &s.Date, &s.StartTime,
		&s.DurationMin, &s.PriceCents, &s.MaxParticipants, &s.CurrentParticipants,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Session{}, err
	}
	if templateID.Valid {
		id := uint64(templateID.Int64)
		s.TemplateID = &id
	}
	return s, nil
}

// FindByTemplateAndDate looks up the session materialized from a template
// on a given date ("2006-01-02"). It returns (nil, nil) when no such
// session exists; the materializer uses that as its skip signal.
func (r *SessionRepo) FindByTemplateAndDate(ctx context.Context, templateID uint64, date string) (*model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM sessions WHERE template_id = ? AND session_date = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, templateID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new session and assigns the generated ID back to the
// struct. When the unique index on (template_id, session_date) rejects the
// insert, ErrDuplicateSession is returned so callers can treat the loss of
// a materialization race as a no-op.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions
	           (branch_id, hall_id, template_id, title, session_date, start_time, duration_min, price_cents, max_participants, current_participants)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var templateID any
	if s.TemplateID != nil {
		templateID = *s.TemplateID
	}
	res, err := r.db.ExecContext(ctx, q, s.BranchID, s.HallID, templateID, s.Title, s.Date,
		s.StartTime, s.DurationMin, s.PriceCents, s.MaxParticipants, s.CurrentParticipants)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSession
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Read the row back so DB defaults (timestamps) are populated.
	const sel = `SELECT ` + sessionCols + ` FROM sessions WHERE id = ?`
	got, err := scanSession(r.db.QueryRowContext(ctx, sel, s.ID))
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// GetByID retrieves a session by its ID. It returns ErrSessionNotFound if
// there is no matching row.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM sessions WHERE id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns every session ordered by id ascending. The reconciler
// iterates this for its full sweep; ordering keeps the pass deterministic.
func (r *SessionRepo) ListAll(ctx context.Context) ([]model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM sessions ORDER BY id ASC`
	return r.queryList(ctx, q)
}

// ListByHallAndRange returns the sessions of a hall whose date falls within
// [from, to] ("2006-01-02", inclusive), ordered by date then start time.
// Used by the public browse endpoints.
func (r *SessionRepo) ListByHallAndRange(ctx context.Context, hallID uint64, from, to string) ([]model.Session, error) {
	const q = `SELECT ` + sessionCols + `
	           FROM sessions
	           WHERE hall_id = ? AND session_date >= ? AND session_date <= ?
	           ORDER BY session_date ASC, start_time ASC`
	return r.queryList(ctx, q, hallID, from, to)
}

// UpdateParticipants overwrites the cached participant count of a session.
// Only the reconciler and the booking flow call this; the reconciler is the
// corrective authority when the fast path drifts.
func (r *SessionRepo) UpdateParticipants(ctx context.Context, id uint64, count uint32) error {
	const q = `UPDATE sessions SET current_participants = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, count, id)
	if err != nil {
		return err
	}
	// RowsAffected is zero both for a missing row and for an unchanged
	// value, so distinguish the two before reporting not-found.
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			return err
		}
	}
	return nil
}

// GetByIDForUpdateTx fetches a session inside a transaction with a row
// lock. The booking flow uses it so the capacity check and the participant
// bump see a stable row.
func (r *SessionRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM sessions WHERE id = ? FOR UPDATE`
	s, err := scanSession(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AddParticipantsTx shifts the cached participant count by delta within a
// transaction, clamping at zero. This is the booking flow's best-effort
// fast path; the reconciler corrects any drift.
func (r *SessionRepo) AddParticipantsTx(ctx context.Context, tx *sql.Tx, id uint64, delta int64) error {
	const q = `UPDATE sessions
	           SET current_participants = GREATEST(0, CAST(current_participants AS SIGNED) + ?),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, delta, id)
	return err
}

// queryList runs a sessionCols SELECT and scans all rows.
func (r *SessionRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
