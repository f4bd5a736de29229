package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrReservationNotFound indicates that a reservation was not located.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides data access for reservations. Reservations are
// created and cancelled by the booking flow; the reconciler only ever reads
// the SumActivePeople aggregate. All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, session_id, user_id, code, number_of_people, cancelled_at, created_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		res         model.Reservation
		cancelledAt sql.NullString
	)
	err := row.Scan(&res.ID, &res.SessionID, &res.UserID, &res.Code,
		&res.NumberOfPeople, &cancelledAt, &res.CreatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	if cancelledAt.Valid {
		ts := cancelledAt.String
		res.CancelledAt = &ts
	}
	return res, nil
}

// SumActivePeople returns the total head count of non-cancelled
// reservations for a session. COALESCE turns the empty aggregate into 0 so
// a session without reservations reconciles to zero rather than erroring.
func (r *ReservationRepo) SumActivePeople(ctx context.Context, sessionID uint64) (uint32, error) {
	const q = `SELECT COALESCE(SUM(number_of_people), 0)
	           FROM reservations
	           WHERE session_id = ? AND cancelled_at IS NULL`
	var total uint32
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// CreateTx inserts a reservation within the scope of an existing
// transaction and populates the generated ID. The caller must commit or
// roll back; the booking handler pairs this with the participant bump on
// the session row.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (session_id, user_id, code, number_of_people) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.SessionID, res.UserID, res.Code, res.NumberOfPeople)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	got, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = got
	return nil
}

// GetByIDTx fetches a reservation inside a transaction with a row lock so
// the cancellation flow can check ownership and state before mutating.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// CancelTx stamps cancelled_at on an active reservation within the given
// transaction. Cancelling an already-cancelled reservation is a conflict.
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE reservations SET cancelled_at = UTC_TIMESTAMP() WHERE id = ? AND cancelled_at IS NULL`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE user_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
