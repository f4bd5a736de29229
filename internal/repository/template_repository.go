// Package repository contains data access logic for the booking domain.
// This file defines repository methods for session templates. A template is
// the recurrence definition that the materializer expands into concrete
// sessions; the materializer reads templates but never writes them.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrTemplateNotFound indicates that a template was not located in the DB.
var ErrTemplateNotFound = errors.New("template not found")

// ErrBadRecurrence indicates a stored recurrence rule that cannot be
// decoded (unknown kind or malformed weekday CSV). It points at corrupt
// data rather than a caller mistake.
var ErrBadRecurrence = errors.New("malformed recurrence rule")

// TemplateRepo manages persistence for session templates.
type TemplateRepo struct {
	db *sql.DB
}

// NewTemplateRepo constructs a TemplateRepo with the given DB handle.
func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

// templateCols is the column list shared by every SELECT in this file. The
// branch_id comes from the owning hall so that callers get both references
// in one round trip.
const templateCols = `t.id, t.hall_id, h.branch_id, t.title, t.recurrence_kind, t.days_of_week,
       t.day_of_month, t.start_time, t.duration_min, t.price_cents, t.max_participants,
       t.is_active, t.created_at, t.updated_at`

// scanTemplate scans one row produced by a templateCols SELECT into a
// model.SessionTemplate, decoding the recurrence columns into the tagged
// rule variant.
func scanTemplate(row interface{ Scan(...any) error }) (model.SessionTemplate, error) {
	var (
		t          model.SessionTemplate
		kind       string
		daysCSV    sql.NullString
		dayOfMonth sql.NullInt32
	)
	err := row.Scan(&t.ID, &t.HallID, &t.BranchID, &t.Title, &kind, &daysCSV,
		&dayOfMonth, &t.StartTime, &t.DurationMin, &t.PriceCents, &t.MaxParticipants,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.SessionTemplate{}, err
	}
	t.Rule.Kind = model.RecurrenceKind(kind)
	switch t.Rule.Kind {
	case model.RecurrenceWeekly:
		days, ok := model.ParseWeekdays(daysCSV.String)
		if !ok {
			return model.SessionTemplate{}, ErrBadRecurrence
		}
		t.Rule.DaysOfWeek = days
	case model.RecurrenceMonthly:
		t.Rule.DayOfMonth = int(dayOfMonth.Int32)
	default:
		return model.SessionTemplate{}, ErrBadRecurrence
	}
	return t, nil
}

// ListActiveTemplates returns every template flagged active, ordered by id
// ascending. It is the bulk read the materializer starts from; a failure
// here aborts the whole materialization pass.
func (r *TemplateRepo) ListActiveTemplates(ctx context.Context) ([]model.SessionTemplate, error) {
	const q = `SELECT ` + templateCols + `
	           FROM session_templates t
	           JOIN halls h ON h.id = t.hall_id
	           WHERE t.is_active = 1
	           ORDER BY t.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.SessionTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a template by its ID. It returns ErrTemplateNotFound
// if there is no matching row.
func (r *TemplateRepo) GetByID(ctx context.Context, id uint64) (*model.SessionTemplate, error) {
	const q = `SELECT ` + templateCols + `
	           FROM session_templates t
	           JOIN halls h ON h.id = t.hall_id
	           WHERE t.id = ?`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByHall returns all templates of a hall (active or not), ordered by id
// ascending. Used by the owner management endpoints.
func (r *TemplateRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.SessionTemplate, error) {
	const q = `SELECT ` + templateCols + `
	           FROM session_templates t
	           JOIN halls h ON h.id = t.hall_id
	           WHERE t.hall_id = ?
	           ORDER BY t.id ASC`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.SessionTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a new template and assigns the generated ID back to the
// struct. The recurrence rule is encoded into the kind/days/day columns.
// After the insert the row is read back so DB defaults (is_active,
// timestamps) are populated.
func (r *TemplateRepo) Create(ctx context.Context, t *model.SessionTemplate) error {
	const q = `INSERT INTO session_templates
	           (hall_id, title, recurrence_kind, days_of_week, day_of_month, start_time, duration_min, price_cents, max_participants)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	days, dom := encodeRule(t.Rule)
	res, err := r.db.ExecContext(ctx, q, t.HallID, t.Title, string(t.Rule.Kind), days, dom,
		t.StartTime, t.DurationMin, t.PriceCents, t.MaxParticipants)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	got, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// UpdateByIDAndOwner updates a template's attributes when it belongs to a
// hall of a branch owned by the given owner. It returns ErrTemplateNotFound
// when the row does not exist and ErrForbidden when it is owned by someone
// else. The is_active flag is part of the update so owners deactivate
// templates through the same endpoint.
func (r *TemplateRepo) UpdateByIDAndOwner(ctx context.Context, t *model.SessionTemplate, ownerID uint64) error {
	var dbOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT b.owner_id
		 FROM session_templates st
		 JOIN halls h ON h.id = st.hall_id
		 JOIN branches b ON b.id = h.branch_id
		 WHERE st.id = ?`, t.ID).Scan(&dbOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTemplateNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	days, dom := encodeRule(t.Rule)
	const q = `UPDATE session_templates
	           SET title = ?, recurrence_kind = ?, days_of_week = ?, day_of_month = ?,
	               start_time = ?, duration_min = ?, price_cents = ?, max_participants = ?,
	               is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, t.Title, string(t.Rule.Kind), days, dom,
		t.StartTime, t.DurationMin, t.PriceCents, t.MaxParticipants, t.IsActive, t.ID)
	return err
}

// DeleteByIDAndOwner removes a template owned by the given owner. Sessions
// already materialized from it are kept; their template_id is set to NULL
// by the foreign key so manual history survives. Returns
// ErrTemplateNotFound or ErrForbidden analogous to UpdateByIDAndOwner.
func (r *TemplateRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	var dbOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT b.owner_id
		 FROM session_templates st
		 JOIN halls h ON h.id = st.hall_id
		 JOIN branches b ON b.id = h.branch_id
		 WHERE st.id = ?`, id).Scan(&dbOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTemplateNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM session_templates WHERE id = ?`, id)
	return err
}

// encodeRule flattens a RecurrenceRule into its two nullable DB columns.
func encodeRule(rule model.RecurrenceRule) (days sql.NullString, dom sql.NullInt32) {
	switch rule.Kind {
	case model.RecurrenceWeekly:
		days = sql.NullString{String: model.EncodeWeekdays(rule.DaysOfWeek), Valid: true}
	case model.RecurrenceMonthly:
		dom = sql.NullInt32{Int32: int32(rule.DayOfMonth), Valid: true}
	}
	return days, dom
}
