// Package job implements the session materialization and participant
// reconciliation passes. Both are short-lived, stateless batch jobs: a
// scheduler or an admin endpoint invokes them, they make synchronous store
// round trips, and they return a structured summary. Neither holds state
// between invocations.
package job

import (
	"context"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrInvalidRange is returned by Materialize when the start date falls
// after the end date. Nothing is created in that case.
var ErrInvalidRange = errors.New("invalid date range: start after end")

// TemplateStore is the read-only view of session templates the
// materializer needs.
type TemplateStore interface {
	// ListActiveTemplates returns every template flagged active.
	ListActiveTemplates(ctx context.Context) ([]model.SessionTemplate, error)
}

// SessionStore covers the session reads and writes both jobs perform.
// *repository.SessionRepo satisfies it.
type SessionStore interface {
	// FindByTemplateAndDate returns (nil, nil) when no session exists for
	// the (template, date) pair.
	FindByTemplateAndDate(ctx context.Context, templateID uint64, date string) (*model.Session, error)
	// Create inserts a session; it returns repository.ErrDuplicateSession
	// when the store's unique index on (template_id, session_date) rejects
	// the insert.
	Create(ctx context.Context, s *model.Session) error
	// GetByID returns repository.ErrSessionNotFound on a miss.
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	// ListAll returns every session ordered by id ascending.
	ListAll(ctx context.Context) ([]model.Session, error)
	// UpdateParticipants overwrites the cached participant count.
	UpdateParticipants(ctx context.Context, id uint64, count uint32) error
}

// ReservationStore is the read-only aggregate view of the reservation
// ledger the reconciler needs.
type ReservationStore interface {
	// SumActivePeople totals number_of_people over non-cancelled
	// reservations of a session.
	SumActivePeople(ctx context.Context, sessionID uint64) (uint32, error)
}

// ItemFailure records one per-item error inside an otherwise continuing
// pass. TemplateID and Date are set by the materializer, SessionID by the
// reconciler.
type ItemFailure struct {
	TemplateID uint64 `json:"template_id,omitempty"`
	SessionID  uint64 `json:"session_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Err        string `json:"error"`
}
