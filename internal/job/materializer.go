package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// DateLayout is the calendar-date format used for session dates.
const DateLayout = "2006-01-02"

// MaterializeResult summarizes one materialization pass. Attempted counts
// the creates actually issued (matching dates minus pre-existing
// sessions); Skipped counts pairs left alone because a session already
// existed or a concurrent pass inserted it first.
type MaterializeResult struct {
	Created   []model.Session `json:"created"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Skipped   int             `json:"skipped"`
	Failures  []ItemFailure   `json:"failures,omitempty"`
}

// Materializer expands active session templates into concrete sessions
// over a date window. It is idempotent: the per-(template, date) existence
// check plus the store's unique index guarantee that re-runs and
// concurrent overlapping runs never duplicate a session.
type Materializer struct {
	templates TemplateStore
	sessions  SessionStore
}

// NewMaterializer constructs a Materializer over the given stores.
func NewMaterializer(templates TemplateStore, sessions SessionStore) *Materializer {
	if templates == nil || sessions == nil {
		panic("nil store passed to NewMaterializer")
	}
	return &Materializer{templates: templates, sessions: sessions}
}

// Materialize creates a session for every (active template, date) pair in
// the closed range [start, end] where the template's recurrence rule
// matches the date and no session exists yet. Only the date portion of
// start and end is considered.
//
// ErrInvalidRange is returned when start is after end, and any failure of
// the initial template load aborts the pass; in both cases nothing has
// been created. Per-pair create failures are recorded in the result and do
// not stop the pass.
func (m *Materializer) Materialize(ctx context.Context, start, end time.Time) (*MaterializeResult, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	templates, err := m.templates.ListActiveTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active templates: %w", err)
	}

	res := &MaterializeResult{Created: []model.Session{}}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		for _, t := range templates {
			if !t.Rule.Matches(d) {
				continue
			}
			existing, err := m.sessions.FindByTemplateAndDate(ctx, t.ID, date)
			if err != nil {
				res.Failures = append(res.Failures, ItemFailure{TemplateID: t.ID, Date: date, Err: err.Error()})
				continue
			}
			if existing != nil {
				res.Skipped++
				continue
			}
			res.Attempted++
			s := sessionFromTemplate(t, date)
			if err := m.sessions.Create(ctx, &s); err != nil {
				if errors.Is(err, repository.ErrDuplicateSession) {
					// A concurrent pass created the same (template, date)
					// pair between our check and the insert. Not a failure.
					res.Attempted--
					res.Skipped++
					continue
				}
				res.Failures = append(res.Failures, ItemFailure{TemplateID: t.ID, Date: date, Err: err.Error()})
				continue
			}
			res.Succeeded++
			res.Created = append(res.Created, s)
		}
	}
	return res, nil
}

// sessionFromTemplate builds the concrete session a template spawns on a
// date: start time, duration, price, capacity and hall/branch all come
// from the template, and the participant cache starts at zero.
func sessionFromTemplate(t model.SessionTemplate, date string) model.Session {
	templateID := t.ID
	return model.Session{
		BranchID:            t.BranchID,
		HallID:              t.HallID,
		TemplateID:          &templateID,
		Title:               t.Title,
		Date:                date,
		StartTime:           t.StartTime,
		DurationMin:         t.DurationMin,
		PriceCents:          t.PriceCents,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: 0,
	}
}

// truncateToDate drops the time-of-day portion, keeping the civil date in
// the value's own location.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
