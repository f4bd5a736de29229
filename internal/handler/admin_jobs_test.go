package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/job"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// memStore is a minimal in-memory store implementing the job interfaces
// for handler tests.
type memStore struct {
	templates []model.SessionTemplate
	sessions  []model.Session
	people    map[uint64]uint32
	nextID    uint64
}

func (m *memStore) ListActiveTemplates(ctx context.Context) ([]model.SessionTemplate, error) {
	var active []model.SessionTemplate
	for _, t := range m.templates {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (m *memStore) FindByTemplateAndDate(ctx context.Context, templateID uint64, date string) (*model.Session, error) {
	for i := range m.sessions {
		s := m.sessions[i]
		if s.TemplateID != nil && *s.TemplateID == templateID && s.Date == date {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(ctx context.Context, s *model.Session) error {
	m.nextID++
	s.ID = m.nextID
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			s := m.sessions[i]
			return &s, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (m *memStore) ListAll(ctx context.Context) ([]model.Session, error) {
	return append([]model.Session(nil), m.sessions...), nil
}

func (m *memStore) UpdateParticipants(ctx context.Context, id uint64, count uint32) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].CurrentParticipants = count
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

func (m *memStore) SumActivePeople(ctx context.Context, sessionID uint64) (uint32, error) {
	return m.people[sessionID], nil
}

func newJobHandlerForTest(store *memStore) *JobHandler {
	return NewJobHandler(
		job.NewMaterializer(store, store),
		job.NewReconciler(store, store),
	)
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestMaterializeEndpoint(t *testing.T) {
	store := &memStore{people: map[uint64]uint32{}}
	store.templates = append(store.templates, model.SessionTemplate{
		ID:              1,
		HallID:          10,
		BranchID:        1,
		Title:           "spin class",
		Rule:            model.RecurrenceRule{Kind: model.RecurrenceWeekly, DaysOfWeek: []time.Weekday{time.Monday}},
		StartTime:       "09:00:00",
		DurationMin:     45,
		MaxParticipants: 12,
		IsActive:        true,
	})
	h := newJobHandlerForTest(store)

	rec := postJSON(t, h.Materialize, "/v1/admin/jobs/materialize",
		`{"start_date":"2025-06-02","end_date":"2025-06-15"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res job.MaterializeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Succeeded)
	assert.Len(t, res.Created, 2)
}

func TestMaterializeEndpointRejectsInvertedRange(t *testing.T) {
	h := newJobHandlerForTest(&memStore{people: map[uint64]uint32{}})

	rec := postJSON(t, h.Materialize, "/v1/admin/jobs/materialize",
		`{"start_date":"2025-06-15","end_date":"2025-06-02"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaterializeEndpointRejectsBadDates(t *testing.T) {
	h := newJobHandlerForTest(&memStore{people: map[uint64]uint32{}})

	rec := postJSON(t, h.Materialize, "/v1/admin/jobs/materialize",
		`{"start_date":"06/02/2025","end_date":"2025-06-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcileEndpointFullSweep(t *testing.T) {
	store := &memStore{people: map[uint64]uint32{}}
	store.sessions = append(store.sessions,
		model.Session{ID: 1, CurrentParticipants: 5},
		model.Session{ID: 2, CurrentParticipants: 2},
	)
	store.nextID = 2
	store.people[1] = 3 // drifted
	store.people[2] = 2 // in sync
	h := newJobHandlerForTest(store)

	rec := postJSON(t, h.Reconcile, "/v1/admin/jobs/reconcile", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res job.ReconcileResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Updated)
}

func TestReconcileEndpointSingleSessionNotFound(t *testing.T) {
	h := newJobHandlerForTest(&memStore{people: map[uint64]uint32{}})

	rec := postJSON(t, h.Reconcile, "/v1/admin/jobs/reconcile", `{"session_id":404}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
