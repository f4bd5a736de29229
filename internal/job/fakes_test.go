package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// fakeStore is an in-memory stand-in for the three store interfaces. It
// enforces the (template, date) uniqueness the real sessions table
// provides, so the concurrency tests exercise the same race the MySQL
// unique index resolves.
type fakeStore struct {
	mu        sync.Mutex
	templates []model.SessionTemplate
	sessions  map[uint64]model.Session
	byPair    map[string]uint64 // "templateID|date" -> session id
	nextID    uint64

	people map[uint64]uint32 // session id -> active reservation sum

	listTemplatesErr error
	createErr        map[string]error // "templateID|date" -> forced create error
	updateErr        map[uint64]error // session id -> forced update error
	listAllErr       error
	sumErr           map[uint64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  map[uint64]model.Session{},
		byPair:    map[string]uint64{},
		people:    map[uint64]uint32{},
		createErr: map[string]error{},
		updateErr: map[uint64]error{},
		sumErr:    map[uint64]error{},
	}
}

func pairKey(templateID uint64, date string) string {
	return fmt.Sprintf("%d|%s", templateID, date)
}

func (f *fakeStore) ListActiveTemplates(ctx context.Context) ([]model.SessionTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listTemplatesErr != nil {
		return nil, f.listTemplatesErr
	}
	var active []model.SessionTemplate
	for _, t := range f.templates {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (f *fakeStore) FindByTemplateAndDate(ctx context.Context, templateID uint64, date string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byPair[pairKey(templateID, date)]; ok {
		s := f.sessions[id]
		return &s, nil
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.TemplateID != nil {
		key := pairKey(*s.TemplateID, s.Date)
		if err, ok := f.createErr[key]; ok {
			return err
		}
		if _, exists := f.byPair[key]; exists {
			return repository.ErrDuplicateSession
		}
		f.nextID++
		s.ID = f.nextID
		f.byPair[key] = s.ID
	} else {
		f.nextID++
		s.ID = f.nextID
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	ids := make([]uint64, 0, len(f.sessions))
	for id := range f.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.sessions[id])
	}
	return out, nil
}

func (f *fakeStore) UpdateParticipants(ctx context.Context, id uint64, count uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.updateErr[id]; ok {
		return err
	}
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	s.CurrentParticipants = count
	f.sessions[id] = s
	return nil
}

func (f *fakeStore) SumActivePeople(ctx context.Context, sessionID uint64) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.sumErr[sessionID]; ok {
		return 0, err
	}
	return f.people[sessionID], nil
}

// addSession seeds a session directly, bypassing the uniqueness check.
func (f *fakeStore) addSession(s model.Session) model.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	f.sessions[s.ID] = s
	if s.TemplateID != nil {
		f.byPair[pairKey(*s.TemplateID, s.Date)] = s.ID
	}
	return s
}

// weeklyTemplate builds an active weekly template for tests.
func weeklyTemplate(id uint64, days ...time.Weekday) model.SessionTemplate {
	return model.SessionTemplate{
		ID:              id,
		HallID:          10,
		BranchID:        1,
		Title:           "morning yoga",
		Rule:            model.RecurrenceRule{Kind: model.RecurrenceWeekly, DaysOfWeek: days},
		StartTime:       "09:00:00",
		DurationMin:     60,
		PriceCents:      1500,
		MaxParticipants: 20,
		IsActive:        true,
	}
}
