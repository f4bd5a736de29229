package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/model"
)

// Monday 2025-06-02 anchors the test calendar.
var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func TestMaterializeCoversMatchingDates(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday, time.Wednesday))
	m := NewMaterializer(store, store)

	// Two full weeks: Mon+Wed twice -> exactly four sessions.
	res, err := m.Materialize(context.Background(), monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Attempted)
	assert.Equal(t, 4, res.Succeeded)
	assert.Len(t, res.Created, 4)
	assert.Empty(t, res.Failures)

	var dates []string
	for _, s := range res.Created {
		dates = append(dates, s.Date)
	}
	assert.Equal(t, []string{"2025-06-02", "2025-06-04", "2025-06-09", "2025-06-11"}, dates)
}

func TestMaterializeCopiesTemplateFields(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(7, time.Monday))
	m := NewMaterializer(store, store)

	res, err := m.Materialize(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, res.Created, 1)

	s := res.Created[0]
	require.NotNil(t, s.TemplateID)
	assert.Equal(t, uint64(7), *s.TemplateID)
	assert.Equal(t, uint64(10), s.HallID)
	assert.Equal(t, uint64(1), s.BranchID)
	assert.Equal(t, "09:00:00", s.StartTime)
	assert.Equal(t, uint32(1500), s.PriceCents)
	assert.Equal(t, uint32(20), s.MaxParticipants)
	assert.Equal(t, uint32(0), s.CurrentParticipants)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday, time.Wednesday))
	m := NewMaterializer(store, store)
	ctx := context.Background()

	first, err := m.Materialize(ctx, monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	require.Equal(t, 4, first.Succeeded)

	second, err := m.Materialize(ctx, monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Attempted)
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 4, second.Skipped)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMaterializeSkipsInactiveTemplates(t *testing.T) {
	store := newFakeStore()
	inactive := weeklyTemplate(1, time.Monday, time.Wednesday)
	inactive.IsActive = false
	store.templates = append(store.templates, inactive)
	m := NewMaterializer(store, store)

	res, err := m.Materialize(context.Background(), monday, monday.AddDate(0, 0, 27))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Attempted)
	assert.Empty(t, res.Created)
}

func TestMaterializeSingleDayRange(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday))
	m := NewMaterializer(store, store)

	res, err := m.Materialize(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "2025-06-02", res.Created[0].Date)

	// The same single-day call on a non-matching day creates nothing.
	res, err = m.Materialize(context.Background(), monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, res.Created)
}

func TestMaterializeRejectsInvertedRange(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday))
	m := NewMaterializer(store, store)

	res, err := m.Materialize(context.Background(), monday.AddDate(0, 0, 7), monday)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Nil(t, res)

	all, _ := store.ListAll(context.Background())
	assert.Empty(t, all)
}

func TestMaterializeIgnoresTimeOfDay(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday))
	m := NewMaterializer(store, store)

	// 23:59 on the start day vs 00:01 on the same day is still a valid
	// single-day range once truncated.
	res, err := m.Materialize(context.Background(),
		monday.Add(23*time.Hour+59*time.Minute), monday.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
}

func TestMaterializeAbortsWhenTemplateLoadFails(t *testing.T) {
	store := newFakeStore()
	store.listTemplatesErr = errors.New("db unreachable")
	m := NewMaterializer(store, store)

	res, err := m.Materialize(context.Background(), monday, monday)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "load active templates")
}

func TestMaterializeContinuesPastCreateFailures(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday, time.Wednesday))
	store.createErr[pairKey(1, "2025-06-02")] = errors.New("constraint violation")
	m := NewMaterializer(store, store)

	res, err := m.Materialize(context.Background(), monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Succeeded)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, uint64(1), res.Failures[0].TemplateID)
	assert.Equal(t, "2025-06-02", res.Failures[0].Date)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "2025-06-04", res.Created[0].Date)
}

func TestMaterializeMonthlyTemplate(t *testing.T) {
	store := newFakeStore()
	monthly := weeklyTemplate(2)
	monthly.Rule = model.RecurrenceRule{Kind: model.RecurrenceMonthly, DayOfMonth: 15}
	store.templates = append(store.templates, monthly)
	m := NewMaterializer(store, store)

	// [2025-06-02, 2025-09-02] contains exactly three 15ths; the September
	// one falls outside the range.
	res, err := m.Materialize(context.Background(), monday, monday.AddDate(0, 3, 0))
	require.NoError(t, err)
	require.Len(t, res.Created, 3)
	assert.Equal(t, "2025-06-15", res.Created[0].Date)
	assert.Equal(t, "2025-07-15", res.Created[1].Date)
	assert.Equal(t, "2025-08-15", res.Created[2].Date)
}

func TestConcurrentMaterializePassesNeverDuplicate(t *testing.T) {
	store := newFakeStore()
	store.templates = append(store.templates, weeklyTemplate(1, time.Monday, time.Wednesday, time.Friday))
	m := NewMaterializer(store, store)

	var wg sync.WaitGroup
	results := make([]*MaterializeResult, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := m.Materialize(context.Background(), monday, monday.AddDate(0, 0, 13))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	// 2 weeks x 3 weekdays = 6 distinct (template, date) pairs, no matter
	// how the four passes interleave.
	assert.Len(t, all, 6)

	totalCreated := 0
	for _, res := range results {
		assert.Empty(t, res.Failures)
		totalCreated += res.Succeeded
	}
	assert.Equal(t, 6, totalCreated)
}
