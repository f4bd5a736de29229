package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

func seedSession(store *fakeStore, stored uint32, activeSum uint32) model.Session {
	s := store.addSession(model.Session{
		BranchID:            1,
		HallID:              10,
		Title:               "evening pilates",
		Date:                "2025-06-02",
		StartTime:           "18:00:00",
		MaxParticipants:     20,
		CurrentParticipants: stored,
	})
	store.people[s.ID] = activeSum
	return s
}

func TestReconcileSessionCorrectsDriftedCount(t *testing.T) {
	store := newFakeStore()
	// Stored count says 5, but active reservations only sum to 3 (a
	// cancelled reservation of 10 does not count).
	s := seedSession(store, 5, 3)
	r := NewReconciler(store, store)

	res, err := r.ReconcileSession(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Details, 1)
	d := res.Details[0]
	assert.Equal(t, s.ID, d.SessionID)
	assert.True(t, d.Changed)
	assert.Equal(t, uint32(5), d.Before)
	assert.Equal(t, uint32(3), d.After)

	got, err := store.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), got.CurrentParticipants)
}

func TestReconcileSessionNoopWhenCountMatches(t *testing.T) {
	store := newFakeStore()
	s := seedSession(store, 3, 3)
	// Force any write to fail; a correct pass must not attempt one.
	store.updateErr[s.ID] = errors.New("unexpected write")
	r := NewReconciler(store, store)

	res, err := r.ReconcileSession(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Failures)
	require.Len(t, res.Details, 1)
	assert.False(t, res.Details[0].Changed)
	assert.Equal(t, uint32(3), res.Details[0].Before)
	assert.Equal(t, uint32(3), res.Details[0].After)
}

func TestReconcileSessionNotFound(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, store)

	res, err := r.ReconcileSession(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Nil(t, res)
}

func TestReconcileAllSweepsEverySession(t *testing.T) {
	store := newFakeStore()
	drifted := seedSession(store, 9, 4)
	clean := seedSession(store, 2, 2)
	empty := seedSession(store, 1, 0)
	r := NewReconciler(store, store)

	res, err := r.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Updated)
	require.Len(t, res.Details, 3)
	// Details follow ascending session id.
	assert.Equal(t, drifted.ID, res.Details[0].SessionID)
	assert.Equal(t, clean.ID, res.Details[1].SessionID)
	assert.Equal(t, empty.ID, res.Details[2].SessionID)

	got, _ := store.GetByID(context.Background(), empty.ID)
	assert.Equal(t, uint32(0), got.CurrentParticipants)
}

func TestReconcileAllEmptyStore(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, store)

	res, err := r.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Details)
}

func TestReconcileAllContinuesPastUpdateFailure(t *testing.T) {
	store := newFakeStore()
	broken := seedSession(store, 5, 1)
	drifted := seedSession(store, 7, 2)
	store.updateErr[broken.ID] = errors.New("deadlock")
	r := NewReconciler(store, store)

	res, err := r.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, broken.ID, res.Failures[0].SessionID)

	got, _ := store.GetByID(context.Background(), drifted.ID)
	assert.Equal(t, uint32(2), got.CurrentParticipants)
}

func TestReconcileAllAbortsWhenScanFails(t *testing.T) {
	store := newFakeStore()
	store.listAllErr = errors.New("db unreachable")
	r := NewReconciler(store, store)

	res, err := r.ReconcileAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "list sessions")
}
