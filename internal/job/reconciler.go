package job

import (
	"context"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ReconcileDetail reports the outcome for one session: the stored count
// before the pass, the recomputed count, and whether a correction was
// written.
type ReconcileDetail struct {
	SessionID uint64 `json:"session_id"`
	Before    uint32 `json:"before"`
	After     uint32 `json:"after"`
	Changed   bool   `json:"changed"`
}

// ReconcileResult summarizes a reconciliation pass over one or all
// sessions.
type ReconcileResult struct {
	Updated  int               `json:"updated"`
	Total    int               `json:"total"`
	Details  []ReconcileDetail `json:"details"`
	Failures []ItemFailure     `json:"failures,omitempty"`
}

// Reconciler recomputes each session's cached current_participants from
// the live reservation ledger and persists corrections. It never reasons
// about why a count drifted; it only restores the invariant that the cache
// equals the sum of number_of_people over non-cancelled reservations.
type Reconciler struct {
	sessions     SessionStore
	reservations ReservationStore
}

// NewReconciler constructs a Reconciler over the given stores.
func NewReconciler(sessions SessionStore, reservations ReservationStore) *Reconciler {
	if sessions == nil || reservations == nil {
		panic("nil store passed to NewReconciler")
	}
	return &Reconciler{sessions: sessions, reservations: reservations}
}

// ReconcileSession reconciles a single session. A lookup miss surfaces the
// store's not-found error and nothing is processed.
func (r *Reconciler) ReconcileSession(ctx context.Context, sessionID uint64) (*ReconcileResult, error) {
	s, err := r.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	res := &ReconcileResult{Details: []ReconcileDetail{}}
	r.reconcileOne(ctx, *s, res)
	return res, nil
}

// ReconcileAll sweeps every session in the store, ascending by id. A
// failure of the initial scan aborts the pass; per-session failures are
// recorded and the sweep continues. An empty store yields Total == 0 and
// no error.
func (r *Reconciler) ReconcileAll(ctx context.Context) (*ReconcileResult, error) {
	sessions, err := r.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	res := &ReconcileResult{Details: []ReconcileDetail{}}
	for _, s := range sessions {
		r.reconcileOne(ctx, s, res)
	}
	return res, nil
}

// reconcileOne recomputes one session's count and writes the correction
// only when it differs from the stored value. Errors are recorded on the
// result rather than returned so a sweep keeps going.
func (r *Reconciler) reconcileOne(ctx context.Context, s model.Session, res *ReconcileResult) {
	res.Total++
	actual, err := r.reservations.SumActivePeople(ctx, s.ID)
	if err != nil {
		res.Failures = append(res.Failures, ItemFailure{SessionID: s.ID, Err: err.Error()})
		return
	}
	detail := ReconcileDetail{SessionID: s.ID, Before: s.CurrentParticipants, After: actual}
	if actual != s.CurrentParticipants {
		if err := r.sessions.UpdateParticipants(ctx, s.ID, actual); err != nil {
			res.Failures = append(res.Failures, ItemFailure{SessionID: s.ID, Err: err.Error()})
			return
		}
		detail.Changed = true
		res.Updated++
	}
	res.Details = append(res.Details, detail)
}
