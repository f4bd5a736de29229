package job

import (
	"context"
	"log"
	"time"
)

// Scheduler triggers the two batch passes on fixed intervals: a
// materialization of the rolling window every MaterializeEvery, and a full
// reconciliation sweep every ReconcileEvery. Both jobs are idempotent, so
// an overlapping external trigger (admin endpoint, second instance) is
// harmless.
type Scheduler struct {
	Materializer     *Materializer
	Reconciler       *Reconciler
	WindowDays       int           // rolling window size, starting today
	MaterializeEvery time.Duration // zero disables the materialize ticker
	ReconcileEvery   time.Duration // zero disables the reconcile ticker
}

// Run blocks until ctx is cancelled, firing both jobs on their intervals.
// Each interval fires once immediately on startup so a fresh deployment
// materializes its window without waiting a day.
func (s *Scheduler) Run(ctx context.Context) {
	if s.MaterializeEvery > 0 {
		go s.loop(ctx, s.MaterializeEvery, s.runMaterialize)
	}
	if s.ReconcileEvery > 0 {
		go s.loop(ctx, s.ReconcileEvery, s.runReconcile)
	}
	<-ctx.Done()
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, fn func(context.Context)) {
	fn(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (s *Scheduler) runMaterialize(ctx context.Context) {
	days := s.WindowDays
	if days < 1 {
		days = 1
	}
	start := time.Now().UTC()
	end := start.AddDate(0, 0, days-1)
	res, err := s.Materializer.Materialize(ctx, start, end)
	if err != nil {
		log.Printf("scheduler: materialize failed: %v", err)
		return
	}
	log.Printf("scheduler: materialize window=%dd attempted=%d succeeded=%d skipped=%d failures=%d",
		days, res.Attempted, res.Succeeded, res.Skipped, len(res.Failures))
}

func (s *Scheduler) runReconcile(ctx context.Context) {
	res, err := s.Reconciler.ReconcileAll(ctx)
	if err != nil {
		log.Printf("scheduler: reconcile failed: %v", err)
		return
	}
	log.Printf("scheduler: reconcile total=%d updated=%d failures=%d",
		res.Total, res.Updated, len(res.Failures))
}
