/*
scheduler.go - Scheduled auto-reconciliation

PURPOSE:
  Runs the reconciliation sweep once daily, after hours, inserting synthetic
  clock-outs for staff who forgot to clock out. Each sweep is recorded as a
  run for audit and UI display.

DESIGN:
  - robfig/cron drives the schedule (default "0 22 * * *", 22:00 daily)
  - The sweep targets "today" at trigger time; re-running is always safe
    because only currently-open staff are acted on
  - Per-staff failures do not abort the batch; the run records a
    partial-success count

USAGE:
  scheduler := NewReconciliationScheduler(store, policy, "0 22 * * *")
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunReconciliation endpoint (manual trigger)
  - payroll/reconcile.go: The sweep itself
*/
package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// ReconciliationScheduler runs the daily reconciliation sweep.
type ReconciliationScheduler struct {
	Store  *sqlite.Store
	Policy payroll.WorkdayPolicy
	Spec   string // cron spec, e.g. "0 22 * * *"

	cron *cron.Cron

	// now is swappable for tests.
	now func() time.Time
}

// NewReconciliationScheduler creates a scheduler with the given cron spec.
func NewReconciliationScheduler(store *sqlite.Store, policy payroll.WorkdayPolicy, spec string) *ReconciliationScheduler {
	if spec == "" {
		spec = "0 22 * * *"
	}
	return &ReconciliationScheduler{
		Store:  store,
		Policy: policy,
		Spec:   spec,
		now:    time.Now,
	}
}

// Start registers the cron entry and begins the schedule.
func (rs *ReconciliationScheduler) Start() error {
	rs.cron = cron.New()
	if _, err := rs.cron.AddFunc(rs.Spec, rs.sweep); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", rs.Spec, err)
	}
	rs.cron.Start()
	log.Printf("[Scheduler] Started with spec %q", rs.Spec)
	return nil
}

// Stop stops the schedule, waiting for a running sweep to finish.
func (rs *ReconciliationScheduler) Stop() {
	if rs.cron != nil {
		ctx := rs.cron.Stop()
		<-ctx.Done()
		log.Println("[Scheduler] Stopped")
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (rs *ReconciliationScheduler) RunNow() {
	rs.sweep()
}

func (rs *ReconciliationScheduler) sweep() {
	ctx := context.Background()
	date := payroll.DateOf(rs.now().UTC())
	started := rs.now().UTC()

	reconciler := &payroll.Reconciler{
		Events:     rs.Store,
		Policy:     rs.Policy,
		NewEventID: newEventID,
	}

	result, err := reconciler.Reconcile(ctx, date)

	run := payroll.ReconciliationRun{
		ID:         fmt.Sprintf("run-%d", started.UnixNano()),
		Date:       date,
		StartedAt:  started.Format(time.RFC3339),
		FinishedAt: rs.now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		run.Error = err.Error()
		log.Printf("[Scheduler] Sweep failed for %s: %v", date, err)
	} else {
		run.Reconciled = result.Reconciled
		run.Failed = len(result.Failures)
		for _, f := range result.Failures {
			log.Printf("[Scheduler] Failed to reconcile %s: %v", f.StaffID, f.Err)
		}
		if result.Reconciled > 0 || len(result.Failures) > 0 {
			log.Printf("[Scheduler] Completed %s: %d reconciled, %d failed",
				date, result.Reconciled, len(result.Failures))
		}
	}

	if err := rs.Store.SaveRun(ctx, run); err != nil {
		log.Printf("[Scheduler] Failed to record run: %v", err)
	}
}
