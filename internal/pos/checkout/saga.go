// Package checkout finalizes the cart into a completed order. The
// sequence (create order → upsert customer → clear cart) must behave as
// a single logical transaction, so it is run as an orchestrated series
// of steps where every step carries a compensating action: if a step
// fails, the steps that already succeeded are undone in LIFO order and
// no partial state survives.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grillmate/pos/internal/pos/checkout/checkoutlog"
)

// Step is a single unit of work in the checkout sequence. Compensate
// must undo whatever Execute did.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs a step sequence, records each transition to the
// checkout log, and rolls back on failure.
type Orchestrator struct {
	id    string
	steps []Step
	log   checkoutlog.Repository // nil-safe: logging skipped if nil
}

// NewOrchestrator builds an orchestrator for one checkout run. id ties
// the log entries to the resulting order; repo may be nil.
func NewOrchestrator(id string, steps []Step, repo checkoutlog.Repository) *Orchestrator {
	return &Orchestrator{id: id, steps: steps, log: repo}
}

// Start runs the steps sequentially. The first failure triggers
// compensation of every previously successful step, newest first, and
// is returned to the caller.
func (o *Orchestrator) Start(ctx context.Context, payload string) error {
	o.record(ctx, checkoutlog.StatusStarted, "", payload, nil)

	var done []Step
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing checkout step", "checkout_id", o.id, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "checkout step failed, rolling back",
				"checkout_id", o.id, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, checkoutlog.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, o.rollback(ctx, done)...)
			o.record(ctx, checkoutlog.StatusFailed, step.Name(), "", errs)
			return err
		}
		o.record(ctx, checkoutlog.StatusStepDone, step.Name(), "", nil)
		done = append(done, step)
	}

	o.record(ctx, checkoutlog.StatusCompleted, "", "", nil)
	return nil
}

// rollback compensates successful steps newest-first. Compensation
// failures are collected rather than aborting: every step still gets
// its chance to undo.
func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating checkout step", "checkout_id", o.id, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: checkout compensation failed",
				"checkout_id", o.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status checkoutlog.Status, step, payload string, errs []string) {
	if o.log == nil {
		return
	}
	entry := checkoutlog.NewEntry(ctx, o.id, status, step, payload, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write checkout log", "checkout_id", o.id, "error", err)
	}
}
