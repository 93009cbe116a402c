// Package checkoutlog defines the audit trail written by the checkout
// orchestrator. Every state transition of a checkout (started, step done,
// completed, compensating, failed) is appended as an immutable entry, so
// an operator can reconstruct exactly how far a checkout got and, via
// the trace id, jump to the matching trace.
package checkoutlog

import "time"

// Status is the lifecycle state of a checkout run.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single point-in-time snapshot of a checkout run.
type Entry struct {
	// CheckoutID is the unique id of the checkout run. The payload on
	// the STARTED row carries the customer phone, which joins the run
	// with the business ledgers.
	CheckoutID string

	// Status is the lifecycle state at the time this entry was written.
	Status Status

	// CurrentStep names the step that just executed or failed.
	CurrentStep string

	// Payload is the JSON-serialised input, written once on STARTED.
	Payload string

	// ErrorMessages is a JSON array of failure details, one per failed
	// step or failed compensation.
	ErrorMessages string

	// TraceID and SpanID come from the OpenTelemetry span active when
	// the entry was written; empty when tracing is off.
	TraceID string
	SpanID  string

	// UpdatedAt is the wall-clock time of the entry.
	UpdatedAt time.Time
}
