package checkoutlog

import "context"

// Repository is the port for persisting checkout log entries. The
// orchestrator depends on this abstraction rather than on SQLite
// directly, so tests can swap in an in-memory implementation.
type Repository interface {
	// Save appends a new entry. The log is append-only, never upserted.
	Save(ctx context.Context, entry *Entry) error
}
