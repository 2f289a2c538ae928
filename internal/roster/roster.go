package roster

import (
	"context"
	"time"
)

// Record is one active presence entry. At most one record exists per
// name at any time; the roster is a set keyed on Name.
type Record struct {
	ID          string    `json:"id"`
	SecondaryID string    `json:"secondary_id"`
	Name        string    `json:"name"`
	ArrivedAt   time.Time `json:"arrived_at"`
}

// Store holds the current roster. Implementations must be safe for the
// single sequential writer (the ingest loop) plus concurrent readers
// (the HTTP API).
type Store interface {
	// Clear removes every record. Idempotent.
	Clear(ctx context.Context) error

	// Exists reports whether a record for name is present.
	Exists(ctx context.Context, name string) (bool, error)

	// Insert adds a record. The caller checks Exists first; inserting
	// a name that is already present is a caller bug, not a store
	// concern.
	Insert(ctx context.Context, rec Record) error

	// Remove deletes the record for name, reporting whether one was
	// present. A miss is an ordinary outcome, not an error.
	Remove(ctx context.Context, name string) (bool, error)

	// Snapshot returns all current records, newest arrival first.
	Snapshot(ctx context.Context) ([]Record, error)

	// Size returns the number of current records.
	Size(ctx context.Context) (int, error)

	Close() error
}
