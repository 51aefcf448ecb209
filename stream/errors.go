package stream

import "errors"

// The stream manager's error taxonomy (spec §7): a small, stable set of
// sentinel kinds, wrapped with context via fmt.Errorf("...: %w", ...) at
// the call site, matching the teacher's error style throughout
// server/world. IoError and FormatError are also produced by package
// region (region.ErrBadBlob, wrapped os errors); a SeedMismatch from
// NewManager is region.ErrSeedMismatch wrapped with %w, so errors.Is
// still sees through to it.
var (
	// ErrCapacityPressure is not returned by any call; it is attached to
	// the rate-limited warning logged when a worker pool's job queue is
	// saturated and the newest low-priority work is dropped rather than
	// blocking the main thread (spec §7, "CapacityPressure").
	ErrCapacityPressure = errors.New("stream: capacity pressure")

	// ErrShuttingDown is returned by a second call to Shutdown; other
	// Manager methods do not check for a shutdown in progress.
	ErrShuttingDown = errors.New("stream: manager is shutting down")
)
