package enrich

import "errors"

var (
	// ErrConfiguration marks missing or unusable credentials and settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrSchema marks a catalog schema that cannot support the run.
	ErrSchema = errors.New("schema error")
	// ErrLocked marks a concurrent enrichment run holding the ledger lock.
	ErrLocked = errors.New("another enrichment run is in progress")
)
