package paging

import "errors"

var (
	// ErrInvalidPageSize rejects a page size outside 1..MaxPageSize before
	// any store access.
	ErrInvalidPageSize = errors.New("paging: page size out of range")

	// ErrInvalidDirection rejects a direction other than next or prev before
	// any store access.
	ErrInvalidDirection = errors.New("paging: invalid direction")

	// ErrUnsupportedQuery reports a filter/sort combination the backing store
	// cannot execute, typically a missing index. Not retryable; an operator
	// has to add the missing capability.
	ErrUnsupportedQuery = errors.New("paging: filter/sort combination not executable by store")

	// ErrStoreUnavailable reports a transient scan failure. Retry policy is
	// the caller's responsibility: a page fetch is not idempotent with
	// respect to has-more under concurrent mutation, so the engine never
	// retries on its own.
	ErrStoreUnavailable = errors.New("paging: store unavailable")
)
