package paging

import "context"

// Direction selects which side of the cursor a page is read from.
type Direction string

const (
	// DirectionNext reads the page after the cursor in ascending order.
	DirectionNext Direction = "next"
	// DirectionPrev reads the page before the cursor.
	DirectionPrev Direction = "prev"
)

const (
	// MaxPageSize bounds the requested page size.
	MaxPageSize = 100

	// maxScanLimit caps a single cursor-relative over-fetch. The store-side
	// range hint is approximate, so the scan requests a multiple of the page
	// size to keep enough confirmed in-range candidates after boundary
	// correction.
	maxScanLimit = 100
)

// Source is the collaborator interface to the backing store: a bounded,
// sorted, filtered range scan returning up to limit candidates.
//
// Candidates must arrive in fetch order: ascending for next, descending for
// prev (nearest the cursor first). With a nil cursor the scan starts from the
// natural beginning (next) or end (prev) of the ordering. A non-nil cursor is
// a best-effort range hint only; the source may push as much of the
// after/before condition to the store as it can express and leave exact
// boundary enforcement to the engine.
//
// A scan that the store cannot execute for the listing's filter/sort
// combination must fail with ErrUnsupportedQuery; transient store failures
// must fail with ErrStoreUnavailable. Scans are bounded by the caller's
// context deadline.
type Source[T Keyer] interface {
	Scan(ctx context.Context, cursor *Cursor, dir Direction, limit int) ([]T, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T Keyer] func(ctx context.Context, cursor *Cursor, dir Direction, limit int) ([]T, error)

// Scan calls f.
func (f SourceFunc[T]) Scan(ctx context.Context, cursor *Cursor, dir Direction, limit int) ([]T, error) {
	return f(ctx, cursor, dir, limit)
}

// ScanLimit computes the over-fetch margin for one page scan. Without a
// cursor a single extra candidate detects whether more pages exist. With a
// cursor the store-side range condition is only approximate, so the scan
// asks for a larger multiple, capped, but never less than pageSize+1.
func ScanLimit(pageSize int, hasCursor bool) int {
	if !hasCursor {
		return pageSize + 1
	}
	limit := pageSize * 3
	if limit > maxScanLimit {
		limit = maxScanLimit
	}
	if limit < pageSize+1 {
		limit = pageSize + 1
	}
	return limit
}
