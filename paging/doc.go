// Package paging provides cursor-based pagination over live, mutating
// document collections.
//
// Cursor-based pagination is superior to offset-based pagination for:
//   - Large datasets (no performance degradation with deep pages)
//   - Real-time data (handles insertions/deletions gracefully)
//   - Consistent results (no duplicates or missing items)
//
// A cursor is an opaque, self-contained token encoding the (sortKey,
// tieBreakID) position of the page boundary. Listings are ordered by sort key
// first (an absent sort key sorts lowest) with ties broken by the unique
// tie-break id, which makes forward and backward traversal exact mirror
// images of each other.
//
// The engine assumes the backing store can run a filtered, sorted,
// range-bounded scan but cannot necessarily express "strictly after
// (sortKey, tieBreakID)" exactly, in particular when sort keys repeat or are
// absent. It therefore over-fetches candidates, re-derives exact boundary
// membership in the application layer, and trims the surviving set to the
// page size.
//
// # Basic Usage
//
//	page, err := paging.Paginate(ctx, source, paging.Request{
//	    Cursor:    r.URL.Query().Get("cursor"),
//	    PageSize:  20,
//	    Direction: paging.DirectionNext,
//	})
//
// The engine is stateless and request-scoped: tokens carry every piece of
// resumption state, so arbitrary concurrent callers may paginate the same
// collection. Consistency between two page fetches is bounded by the store's
// read consistency; items inserted or removed mid-traversal may be skipped
// or, rarely, repeated at page boundaries.
//
// A cursor is only valid for the (collection, filter set, sort order) it was
// issued under. Malformed or mixed-up tokens are not an error: they decode to
// "no cursor" and the traversal degrades to a first page.
package paging
