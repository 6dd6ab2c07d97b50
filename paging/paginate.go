package paging

import (
	"context"
	"fmt"
)

// Request carries the caller-facing pagination parameters of one page.
type Request struct {
	// Cursor is the opaque resumption token, empty for a first page.
	Cursor string `json:"cursor" form:"cursor"`
	// PageSize is the maximum number of items to return, 1..MaxPageSize.
	PageSize int `json:"page_size" form:"page_size"`
	// Direction selects forward or backward traversal; empty defaults to next.
	Direction Direction `json:"direction" form:"direction"`
}

// Page is one page of a listing in ascending display order, together with the
// resumption tokens of its neighbours.
type Page[T Keyer] struct {
	Items       []T    `json:"items"`
	NextCursor  string `json:"next_cursor,omitempty"`
	PrevCursor  string `json:"prev_cursor,omitempty"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
	PageSize    int    `json:"page_size"`
}

// Paginate runs the request-scoped pagination pipeline against a source:
// decode the cursor, scan with an over-fetch margin, correct the boundary,
// restore display order, trim to the page size and derive has-flags plus
// fresh cursor tokens.
//
// Request validation failures surface as ErrInvalidPageSize or
// ErrInvalidDirection before the store is touched. Scan failures propagate
// unchanged, so callers can test them with errors.Is against
// ErrUnsupportedQuery and ErrStoreUnavailable. A malformed cursor token is
// not an error; it degrades to a first page.
func Paginate[T Keyer](ctx context.Context, src Source[T], req Request) (*Page[T], error) {
	dir := req.Direction
	if dir == "" {
		dir = DirectionNext
	}
	if dir != DirectionNext && dir != DirectionPrev {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, req.Direction)
	}
	if req.PageSize < 1 || req.PageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, req.PageSize)
	}

	cursor, _ := DecodeCursor(req.Cursor)
	hadCursor := cursor != nil

	items, err := src.Scan(ctx, cursor, dir, ScanLimit(req.PageSize, hadCursor))
	if err != nil {
		return nil, err
	}

	// Exact strictly-after/strictly-before membership; the scan's range hint
	// is only best effort.
	items = TrimToBounds(items, cursor, dir)

	// Prev pages are fetched nearest-cursor-first; restore ascending display
	// order before trimming.
	if dir == DirectionPrev {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	hasMore := len(items) > req.PageSize
	if hasMore {
		if dir == DirectionPrev {
			// Keep the items nearest the cursor, which for prev sit at the
			// tail of the ascending set.
			items = items[len(items)-req.PageSize:]
		} else {
			items = items[:req.PageSize]
		}
	}

	var hasNext, hasPrevious bool
	if dir == DirectionNext {
		hasNext = hasMore
		hasPrevious = hadCursor
	} else {
		// The cursor that produced a prev page can always resume forward
		// traversal, so its forward neighbour trivially exists.
		hasNext = hadCursor
		hasPrevious = hasMore
	}

	page := &Page[T]{
		Items:       items,
		HasNext:     hasNext,
		HasPrevious: hasPrevious,
		PageSize:    req.PageSize,
	}
	if page.Items == nil {
		page.Items = make([]T, 0)
	}

	if len(items) > 0 {
		if hasNext {
			page.NextCursor = EncodeCursor(cursorAt(items[len(items)-1].PageKey()))
		}
		if hasPrevious {
			page.PrevCursor = EncodeCursor(cursorAt(items[0].PageKey()))
		}
	}

	return page, nil
}
