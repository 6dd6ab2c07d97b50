package paging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
)

type testEvent struct {
	id    string
	start *string
}

func (e testEvent) PageKey() Key {
	return Key{SortKey: e.start, TieBreakID: e.id}
}

// memorySource scans a static collection the way an imprecise document store
// would: it sorts correctly but its cursor range condition only compares sort
// keys, letting through ties, the cursor item itself and every absent-sort-key
// document. Boundary correction is the engine's job.
type memorySource struct {
	items []testEvent
	err   error
}

func (s *memorySource) Scan(_ context.Context, cursor *Cursor, dir Direction, limit int) ([]testEvent, error) {
	if s.err != nil {
		return nil, s.err
	}

	sorted := make([]testEvent, len(s.items))
	copy(sorted, s.items)
	sort.Slice(sorted, func(i, j int) bool {
		return Compare(sorted[i].PageKey(), sorted[j].PageKey()) < 0
	})
	if dir == DirectionPrev {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}

	var out []testEvent
	for _, it := range sorted {
		if cursor != nil && !s.approxInRange(it, *cursor, dir) {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// approxInRange mimics a store that cannot filter precisely on a nullable
// range field.
func (s *memorySource) approxInRange(it testEvent, cursor Cursor, dir Direction) bool {
	if it.start == nil || cursor.SortKey == nil {
		return true
	}
	if dir == DirectionPrev {
		return *it.start <= *cursor.SortKey
	}
	return *it.start >= *cursor.SortKey
}

func threeEvents() *memorySource {
	return &memorySource{items: []testEvent{
		{id: "b", start: strptr("2025-01-01")},
		{id: "a", start: nil},
		{id: "c", start: strptr("2025-01-01")},
	}}
}

// TestPaginateFirstAndSecondPage walks the canonical three-event collection:
// (nil,"a") < ("2025-01-01","b") < ("2025-01-01","c") at page size 2.
func TestPaginateFirstAndSecondPage(t *testing.T) {
	src := threeEvents()
	ctx := context.Background()

	first, err := Paginate[testEvent](ctx, src, Request{PageSize: 2, Direction: DirectionNext})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	assertIDs(t, first.Items, "a", "b")
	if !first.HasNext || first.HasPrevious {
		t.Errorf("first page flags = (next=%v, prev=%v), want (true, false)", first.HasNext, first.HasPrevious)
	}
	if first.PrevCursor != "" {
		t.Errorf("first page PrevCursor = %q, want empty", first.PrevCursor)
	}

	boundary, ok := DecodeCursor(first.NextCursor)
	if !ok {
		t.Fatalf("first page NextCursor %q does not decode", first.NextCursor)
	}
	if boundary.TieBreakID != "b" || boundary.SortKey == nil || *boundary.SortKey != "2025-01-01" {
		t.Errorf("NextCursor = %+v, want (2025-01-01, b)", boundary)
	}

	second, err := Paginate[testEvent](ctx, src, Request{Cursor: first.NextCursor, PageSize: 2, Direction: DirectionNext})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	assertIDs(t, second.Items, "c")
	if second.HasNext || !second.HasPrevious {
		t.Errorf("second page flags = (next=%v, prev=%v), want (false, true)", second.HasNext, second.HasPrevious)
	}
}

// TestPaginateBackwardFromSecondPage follows a prev cursor and expects the
// mirror image of the forward traversal.
func TestPaginateBackwardFromSecondPage(t *testing.T) {
	src := threeEvents()
	ctx := context.Background()

	first, err := Paginate[testEvent](ctx, src, Request{PageSize: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := Paginate[testEvent](ctx, src, Request{Cursor: first.NextCursor, PageSize: 2})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}

	back, err := Paginate[testEvent](ctx, src, Request{Cursor: second.PrevCursor, PageSize: 2, Direction: DirectionPrev})
	if err != nil {
		t.Fatalf("backward page: %v", err)
	}
	assertIDs(t, back.Items, "a", "b")
	if !back.HasNext {
		t.Error("backward page HasNext = false, want true (cursor can resume forward)")
	}
	if back.HasPrevious {
		t.Error("backward page HasPrevious = true, want false")
	}
}

// TestPaginateSymmetry verifies concatenated forward pages equal the reverse
// walk over the same static collection, with no duplicates and no gaps.
func TestPaginateSymmetry(t *testing.T) {
	src := &memorySource{items: []testEvent{
		{id: "e5", start: strptr("2025-03-01")},
		{id: "e2", start: nil},
		{id: "e7", start: strptr("2025-01-01")},
		{id: "e1", start: strptr("2025-01-01")},
		{id: "e4", start: nil},
		{id: "e6", start: strptr("2025-02-10")},
		{id: "e3", start: strptr("2025-01-01")},
		{id: "e8", start: strptr("2024-11-11")},
	}}
	ctx := context.Background()
	const pageSize = 3

	var forward []string
	cursor := ""
	for {
		page, err := Paginate[testEvent](ctx, src, Request{Cursor: cursor, PageSize: pageSize})
		if err != nil {
			t.Fatalf("forward walk: %v", err)
		}
		for _, it := range page.Items {
			forward = append(forward, it.id)
		}
		if !page.HasNext {
			break
		}
		cursor = page.NextCursor
	}

	want := []string{"e2", "e4", "e8", "e1", "e3", "e7", "e6", "e5"}
	if fmt.Sprint(forward) != fmt.Sprint(want) {
		t.Fatalf("forward walk = %v, want %v", forward, want)
	}

	var backward []string
	cursor = ""
	dirReq := Request{PageSize: pageSize, Direction: DirectionPrev}
	for {
		dirReq.Cursor = cursor
		page, err := Paginate[testEvent](ctx, src, dirReq)
		if err != nil {
			t.Fatalf("backward walk: %v", err)
		}
		chunk := make([]string, 0, len(page.Items))
		for _, it := range page.Items {
			chunk = append(chunk, it.id)
		}
		backward = append(chunk, backward...)
		if !page.HasPrevious {
			break
		}
		cursor = page.PrevCursor
	}

	if fmt.Sprint(backward) != fmt.Sprint(want) {
		t.Fatalf("backward walk = %v, want %v", backward, want)
	}
}

// TestPaginateHasFlagBoundaries verifies has_next with exactly pageSize and
// pageSize+1 matching items.
func TestPaginateHasFlagBoundaries(t *testing.T) {
	exact := &memorySource{items: []testEvent{
		{id: "a", start: strptr("2025-01-01")},
		{id: "b", start: strptr("2025-01-02")},
	}}
	page, err := Paginate[testEvent](context.Background(), exact, Request{PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.HasNext || page.HasPrevious {
		t.Errorf("exact fit flags = (next=%v, prev=%v), want (false, false)", page.HasNext, page.HasPrevious)
	}

	overfull := &memorySource{items: append(exact.items, testEvent{id: "c", start: strptr("2025-01-03")})}
	page, err = Paginate[testEvent](context.Background(), overfull, Request{PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !page.HasNext {
		t.Error("pageSize+1 items: HasNext = false, want true")
	}
}

// TestPaginateEmptyCollection verifies the empty listing shape.
func TestPaginateEmptyCollection(t *testing.T) {
	page, err := Paginate[testEvent](context.Background(), &memorySource{}, Request{PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil slice", page.Items)
	}
	if page.HasNext || page.HasPrevious || page.NextCursor != "" || page.PrevCursor != "" {
		t.Errorf("empty page = %+v, want no flags and no cursors", page)
	}
}

// TestPaginateRejectsBadRequests verifies validation happens before any store
// access.
func TestPaginateRejectsBadRequests(t *testing.T) {
	src := &memorySource{err: errors.New("store must not be reached")}

	for _, size := range []int{0, -1, MaxPageSize + 1} {
		_, err := Paginate[testEvent](context.Background(), src, Request{PageSize: size})
		if !errors.Is(err, ErrInvalidPageSize) {
			t.Errorf("PageSize %d: err = %v, want ErrInvalidPageSize", size, err)
		}
	}

	_, err := Paginate[testEvent](context.Background(), src, Request{PageSize: 10, Direction: "sideways"})
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("direction sideways: err = %v, want ErrInvalidDirection", err)
	}
}

// TestPaginateMalformedCursor verifies a garbage token silently degrades to
// the first page.
func TestPaginateMalformedCursor(t *testing.T) {
	src := threeEvents()

	page, err := Paginate[testEvent](context.Background(), src, Request{Cursor: "!!garbage!!", PageSize: 2})
	if err != nil {
		t.Fatalf("malformed cursor: %v", err)
	}
	assertIDs(t, page.Items, "a", "b")
	if page.HasPrevious {
		t.Error("degraded first page HasPrevious = true, want false")
	}
}

// TestPaginateScanErrorPropagates verifies store failures surface unchanged
// for errors.Is classification.
func TestPaginateScanErrorPropagates(t *testing.T) {
	src := &memorySource{err: fmt.Errorf("find: %w", ErrStoreUnavailable)}

	_, err := Paginate[testEvent](context.Background(), src, Request{PageSize: 5})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}

func assertIDs(t *testing.T, items []testEvent, want ...string) {
	t.Helper()
	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.id
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
}
