package paging

import "testing"

type boundaryItem struct {
	id    string
	start *string
}

func (it boundaryItem) PageKey() Key {
	return Key{SortKey: it.start, TieBreakID: it.id}
}

func boundaryFixture() []boundaryItem {
	return []boundaryItem{
		{id: "a", start: nil},
		{id: "b", start: strptr("2025-01-01T10:00:00Z")},
		{id: "c", start: strptr("2025-01-01T10:00:00Z")},
		{id: "d", start: strptr("2025-02-01T10:00:00Z")},
	}
}

// TestTrimToBoundsStrict verifies only items strictly beyond the cursor
// survive, in both directions.
func TestTrimToBoundsStrict(t *testing.T) {
	items := boundaryFixture()
	cursor := &Cursor{SortKey: strptr("2025-01-01T10:00:00Z"), TieBreakID: "b"}

	next := TrimToBounds(items, cursor, DirectionNext)
	if len(next) != 2 || next[0].id != "c" || next[1].id != "d" {
		t.Fatalf("next bounds = %v, want [c d]", ids(next))
	}

	prev := TrimToBounds(items, cursor, DirectionPrev)
	if len(prev) != 1 || prev[0].id != "a" {
		t.Fatalf("prev bounds = %v, want [a]", ids(prev))
	}
}

// TestTrimToBoundsNilCursor verifies candidates pass through untouched when
// no cursor was supplied.
func TestTrimToBoundsNilCursor(t *testing.T) {
	items := boundaryFixture()
	got := TrimToBounds(items, nil, DirectionNext)
	if len(got) != len(items) {
		t.Fatalf("got %d items, want %d", len(got), len(items))
	}
}

// TestTrimToBoundsIdempotent verifies filtering twice equals filtering once.
func TestTrimToBoundsIdempotent(t *testing.T) {
	items := boundaryFixture()
	cursor := &Cursor{SortKey: strptr("2025-01-01T10:00:00Z"), TieBreakID: "c"}

	for _, dir := range []Direction{DirectionNext, DirectionPrev} {
		once := TrimToBounds(items, cursor, dir)
		twice := TrimToBounds(once, cursor, dir)
		if len(once) != len(twice) {
			t.Fatalf("dir %s: twice = %v, want %v", dir, ids(twice), ids(once))
		}
		for i := range once {
			if once[i].id != twice[i].id {
				t.Fatalf("dir %s: twice = %v, want %v", dir, ids(twice), ids(once))
			}
		}
	}
}

func ids(items []boundaryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}
