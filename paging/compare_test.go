package paging

import "testing"

// TestCompareNullSortsLowest verifies items without a sort key order before
// every item that has one.
func TestCompareNullSortsLowest(t *testing.T) {
	absent := Key{TieBreakID: "z"}
	present := Key{SortKey: strptr("0000-01-01T00:00:00Z"), TieBreakID: "a"}

	if got := Compare(absent, present); got >= 0 {
		t.Errorf("Compare(absent, present) = %d, want < 0", got)
	}
	if got := Compare(present, absent); got <= 0 {
		t.Errorf("Compare(present, absent) = %d, want > 0", got)
	}
}

// TestCompareTieBreak verifies equal (including both-absent) sort keys fall
// back to lexicographic tie-break ids.
func TestCompareTieBreak(t *testing.T) {
	k := strptr("2025-01-01T10:00:00Z")

	if got := Compare(Key{k, "b"}, Key{k, "c"}); got >= 0 {
		t.Errorf("Compare(b, c) = %d, want < 0", got)
	}
	if got := Compare(Key{nil, "a"}, Key{nil, "b"}); got >= 0 {
		t.Errorf("Compare(nil-a, nil-b) = %d, want < 0", got)
	}
	if got := Compare(Key{k, "b"}, Key{k, "b"}); got != 0 {
		t.Errorf("Compare(b, b) = %d, want 0", got)
	}
}

// TestCompareTotalOrder verifies antisymmetry and consistency over a sample
// with absent and repeated sort keys.
func TestCompareTotalOrder(t *testing.T) {
	keys := []Key{
		{nil, "a"},
		{nil, "b"},
		{strptr("2024-12-31T23:59:59Z"), "m"},
		{strptr("2025-01-01T00:00:00Z"), "b"},
		{strptr("2025-01-01T00:00:00Z"), "c"},
		{strptr("2025-06-01T18:00:00Z"), "a"},
	}

	// keys is listed in ascending order; every pair must agree.
	for i := range keys {
		for j := range keys {
			got := Compare(keys[i], keys[j])
			switch {
			case i < j && got >= 0:
				t.Errorf("Compare(keys[%d], keys[%d]) = %d, want < 0", i, j, got)
			case i > j && got <= 0:
				t.Errorf("Compare(keys[%d], keys[%d]) = %d, want > 0", i, j, got)
			case i == j && got != 0:
				t.Errorf("Compare(keys[%d], keys[%d]) = %d, want 0", i, j, got)
			}
			if rev := Compare(keys[j], keys[i]); (got < 0) != (rev > 0) || (got == 0) != (rev == 0) {
				t.Errorf("Compare not antisymmetric for keys[%d], keys[%d]: %d vs %d", i, j, got, rev)
			}
		}
	}
}
