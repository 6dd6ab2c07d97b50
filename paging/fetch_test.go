package paging

import "testing"

// TestScanLimit verifies the over-fetch margins: one extra candidate without
// a cursor, a capped multiple with one, and never less than pageSize+1.
func TestScanLimit(t *testing.T) {
	cases := []struct {
		pageSize  int
		hasCursor bool
		want      int
	}{
		{pageSize: 10, hasCursor: false, want: 11},
		{pageSize: 1, hasCursor: false, want: 2},
		{pageSize: 10, hasCursor: true, want: 30},
		{pageSize: 1, hasCursor: true, want: 3},
		{pageSize: 40, hasCursor: true, want: 100},
		{pageSize: 100, hasCursor: true, want: 101},
	}

	for _, tc := range cases {
		if got := ScanLimit(tc.pageSize, tc.hasCursor); got != tc.want {
			t.Errorf("ScanLimit(%d, %v) = %d, want %d", tc.pageSize, tc.hasCursor, got, tc.want)
		}
	}
}
