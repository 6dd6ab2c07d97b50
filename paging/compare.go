package paging

import "strings"

// Key is the composite ordering key of a paginated item: an optional
// orderable sort key (nil means absent) and a collection-unique tie-break id.
type Key struct {
	SortKey    *string
	TieBreakID string
}

// Keyer is implemented by items that can be positioned in a paginated
// listing.
type Keyer interface {
	PageKey() Key
}

// Compare orders two keys: sort key first with absent sorting lowest, then
// lexicographic tie-break id. Because tie-break ids are unique this is a
// strict total order, so for distinct keys exactly one of Compare(a, b) and
// Compare(b, a) is negative.
func Compare(a, b Key) int {
	switch {
	case a.SortKey == nil && b.SortKey != nil:
		return -1
	case a.SortKey != nil && b.SortKey == nil:
		return 1
	case a.SortKey != nil && b.SortKey != nil:
		if *a.SortKey < *b.SortKey {
			return -1
		}
		if *a.SortKey > *b.SortKey {
			return 1
		}
	}
	return strings.Compare(a.TieBreakID, b.TieBreakID)
}
