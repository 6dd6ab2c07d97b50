package paging

// InBounds reports whether a key lies strictly beyond the cursor position in
// the given direction: strictly after for next, strictly before for prev.
func InBounds(k Key, cursor Cursor, dir Direction) bool {
	cmp := Compare(k, cursor.Key())
	if dir == DirectionPrev {
		return cmp < 0
	}
	return cmp > 0
}

// TrimToBounds re-derives exact cursor-boundary membership after a store
// scan, discarding candidates the store's approximate range condition let
// through: the cursor item itself, same-sort-key ties on the wrong side of
// the tie-break id, and absent-sort-key documents the store could not filter
// on. A nil cursor keeps every candidate. The filter is idempotent: a
// surviving set passed through again survives unchanged.
func TrimToBounds[T Keyer](items []T, cursor *Cursor, dir Direction) []T {
	if cursor == nil {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if InBounds(item.PageKey(), *cursor, dir) {
			kept = append(kept, item)
		}
	}
	return kept
}
