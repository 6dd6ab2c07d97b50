package paging

// PredicateKind tags the supported filter predicate variants. Store adapters
// switch exhaustively on the kind instead of inspecting loosely-typed filter
// maps.
type PredicateKind int

const (
	// KindEquals matches documents whose field equals the value.
	KindEquals PredicateKind = iota
	// KindArrayContains matches documents whose array field contains the value.
	KindArrayContains
	// KindRangeGTE matches documents whose field is >= the value.
	KindRangeGTE
	// KindRangeLTE matches documents whose field is <= the value.
	KindRangeLTE
)

// Predicate is one store-level filter condition of a paginated listing.
type Predicate struct {
	Field string
	Kind  PredicateKind
	Value any
}

// Equals builds an equality predicate.
func Equals(field string, value any) Predicate {
	return Predicate{Field: field, Kind: KindEquals, Value: value}
}

// ArrayContains builds an array-membership predicate.
func ArrayContains(field string, value any) Predicate {
	return Predicate{Field: field, Kind: KindArrayContains, Value: value}
}

// GTE builds a lower-bound range predicate.
func GTE(field string, value any) Predicate {
	return Predicate{Field: field, Kind: KindRangeGTE, Value: value}
}

// LTE builds an upper-bound range predicate.
func LTE(field string, value any) Predicate {
	return Predicate{Field: field, Kind: KindRangeLTE, Value: value}
}
