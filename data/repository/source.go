package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/gatherly/paging"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pageSource adapts one (collection, filter set, sort order) to the paging
// engine's scan interface. Every paginated listing in the repository layer
// goes through this single adapter instead of re-deriving direction and
// has-more logic per entity.
type pageSource[T paging.Keyer] struct {
	coll      *mongo.Collection
	filters   []paging.Predicate
	sortField string
	breaker   *gobreaker.CircuitBreaker
}

// Scan runs one bounded, sorted, filtered range scan. Fetch order follows the
// engine contract: ascending for next, descending for prev. The cursor range
// hint is pushed to the store best-effort only; exact boundary enforcement is
// the engine's job.
func (s *pageSource[T]) Scan(ctx context.Context, cursor *paging.Cursor, dir paging.Direction, limit int) ([]T, error) {
	order := 1
	if dir == paging.DirectionPrev {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: s.sortField, Value: order}, {Key: "_id", Value: order}}).
		SetLimit(int64(limit))

	filter := scanFilter(s.filters, cursor, dir, s.sortField)

	run := func() (any, error) {
		cur, err := s.coll.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		var out []T
		if err := cur.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var result any
	var err error
	if s.breaker != nil {
		result, err = s.breaker.Execute(run)
	} else {
		result, err = run()
	}
	if err != nil {
		return nil, classifyScanError(err)
	}
	return result.([]T), nil
}

// scanFilter translates the predicate union plus the best-effort cursor range
// hint into a single store filter document.
func scanFilter(preds []paging.Predicate, cursor *paging.Cursor, dir paging.Direction, sortField string) bson.M {
	conds := make([]bson.M, 0, len(preds)+1)
	for _, p := range preds {
		switch p.Kind {
		case paging.KindEquals:
			conds = append(conds, bson.M{p.Field: p.Value})
		case paging.KindArrayContains:
			// element equality against an array field is membership
			conds = append(conds, bson.M{p.Field: p.Value})
		case paging.KindRangeGTE:
			conds = append(conds, bson.M{p.Field: bson.M{"$gte": p.Value}})
		case paging.KindRangeLTE:
			conds = append(conds, bson.M{p.Field: bson.M{"$lte": p.Value}})
		}
	}

	if hint := rangeHint(cursor, dir, sortField); hint != nil {
		conds = append(conds, hint)
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		return bson.M{"$and": conds}
	}
}

// rangeHint expresses as much of "strictly after/before the cursor" as a
// single range condition can. The store cannot compare the (sortKey,
// tieBreakID) pair on a nullable field, so the hint over-matches: it keeps
// the cursor row, same-key ties and, where null sorts inside the wanted
// range, absent-key documents. TrimToBounds discards the excess.
func rangeHint(cursor *paging.Cursor, dir paging.Direction, sortField string) bson.M {
	if cursor == nil || cursor.SortKey == nil {
		// A cursor at an absent sort key bounds nothing the store can
		// filter on; the over-fetch margin compensates.
		return nil
	}
	if dir == paging.DirectionPrev {
		// Null sorts lowest, so absent keys lie before any non-null cursor.
		return bson.M{"$or": bson.A{
			bson.M{sortField: bson.M{"$lte": *cursor.SortKey}},
			bson.M{sortField: nil},
		}}
	}
	return bson.M{sortField: bson.M{"$gte": *cursor.SortKey}}
}

// classifyScanError folds store failures into the engine's two scan error
// classes: not-executable versus transient.
func classifyScanError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", paging.ErrStoreUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %v", paging.ErrStoreUnavailable, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 2, 291: // BadValue, NoQueryExecutionPlans
			return fmt.Errorf("%w: %v", paging.ErrUnsupportedQuery, err)
		}
	}
	return fmt.Errorf("%w: %v", paging.ErrStoreUnavailable, err)
}

// newScanBreaker builds the circuit breaker guarding page scans against a
// dying store.
func newScanBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 100,
		Interval:    5 * time.Second,
		Timeout:     3 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})
}
