// Package index exposes read-side views over one permutation of the triple
// index.
package index

import (
	"context"
	"iter"
	"sort"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

// A Triple is one (subject, predicate, object) entry in the order of the
// permutation it was read from.
type Triple [3]ids.Id

// Permutation is the read contract of one sort order of the index. The
// first column is the relation; scanning a relation yields the two
// remaining columns.
type Permutation interface {
	// Relations returns the distinct first-column Ids in ascending order.
	Relations() []ids.Id
	// Scan reads the rows of one relation.
	Scan(ctx context.Context, relation ids.Id) ([][2]ids.Id, error)
}

// IgnoredRange excludes the relations r with Begin <= r < End from a scan.
// Excluding whole ranges up front is cheaper than a per-triple filter
// because ignored relations are never read at all.
type IgnoredRange struct {
	Begin, End ids.Id
}

// TriplesView yields every triple of the permutation whose relation falls
// outside the ignored ranges and for which isIgnored (if non-nil) returns
// false. Iteration stops early with a non-nil error when ctx is cancelled
// or a scan fails. Overlapping ignored ranges are unsupported.
func TriplesView(ctx context.Context, p Permutation, ignored []IgnoredRange, isIgnored func(Triple) bool) iter.Seq2[Triple, error] {
	ranges := append([]IgnoredRange(nil), ignored...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Begin.Less(ranges[j].Begin) })

	skip := func(relation ids.Id) bool {
		for _, r := range ranges {
			if !relation.Less(r.Begin) && relation.Less(r.End) {
				return true
			}
		}
		return false
	}

	return func(yield func(Triple, error) bool) {
		for _, relation := range p.Relations() {
			if skip(relation) {
				continue
			}
			rows, err := p.Scan(ctx, relation)
			if err != nil {
				yield(Triple{}, err)
				return
			}
			for _, row := range rows {
				triple := Triple{relation, row[0], row[1]}
				if isIgnored != nil && isIgnored(triple) {
					continue
				}
				if !yield(triple, nil) {
					return
				}
			}
			if err := ctx.Err(); err != nil {
				yield(Triple{}, err)
				return
			}
		}
	}
}
