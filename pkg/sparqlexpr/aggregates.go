package sparqlexpr

import (
	"strings"

	"github.com/quetzal-graph/quetzal/pkg/ids"
	"github.com/quetzal-graph/quetzal/pkg/vocab"
)

// Per-group aggregation state for the hash-based GROUP BY path. Each
// aggregator consumes values through the value getters and renders its
// result as a tagged value; string results are interned into the query's
// local vocabulary.

// AvgAggregator computes the arithmetic mean of numeric values. A single
// non-numeric input poisons the group, which then yields UNDEF.
type AvgAggregator struct {
	err   bool
	sum   float64
	count int64
}

// AddValue folds one value into the aggregate.
func (a *AvgAggregator) AddValue(v IdOrString, ec *EvaluationContext) {
	n := GetNumeric(v, ec)
	if n.Kind == NumericKindNotNumeric {
		a.err = true
	} else {
		a.sum += n.Float()
	}
	a.count++
}

// Result renders the aggregate as a tagged value.
func (a *AvgAggregator) Result(_ *vocab.LocalVocab) ids.Id {
	if a.err || a.count == 0 {
		return ids.Undefined()
	}
	return ids.DoubleID(a.sum / float64(a.count))
}

// CountAggregator counts the values that are not UNDEF.
type CountAggregator struct {
	count int64
}

// AddValue folds one value into the aggregate.
func (c *CountAggregator) AddValue(v IdOrString, ec *EvaluationContext) {
	if GetIsValid(v, ec) {
		c.count++
	}
}

// Result renders the aggregate as a tagged value.
func (c *CountAggregator) Result(_ *vocab.LocalVocab) ids.Id {
	return ids.IntID(c.count)
}

// SumAggregator sums numeric values. The sum stays an exact integer until
// the first double is seen; a non-numeric input yields UNDEF.
type SumAggregator struct {
	err       bool
	floatSeen bool
	sum       float64
	intSum    int64
}

// AddValue folds one value into the aggregate.
func (s *SumAggregator) AddValue(v IdOrString, ec *EvaluationContext) {
	switch n := GetNumeric(v, ec); n.Kind {
	case NumericKindInt:
		s.sum += float64(n.I)
		s.intSum += n.I
	case NumericKindFloat:
		s.sum += n.F
		s.floatSeen = true
	default:
		s.err = true
	}
}

// Result renders the aggregate as a tagged value.
func (s *SumAggregator) Result(_ *vocab.LocalVocab) ids.Id {
	switch {
	case s.err:
		return ids.Undefined()
	case s.floatSeen:
		return ids.DoubleID(s.sum)
	default:
		return ids.IntID(s.intSum)
	}
}

// ExtremumAggregator tracks the minimum or maximum of the seen values.
type ExtremumAggregator struct {
	max     bool
	current IdOrString
	set     bool
}

// NewMinAggregator returns an aggregator for MIN.
func NewMinAggregator() *ExtremumAggregator { return &ExtremumAggregator{} }

// NewMaxAggregator returns an aggregator for MAX.
func NewMaxAggregator() *ExtremumAggregator { return &ExtremumAggregator{max: true} }

// AddValue folds one value into the aggregate.
func (e *ExtremumAggregator) AddValue(v IdOrString, ec *EvaluationContext) {
	if !e.set {
		e.current = v
		e.set = true
		return
	}
	less := lessIdOrString(v, e.current, ec)
	if e.max {
		less = lessIdOrString(e.current, v, ec)
	}
	if less {
		e.current = v
	}
}

// Result renders the aggregate as a tagged value.
func (e *ExtremumAggregator) Result(local *vocab.LocalVocab) ids.Id {
	if !e.set {
		return ids.Undefined()
	}
	if e.current.IsID() {
		return e.current.AsID()
	}
	return ids.FromLocalVocabIndex(ids.LocalVocabIndex(
		local.GetIndexAndAddIfNotContained(e.current.AsString())))
}

// lessIdOrString orders two values: numerically when both are numeric,
// lexicographically when both have string forms, and by datatype rank for
// incompatible types.
func lessIdOrString(a, b IdOrString, ec *EvaluationContext) bool {
	na, nb := GetNumeric(a, ec), GetNumeric(b, ec)
	aNum, bNum := na.Kind != NumericKindNotNumeric, nb.Kind != NumericKindNotNumeric
	if aNum && bNum {
		return na.Float() < nb.Float()
	}
	if aNum != bNum {
		// Numbers order before everything else.
		return aNum
	}
	sa, oka := GetString(a, ec)
	sb, okb := GetString(b, ec)
	if oka && okb {
		return strings.Compare(sa, sb) < 0
	}
	if oka != okb {
		return oka
	}
	return a.IsID() && b.IsID() && a.AsID().Less(b.AsID())
}

// GroupConcatAggregator concatenates the string forms of the seen values
// with a separator; values without a string form are skipped.
type GroupConcatAggregator struct {
	sb        strings.Builder
	separator string
}

// NewGroupConcatAggregator returns an aggregator joining values with the
// given separator.
func NewGroupConcatAggregator(separator string) *GroupConcatAggregator {
	return &GroupConcatAggregator{separator: separator}
}

// AddValue folds one value into the aggregate.
func (g *GroupConcatAggregator) AddValue(v IdOrString, ec *EvaluationContext) {
	s, ok := GetString(v, ec)
	if !ok {
		return
	}
	if g.sb.Len() > 0 {
		g.sb.WriteString(g.separator)
	}
	g.sb.WriteString(s)
}

// Result renders the aggregate as a tagged value referencing the local
// vocabulary.
func (g *GroupConcatAggregator) Result(local *vocab.LocalVocab) ids.Id {
	return ids.FromLocalVocabIndex(ids.LocalVocabIndex(
		local.GetIndexAndAddIfNotContained(g.sb.String())))
}
