package sparqlexpr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quetzal-graph/quetzal/pkg/ids"
	"github.com/quetzal-graph/quetzal/pkg/vocab"
)

func TestAvgAggregator(t *testing.T) {
	ec := testContext(t)
	local := vocab.NewLocalVocab()

	var avg AvgAggregator
	avg.AddValue(NewIdValue(ids.IntID(1)), ec)
	avg.AddValue(NewIdValue(ids.IntID(2)), ec)
	avg.AddValue(NewIdValue(ids.DoubleID(3)), ec)
	require.Equal(t, ids.DoubleID(2), avg.Result(local))

	// A non-numeric value poisons the group.
	avg.AddValue(NewStringValue("oops"), ec)
	require.True(t, avg.Result(local).IsUndefined())
}

func TestCountAggregator(t *testing.T) {
	ec := testContext(t)

	var count CountAggregator
	count.AddValue(NewIdValue(ids.IntID(1)), ec)
	count.AddValue(NewStringValue(""), ec)
	count.AddValue(NewIdValue(ids.Undefined()), ec)
	require.Equal(t, ids.IntID(2), count.Result(nil))
}

func TestSumAggregator(t *testing.T) {
	ec := testContext(t)

	t.Run("stays integer without doubles", func(t *testing.T) {
		var sum SumAggregator
		sum.AddValue(NewIdValue(ids.IntID(2)), ec)
		sum.AddValue(NewIdValue(ids.IntID(40)), ec)
		require.Equal(t, ids.IntID(42), sum.Result(nil))
	})

	t.Run("switches to double", func(t *testing.T) {
		var sum SumAggregator
		sum.AddValue(NewIdValue(ids.IntID(2)), ec)
		sum.AddValue(NewIdValue(ids.DoubleID(0.5)), ec)
		require.Equal(t, ids.DoubleID(2.5), sum.Result(nil))
	})

	t.Run("non-numeric yields UNDEF", func(t *testing.T) {
		var sum SumAggregator
		sum.AddValue(NewStringValue("x"), ec)
		require.True(t, sum.Result(nil).IsUndefined())
	})
}

func TestExtremumAggregators(t *testing.T) {
	ec := testContext(t)
	local := vocab.NewLocalVocab()

	minAgg := NewMinAggregator()
	maxAgg := NewMaxAggregator()
	for _, v := range []IdOrString{
		NewIdValue(ids.IntID(4)),
		NewIdValue(ids.DoubleID(1.5)),
		NewIdValue(ids.IntID(9)),
	} {
		minAgg.AddValue(v, ec)
		maxAgg.AddValue(v, ec)
	}
	require.Equal(t, ids.DoubleID(1.5), minAgg.Result(local))
	require.Equal(t, ids.IntID(9), maxAgg.Result(local))

	t.Run("string extremum goes to the local vocab", func(t *testing.T) {
		agg := NewMaxAggregator()
		agg.AddValue(NewStringValue("apple"), ec)
		agg.AddValue(NewStringValue("pear"), ec)
		res := agg.Result(local)
		require.Equal(t, ids.DatatypeLocalVocabIndex, res.Datatype())
		s, ok := local.Word(uint64(res.LocalVocabIndex()))
		require.True(t, ok)
		require.Equal(t, "pear", s)
	})

	t.Run("empty group yields UNDEF", func(t *testing.T) {
		require.True(t, NewMinAggregator().Result(local).IsUndefined())
	})
}

func TestGroupConcatAggregator(t *testing.T) {
	ec := testContext(t)
	local := vocab.NewLocalVocab()

	agg := NewGroupConcatAggregator(", ")
	agg.AddValue(NewStringValue(`"a"`), ec)
	agg.AddValue(NewIdValue(ids.Undefined()), ec) // skipped, no string form
	agg.AddValue(NewIdValue(ids.IntID(2)), ec)

	res := agg.Result(local)
	require.Equal(t, ids.DatatypeLocalVocabIndex, res.Datatype())
	s, ok := local.Word(uint64(res.LocalVocabIndex()))
	require.True(t, ok)
	require.Equal(t, "a, 2", s)
}
