package sparqlexpr

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quetzal-graph/quetzal/pkg/engine"
	"github.com/quetzal-graph/quetzal/pkg/ids"
	"github.com/quetzal-graph/quetzal/pkg/vocab"
)

func TestEvaluateConstants(t *testing.T) {
	ec := testContext(t, "<known>")
	ctx := context.Background()

	t.Run("id constant", func(t *testing.T) {
		res, err := NewIdExpression(ids.IntID(5)).Evaluate(ctx, ec)
		require.NoError(t, err)
		require.Equal(t, IdResult{ID: ids.IntID(5)}, res)
	})

	t.Run("iri found in vocabulary", func(t *testing.T) {
		res, err := NewIriExpression("<known>").Evaluate(ctx, ec)
		require.NoError(t, err)
		want, _ := ec.Vocab.LookupID("<known>")
		require.Equal(t, NewIdValue(want), res)
	})

	t.Run("literal missing from vocabulary", func(t *testing.T) {
		res, err := NewLiteralExpression(Literal{Content: `"unknown"`}).Evaluate(ctx, ec)
		require.NoError(t, err)
		require.Equal(t, NewStringValue(`"unknown"`), res)
	})

	t.Run("id vector returns a fresh copy", func(t *testing.T) {
		vec := []ids.Id{ids.IntID(1), ids.IntID(2)}
		e := NewIdVectorExpression(vec)
		res, err := e.Evaluate(ctx, ec)
		require.NoError(t, err)
		got := res.(IdVector)
		require.Equal(t, IdVector(vec), got)
		got[0] = ids.IntID(99)
		res2, err := e.Evaluate(ctx, ec)
		require.NoError(t, err)
		require.Equal(t, IdVector(vec), res2.(IdVector))
	})
}

func TestEvaluateCancellation(t *testing.T) {
	ec := testContext(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIriExpression("<x>").Evaluate(ctx, ec)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentStringConstantEvaluation(t *testing.T) {
	ec := testContext(t, `"cached"`)
	e := NewLiteralExpression(Literal{Content: `"cached"`})

	sequential, err := e.Evaluate(context.Background(), ec)
	require.NoError(t, err)

	const goroutines = 16
	results := make([]ExpressionResult, goroutines)
	errs := make([]error, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				res, err := e.Evaluate(context.Background(), ec)
				if err != nil {
					errs[g] = err
					return
				}
				results[g] = res
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < goroutines; g++ {
		require.NoError(t, errs[g])
		require.Equal(t, sequential, results[g])
	}
}

func TestVariableResolution(t *testing.T) {
	// Two columns: ?a (col 0) and ?b (col 1).
	table := engine.NewFixedWidth(2)
	table.AppendRow(ids.IntID(1), ids.IntID(7))
	table.AppendRow(ids.IntID(2), ids.IntID(7))
	table.AppendRow(ids.IntID(3), ids.IntID(7))
	table.AppendRow(ids.IntID(4), ids.IntID(7))
	table.Finish()

	newCtx := func() *EvaluationContext {
		ec := NewEvaluationContext(table, vocab.NewMapVocabulary(nil))
		ec.VarToCol[NewVariable("?a")] = 0
		ec.VarToCol[NewVariable("?b")] = 1
		return ec
	}
	ctx := context.Background()

	t.Run("unbound alias returns the variable itself", func(t *testing.T) {
		res, err := NewVariableExpression(NewVariable("?a")).Evaluate(ctx, newCtx())
		require.NoError(t, err)
		require.Equal(t, NewVariable("?a"), res)
	})

	t.Run("alias chain folds to the literal", func(t *testing.T) {
		// (5 AS ?x), (?x AS ?y): resolving ?y must follow the chain to 5.
		ec := newCtx()
		ec.PreviousAliasResults[NewVariable("?x")] = IdResult{ID: ids.IntID(5)}
		ec.PreviousAliasResults[NewVariable("?y")] = NewVariable("?x")

		res, err := NewVariableExpression(NewVariable("?y")).Evaluate(ctx, ec)
		require.NoError(t, err)
		require.Equal(t, IdResult{ID: ids.IntID(5)}, res)
	})

	t.Run("grouped variable folds to a constant", func(t *testing.T) {
		ec := newCtx()
		ec.GroupedVariables[NewVariable("?b")] = struct{}{}

		res, err := NewVariableExpression(NewVariable("?b")).Evaluate(ctx, ec)
		require.NoError(t, err)
		require.Equal(t, IdResult{ID: ids.IntID(7)}, res)
	})

	t.Run("grouped variable inside aggregate stays per-row", func(t *testing.T) {
		ec := newCtx()
		ec.GroupedVariables[NewVariable("?b")] = struct{}{}
		ec.InsideAggregate = true

		res, err := NewVariableExpression(NewVariable("?b")).Evaluate(ctx, ec)
		require.NoError(t, err)
		require.Equal(t, NewVariable("?b"), res)
	})

	t.Run("grouped variable that is not constant panics", func(t *testing.T) {
		broken := engine.NewFixedWidth(2)
		broken.AppendRow(ids.IntID(1), ids.IntID(7))
		broken.AppendRow(ids.IntID(2), ids.IntID(7))
		broken.AppendRow(ids.IntID(3), ids.IntID(8))
		broken.AppendRow(ids.IntID(4), ids.IntID(7))
		broken.Finish()

		ec := NewEvaluationContext(broken, vocab.NewMapVocabulary(nil))
		ec.VarToCol[NewVariable("?b")] = 1
		ec.GroupedVariables[NewVariable("?b")] = struct{}{}

		require.Panics(t, func() {
			_, _ = NewVariableExpression(NewVariable("?b")).Evaluate(ctx, ec)
		})
	})

	t.Run("grouped variable missing from the column map", func(t *testing.T) {
		ec := newCtx()
		ec.GroupedVariables[NewVariable("?c")] = struct{}{}

		_, err := NewVariableExpression(NewVariable("?c")).Evaluate(ctx, ec)
		require.ErrorIs(t, err, ErrVariableNotBound)
	})
}

func TestCacheKey(t *testing.T) {
	varColMap := map[Variable]int{NewVariable("?a"): 2}

	key, err := NewVariableExpression(NewVariable("?a")).CacheKey(varColMap)
	require.NoError(t, err)
	require.Equal(t, "#column_2#", key)

	_, err = NewVariableExpression(NewVariable("?missing")).CacheKey(varColMap)
	require.ErrorIs(t, err, ErrVariableNotBound)

	key, err = NewIriExpression("<iri>").CacheKey(varColMap)
	require.NoError(t, err)
	require.Equal(t, "<iri>", key)

	key, err = NewLiteralExpression(Literal{Content: `"lit"`}).CacheKey(varColMap)
	require.NoError(t, err)
	require.Equal(t, `#literal: "lit"`, key)

	key, err = NewIdExpression(ids.IntID(1)).CacheKey(varColMap)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	_, err = NewIdVectorExpression([]ids.Id{ids.IntID(1)}).CacheKey(varColMap)
	require.ErrorIs(t, err, ErrNotCacheable)
}

func TestExpressionIntrospection(t *testing.T) {
	v := NewVariableExpression(NewVariable("?a"))
	require.False(t, v.IsConstant())
	require.Equal(t, []Variable{NewVariable("?a")}, v.ContainedVariables())
	require.Equal(t, []Variable{NewVariable("?a")}, v.UnaggregatedVariables())
	require.Empty(t, v.Children())

	c := NewIdExpression(ids.IntID(1))
	require.True(t, c.IsConstant())
	require.Empty(t, c.ContainedVariables())
	require.True(t, NewIriExpression("<i>").IsConstant())
	require.True(t, NewIdVectorExpression(nil).IsConstant())
}
