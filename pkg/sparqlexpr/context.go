package sparqlexpr

import (
	"github.com/quetzal-graph/quetzal/pkg/engine"
	"github.com/quetzal-graph/quetzal/pkg/vocab"
)

// An EvaluationContext is the view an expression evaluation has of one
// result table: a half-open row range, the mapping from variables to
// columns, and the grouping state of the surrounding GROUP BY, if any. The
// context borrows the table and must not outlive it.
//
// A context is owned by a single evaluation call; it is the expression
// nodes that are shared between goroutines, not the context.
type EvaluationContext struct {
	// Table is the input the expression is evaluated against.
	Table *engine.Result
	// BeginIndex and EndIndex delimit the rows [BeginIndex, EndIndex)
	// visible to this evaluation. During grouped aggregation each group gets
	// its own window.
	BeginIndex, EndIndex int

	// VarToCol maps variables to their column in Table.
	VarToCol map[Variable]int

	// GroupedVariables holds the variables whose column is constant within
	// the current row range due to an upstream GROUP BY.
	GroupedVariables map[Variable]struct{}

	// PreviousAliasResults holds, per variable, the value computed by an
	// earlier alias in the same SELECT clause, e.g. `(?x AS ?y)`.
	PreviousAliasResults map[Variable]ExpressionResult

	// Vocab resolves strings to interned Ids and back.
	Vocab vocab.Vocabulary
	// LocalVocab resolves Ids of strings materialized during this query.
	// May be nil when no such values exist.
	LocalVocab *vocab.LocalVocab

	// InsideAggregate is set while evaluating the operand of an aggregate
	// function. Grouped variables must then be read per row instead of
	// being folded to a constant.
	InsideAggregate bool
}

// NewEvaluationContext returns a context over the full row range of table.
func NewEvaluationContext(table *engine.Result, voc vocab.Vocabulary) *EvaluationContext {
	return &EvaluationContext{
		Table:                table,
		BeginIndex:           0,
		EndIndex:             table.Size(),
		VarToCol:             make(map[Variable]int),
		GroupedVariables:     make(map[Variable]struct{}),
		PreviousAliasResults: make(map[Variable]ExpressionResult),
		Vocab:                voc,
	}
}

// ColumnIndex returns the column of v in the input table.
func (ec *EvaluationContext) ColumnIndex(v Variable) (int, error) {
	col, ok := ec.VarToCol[v]
	if !ok {
		return 0, VariableNotBoundError{Variable: v}
	}
	return col, nil
}

// IsGrouped reports whether v is currently treated as a grouped column.
func (ec *EvaluationContext) IsGrouped(v Variable) bool {
	_, ok := ec.GroupedVariables[v]
	return ok
}

func (ec *EvaluationContext) previousAliasResult(v Variable) (ExpressionResult, bool) {
	res, ok := ec.PreviousAliasResults[v]
	return res, ok
}
