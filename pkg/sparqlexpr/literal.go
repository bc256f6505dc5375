package sparqlexpr

import (
	"context"
	"fmt"

	"go.uber.org/atomic"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

// A Literal is the raw textual content of a parsed literal constant, e.g.
// `"Douglas Adams"@en`.
type Literal struct {
	Content string
}

type literalKind int

const (
	litVariable literalKind = iota
	litIri
	litLiteral
	litID
	litIDVector
)

// A LiteralExpression is a leaf of the expression tree: a variable, a
// string/IRI constant, a parsed literal constant, a single Id constant, or
// a pre-materialized vector of Ids. The node is immutable after
// construction except for the result cache, which makes concurrent
// Evaluate calls on a shared node safe.
type LiteralExpression struct {
	kind     literalKind
	variable Variable
	str      string
	literal  Literal
	id       ids.Id
	vector   []ids.Id

	// cached holds the resolved IdOrString of a string or literal constant.
	// The vocabulary lookup is the expensive part worth caching; variables
	// and Id constants never populate it. The pointer is swapped in
	// lock-free: concurrent evaluations may race to compute the value, the
	// computation is idempotent, and readers only ever observe nil or a
	// fully constructed value.
	cached atomic.Pointer[IdOrString]
}

// NewVariableExpression returns the leaf for a variable reference.
func NewVariableExpression(v Variable) *LiteralExpression {
	return &LiteralExpression{kind: litVariable, variable: v}
}

// NewIriExpression returns the leaf for a string/IRI constant.
func NewIriExpression(s string) *LiteralExpression {
	return &LiteralExpression{kind: litIri, str: s}
}

// NewLiteralExpression returns the leaf for a parsed literal constant.
func NewLiteralExpression(lit Literal) *LiteralExpression {
	return &LiteralExpression{kind: litLiteral, literal: lit}
}

// NewIdExpression returns the leaf for a bare tagged-value constant.
func NewIdExpression(id ids.Id) *LiteralExpression {
	return &LiteralExpression{kind: litID, id: id}
}

// NewIdVectorExpression returns the leaf for a pre-materialized column of
// Ids. Nodes of this shape exist only for the hash-based grouping
// optimization and are used exactly once; they are never cacheable.
func NewIdVectorExpression(vec []ids.Id) *LiteralExpression {
	return &LiteralExpression{kind: litIDVector, vector: vec}
}

// Evaluate implements Expression.
func (e *LiteralExpression) Evaluate(ctx context.Context, ec *EvaluationContext) (ExpressionResult, error) {
	switch e.kind {
	case litVariable:
		return e.evaluateVariable(ec, e.variable)
	case litIri:
		return e.resolveString(ctx, ec, e.str)
	case litLiteral:
		return e.resolveString(ctx, ec, e.literal.Content)
	case litID:
		return IdResult{ID: e.id}, nil
	case litIDVector:
		// Hand out a fresh copy; the caller may take ownership.
		return IdVector(append([]ids.Id(nil), e.vector...)), nil
	default:
		panic(fmt.Sprintf("sparqlexpr: literal expression with unknown kind %d", e.kind))
	}
}

// resolveString resolves a string or literal constant against the
// vocabulary, consulting and filling the single-slot cache. Losing an
// install race is fine: every computation yields the same value, and the
// displaced occupant is reclaimed by the runtime.
func (e *LiteralExpression) resolveString(ctx context.Context, ec *EvaluationContext, s string) (ExpressionResult, error) {
	if cached := e.cached.Load(); cached != nil {
		return *cached, nil
	}
	var result IdOrString
	if id, ok := ec.Vocab.LookupID(s); ok {
		result = NewIdValue(id)
	} else {
		result = NewStringValue(s)
	}
	install := result
	e.cached.Swap(&install)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateVariable resolves a variable, following chains of SELECT-clause
// renamings and folding grouped columns to constants. The variable is an
// explicit parameter because the alias chain is walked recursively.
func (e *LiteralExpression) evaluateVariable(ec *EvaluationContext, variable Variable) (ExpressionResult, error) {
	// A variable that is not visible in the input but was bound by an
	// earlier alias in the same SELECT clause resolves to that earlier
	// value. A plain renaming `(?x AS ?y)` may itself point at another
	// renaming, so recurse; the chains are acyclic by construction upstream.
	if prev, ok := ec.previousAliasResult(variable); ok && !ec.IsGrouped(variable) {
		if inner, isVariable := prev.(Variable); isVariable {
			return e.evaluateVariable(ec, inner)
		}
		return prev, nil
	}
	// A grouped variable has the same value in every row of the current
	// range and can be read once as a constant. Not inside an aggregate
	// though: SUM(?v) still needs the full distribution.
	if ec.IsGrouped(variable) && !ec.InsideAggregate {
		col, err := ec.ColumnIndex(variable)
		if err != nil {
			return nil, err
		}
		constant := ec.Table.At(ec.BeginIndex, col)
		for i := ec.BeginIndex + 1; i < ec.EndIndex; i++ {
			if ec.Table.At(i, col) != constant {
				panic(fmt.Sprintf(
					"sparqlexpr: grouped variable %s is not constant over rows [%d, %d): upstream grouping is broken",
					variable, ec.BeginIndex, ec.EndIndex))
			}
		}
		return IdResult{ID: constant}, nil
	}
	// Unresolved: the caller performs the generic per-row lookup.
	return variable, nil
}

// CacheKey implements Expression.
func (e *LiteralExpression) CacheKey(varColMap map[Variable]int) (string, error) {
	switch e.kind {
	case litVariable:
		col, ok := varColMap[e.variable]
		if !ok {
			return "", VariableNotBoundError{Variable: e.variable}
		}
		return fmt.Sprintf("#column_%d#", col), nil
	case litIri:
		return e.str, nil
	case litLiteral:
		return "#literal: " + e.literal.Content, nil
	case litID:
		return fmt.Sprintf("#valueId %d#", e.id.Bits()), nil
	case litIDVector:
		return "", NotCacheableError{Reason: "materialized vectors are used exactly once"}
	default:
		panic(fmt.Sprintf("sparqlexpr: literal expression with unknown kind %d", e.kind))
	}
}

// IsConstant implements Expression.
func (e *LiteralExpression) IsConstant() bool { return e.kind != litVariable }

// ContainedVariables implements Expression.
func (e *LiteralExpression) ContainedVariables() []Variable {
	if e.kind == litVariable {
		return []Variable{e.variable}
	}
	return nil
}

// UnaggregatedVariables implements Expression.
func (e *LiteralExpression) UnaggregatedVariables() []Variable {
	return e.ContainedVariables()
}

// Children implements Expression. Leaves have none.
func (e *LiteralExpression) Children() []Expression { return nil }

// Variable returns the variable held by a variable node.
func (e *LiteralExpression) Variable() (Variable, bool) {
	if e.kind == litVariable {
		return e.variable, true
	}
	return Variable{}, false
}
