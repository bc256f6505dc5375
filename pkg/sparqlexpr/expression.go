// Package sparqlexpr implements the leaves of the expression-evaluation
// machinery of the query engine: the evaluation context that views a row
// range of a result table, the value getters that convert between the
// tagged value representation and the semantic domains expressions operate
// on, and the literal expression together with its lock-free result cache.
package sparqlexpr

import (
	"context"
	"fmt"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

// A Variable is a named reference into the columns of the evaluation input,
// e.g. `?x`.
type Variable struct {
	Name string
}

// NewVariable constructs a variable from its query notation.
func NewVariable(name string) Variable { return Variable{Name: name} }

func (v Variable) String() string { return v.Name }

// ExpressionResult is the value produced by evaluating an expression node.
// It is a closed sum over the following variants:
//
//   - [IdResult]: a single tagged value
//   - [IdOrString]: a tagged value or a string materialized outside the
//     vocabulary
//   - [Variable]: an unresolved variable reference; the caller performs the
//     generic per-row lookup against the table
//   - [IdVector]: an entire column of tagged values
type ExpressionResult interface {
	isExpressionResult()
}

// IdResult is the scalar tagged-value variant of [ExpressionResult].
type IdResult struct {
	ID ids.Id
}

// IdVector is a whole column of tagged values.
type IdVector []ids.Id

func (IdResult) isExpressionResult()   {}
func (IdOrString) isExpressionResult() {}
func (Variable) isExpressionResult()   {}
func (IdVector) isExpressionResult()   {}

// IdOrString holds either a tagged value or an owned string, for values
// that were materialized outside the vocabulary (e.g. computed string
// results). The zero value holds the undefined Id.
type IdOrString struct {
	id   ids.Id
	str  string
	isID bool
}

// NewIdValue wraps a tagged value.
func NewIdValue(id ids.Id) IdOrString { return IdOrString{id: id, isID: true} }

// NewStringValue wraps an owned string.
func NewStringValue(s string) IdOrString { return IdOrString{str: s} }

// IsID reports whether the value is a tagged value rather than a string.
func (v IdOrString) IsID() bool { return v.isID }

// AsID returns the tagged value. Only valid when IsID is true.
func (v IdOrString) AsID() ids.Id { return v.id }

// AsString returns the owned string. Only valid when IsID is false.
func (v IdOrString) AsString() string { return v.str }

func (v IdOrString) String() string {
	if v.isID {
		return v.id.String()
	}
	return fmt.Sprintf("%q", v.str)
}

// Expression is one node of an expression tree. Implementations must be
// safe for concurrent Evaluate calls on the same node, since a built tree
// is shared across rows and worker goroutines.
type Expression interface {
	// Evaluate resolves the node against the evaluation context. The
	// context.Context carries cancellation and is checked at safe points.
	Evaluate(ctx context.Context, ec *EvaluationContext) (ExpressionResult, error)

	// CacheKey returns a token that distinguishes the node for memoization
	// of whole subtrees. It fails with ErrVariableNotBound if a variable is
	// missing from varColMap and with ErrNotCacheable for single-use nodes.
	CacheKey(varColMap map[Variable]int) (string, error)

	// IsConstant reports whether the node's value is independent of the
	// input rows.
	IsConstant() bool

	// ContainedVariables reports the variables held directly by this node.
	ContainedVariables() []Variable

	// UnaggregatedVariables reports the variables that are not enclosed in
	// an aggregate below this node.
	UnaggregatedVariables() []Variable

	// Children returns the direct child nodes.
	Children() []Expression
}
