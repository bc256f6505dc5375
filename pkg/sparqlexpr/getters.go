package sparqlexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/grafana/regexp"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

// The value getters convert an [IdOrString] into one target semantic
// domain. Each getter is a total function over all input shapes: a tagged
// value, a raw string, or the combined IdOrString, which dispatches to the
// shape it currently holds. Getters take the evaluation context because
// resolving vocabulary-referencing Ids needs it.

// NumericKind discriminates the [Numeric] sum.
type NumericKind int

const (
	// NumericKindNotNumeric marks a value that has no numeric
	// interpretation. Strings are never implicitly numeric.
	NumericKindNotNumeric NumericKind = iota
	NumericKindInt
	NumericKindFloat
)

// Numeric is the input to numeric expressions: an integer, a double, or the
// marker that the value is not numeric.
type Numeric struct {
	Kind NumericKind
	I    int64
	F    float64
}

// NotNumeric returns the non-numeric marker.
func NotNumeric() Numeric { return Numeric{Kind: NumericKindNotNumeric} }

// IntNumeric wraps an integer.
func IntNumeric(i int64) Numeric { return Numeric{Kind: NumericKindInt, I: i} }

// FloatNumeric wraps a double.
func FloatNumeric(f float64) Numeric { return Numeric{Kind: NumericKindFloat, F: f} }

// Float returns the value as a float64, converting integers.
func (n Numeric) Float() float64 {
	if n.Kind == NumericKindInt {
		return float64(n.I)
	}
	return n.F
}

// GetNumeric converts v into a [Numeric].
func GetNumeric(v IdOrString, ec *EvaluationContext) Numeric {
	if !v.IsID() {
		return NotNumeric()
	}
	return NumericFromID(v.AsID())
}

// NumericFromID is the Id shape of [GetNumeric].
func NumericFromID(id ids.Id) Numeric {
	switch id.Datatype() {
	case ids.DatatypeInt:
		return IntNumeric(id.Int())
	case ids.DatatypeDouble:
		return FloatNumeric(id.Double())
	default:
		return NotNumeric()
	}
}

// NumericID converts a Numeric back into a tagged value. When nanToUndef is
// set, floating-point NaN becomes the undefined Id instead of a NaN-tagged
// double; callers choose the policy per use site.
func NumericID(n Numeric, nanToUndef bool) ids.Id {
	switch n.Kind {
	case NumericKindInt:
		return ids.IntID(n.I)
	case NumericKindFloat:
		if nanToUndef && math.IsNaN(n.F) {
			return ids.Undefined()
		}
		return ids.DoubleID(n.F)
	default:
		return ids.Undefined()
	}
}

// GetIsValid reports whether v is a usable value, i.e. not the undefined
// Id. Strings are always valid.
func GetIsValid(v IdOrString, ec *EvaluationContext) bool {
	if !v.IsID() {
		return true
	}
	return !v.AsID().IsUndefined()
}

// EffectiveBool is the three-valued outcome of the effective boolean value
// conversion used by AND, OR and NOT.
type EffectiveBool int

const (
	BoolFalse EffectiveBool = iota
	BoolTrue
	BoolUndef
)

// String returns the string representation of the EffectiveBool.
func (b EffectiveBool) String() string {
	switch b {
	case BoolFalse:
		return "false"
	case BoolTrue:
		return "true"
	case BoolUndef:
		return "undef"
	default:
		return fmt.Sprintf("EffectiveBool(%d)", int(b))
	}
}

// GetEffectiveBool converts v per the standard three-valued conversion:
// non-empty strings are true, empty strings false; numbers convert by
// comparison with zero; anything not boolean-convertible is undef.
func GetEffectiveBool(v IdOrString, ec *EvaluationContext) EffectiveBool {
	if !v.IsID() {
		if v.AsString() == "" {
			return BoolFalse
		}
		return BoolTrue
	}
	id := v.AsID()
	switch id.Datatype() {
	case ids.DatatypeBool:
		if id.Bool() {
			return BoolTrue
		}
		return BoolFalse
	case ids.DatatypeInt:
		if id.Int() != 0 {
			return BoolTrue
		}
		return BoolFalse
	case ids.DatatypeDouble:
		d := id.Double()
		if d != 0 && !math.IsNaN(d) {
			return BoolTrue
		}
		return BoolFalse
	default:
		return BoolUndef
	}
}

// stripQuotes removes one pair of surrounding double quotes, if present.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// GetString converts v into its string form. Raw strings have surrounding
// quotes stripped; Ids are rendered per their datatype, resolving
// vocabulary references through the context. Returns false for values with
// no string form (e.g. undefined).
func GetString(v IdOrString, ec *EvaluationContext) (string, bool) {
	if !v.IsID() {
		return stripQuotes(v.AsString()), true
	}
	return stringFromID(v.AsID(), ec)
}

func stringFromID(id ids.Id, ec *EvaluationContext) (string, bool) {
	switch id.Datatype() {
	case ids.DatatypeInt:
		return strconv.FormatInt(id.Int(), 10), true
	case ids.DatatypeDouble:
		return strconv.FormatFloat(id.Double(), 'g', -1, 64), true
	case ids.DatatypeBool:
		return strconv.FormatBool(id.Bool()), true
	case ids.DatatypeDate:
		return id.Date().String(), true
	case ids.DatatypeVocabIndex:
		s, ok := ec.Vocab.IDToString(id)
		if !ok {
			return "", false
		}
		return stripQuotes(s), true
	case ids.DatatypeLocalVocabIndex:
		if ec.LocalVocab == nil {
			return "", false
		}
		s, ok := ec.LocalVocab.Word(uint64(id.LocalVocabIndex()))
		if !ok {
			return "", false
		}
		return stripQuotes(s), true
	default:
		return "", false
	}
}

// GetLiteralContents is like [GetString], but returns false for Ids that
// are not literals (IRIs, numbers, blank nodes). It is used for expressions
// that work on strings when the query did not request explicit string
// coercion.
func GetLiteralContents(v IdOrString, ec *EvaluationContext) (string, bool) {
	if !v.IsID() {
		return stripQuotes(v.AsString()), true
	}
	id := v.AsID()
	switch id.Datatype() {
	case ids.DatatypeVocabIndex:
		if !ec.Vocab.IsLiteral(id) {
			return "", false
		}
		s, _ := ec.Vocab.IDToString(id)
		return stripQuotes(s), true
	case ids.DatatypeLocalVocabIndex:
		if ec.LocalVocab == nil {
			return "", false
		}
		s, ok := ec.LocalVocab.Word(uint64(id.LocalVocabIndex()))
		if !ok || !strings.HasPrefix(s, `"`) {
			return "", false
		}
		return stripQuotes(s), true
	default:
		return "", false
	}
}

// Fixed prefixes that classify raw strings.
const (
	iriPrefix     = "<"
	blankPrefix   = "_:"
	literalPrefix = `"`
)

// GetIsIri reports, as a boolean Id, whether v denotes an IRI.
func GetIsIri(v IdOrString, ec *EvaluationContext) ids.Id {
	if !v.IsID() {
		return ids.BoolID(strings.HasPrefix(v.AsString(), iriPrefix))
	}
	return ids.BoolID(ec.Vocab.IsIri(v.AsID()))
}

// GetIsBlankNode reports, as a boolean Id, whether v denotes a blank node.
func GetIsBlankNode(v IdOrString, ec *EvaluationContext) ids.Id {
	if !v.IsID() {
		return ids.BoolID(strings.HasPrefix(v.AsString(), blankPrefix))
	}
	return ids.BoolID(ec.Vocab.IsBlankNode(v.AsID()))
}

// GetIsLiteral reports, as a boolean Id, whether v denotes a literal.
func GetIsLiteral(v IdOrString, ec *EvaluationContext) ids.Id {
	if !v.IsID() {
		return ids.BoolID(strings.HasPrefix(v.AsString(), literalPrefix))
	}
	return ids.BoolID(ec.Vocab.IsLiteral(v.AsID()))
}

// GetIsNumeric reports, as a boolean Id, whether v carries an integer or
// double datatype. Raw strings are never numeric.
func GetIsNumeric(v IdOrString, ec *EvaluationContext) ids.Id {
	if !v.IsID() {
		return ids.BoolID(false)
	}
	dt := v.AsID().Datatype()
	return ids.BoolID(dt == ids.DatatypeInt || dt == ids.DatatypeDouble)
}

// GetDate extracts the date value of v. Anything that is not a date-tagged
// Id yields false.
func GetDate(v IdOrString, ec *EvaluationContext) (ids.Date, bool) {
	if !v.IsID() {
		return ids.Date{}, false
	}
	id := v.AsID()
	if id.Datatype() != ids.DatatypeDate {
		return ids.Date{}, false
	}
	return id.Date(), true
}

// GetRegex converts v via [GetString] and compiles the result into a
// case-sensitive regular expression. The second return value is false when
// v has no string form; a malformed pattern is reported as an error, never
// swallowed.
func GetRegex(v IdOrString, ec *EvaluationContext) (*regexp.Regexp, bool, error) {
	s, ok := GetString(v, ec)
	if !ok {
		return nil, false, nil
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, false, RegexCompilationError{Pattern: s, Cause: err}
	}
	return re, true, nil
}
