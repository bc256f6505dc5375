package sparqlexpr

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison with errors.Is by callers of the engine.
var (
	ErrVariableNotBound = errors.New("variable is not bound in the current column mapping")
	ErrNotCacheable     = errors.New("expression must not be cached")
	ErrRegexCompilation = errors.New("failed to compile regular expression")
)

// VariableNotBoundError reports which variable was missing from the column
// mapping.
type VariableNotBoundError struct {
	Variable Variable
}

func (e VariableNotBoundError) Error() string {
	return fmt.Sprintf("variable %s not found in the current column mapping", e.Variable)
}

// Is allows errors.Is(err, ErrVariableNotBound).
func (e VariableNotBoundError) Is(target error) bool {
	return target == ErrVariableNotBound
}

// NotCacheableError is returned when a cache key is requested for a
// single-use expression node.
type NotCacheableError struct {
	Reason string
}

func (e NotCacheableError) Error() string {
	return fmt.Sprintf("expression must not be cached: %s", e.Reason)
}

// Is allows errors.Is(err, ErrNotCacheable).
func (e NotCacheableError) Is(target error) bool {
	return target == ErrNotCacheable
}

// RegexCompilationError wraps the underlying compile failure.
type RegexCompilationError struct {
	Pattern string
	Cause   error
}

func (e RegexCompilationError) Error() string {
	return fmt.Sprintf("failed to compile regular expression %q: %s", e.Pattern, e.Cause)
}

// Is allows errors.Is(err, ErrRegexCompilation).
func (e RegexCompilationError) Is(target error) bool {
	return target == ErrRegexCompilation
}

func (e RegexCompilationError) Unwrap() error { return e.Cause }
