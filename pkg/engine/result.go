// Package engine holds the in-memory result representation of the query
// engine and the machinery that runs operations against it.
package engine

import (
	"fmt"
	"sync"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

// ResultType tags how the values of one result column are to be rendered
// downstream.
type ResultType int

const (
	// ResultTypeKB values reference the knowledge-base vocabulary.
	ResultTypeKB ResultType = iota
	// ResultTypeVerbatim values are rendered from their payload directly.
	ResultTypeVerbatim
	// ResultTypeText values reference full-text match records.
	ResultTypeText
)

// String returns the string representation of the ResultType.
func (t ResultType) String() string {
	switch t {
	case ResultTypeKB:
		return "kb"
	case ResultTypeVerbatim:
		return "verbatim"
	case ResultTypeText:
		return "text"
	default:
		return fmt.Sprintf("ResultType(%d)", int(t))
	}
}

// maxFixedArity is the widest tuple for which a dense fixed-width
// representation exists. Wider results fall back to variable-width storage.
const maxFixedArity = 5

// A Result is the tabular output of one query-execution step. It is filled
// by exactly one producer, marked finished exactly once, and then read by
// any number of concurrent readers. Rows are fixed-width tuples of
// [ids.Id]; tables with up to five columns use a dense per-arity
// representation, wider tables a variable-width fallback.
//
// A Result must be created through [NewFixedWidth] or [NewVarWidth] and
// passed around by pointer.
type Result struct {
	numColumns  int
	sortedBy    int // >= numColumns means unsorted
	resultTypes []ResultType

	fixed   *fixedStore // nil iff variable-width
	varSize [][]ids.Id

	finishOnce sync.Once
	finished   chan struct{}
}

// fixedStore is a closed tagged union over the five supported fixed
// arities. Every accessor switches on the arity; hitting the default branch
// means the store was constructed with an unsupported arity, which is a
// defect, not a runtime condition.
type fixedStore struct {
	arity int
	rows1 [][1]ids.Id
	rows2 [][2]ids.Id
	rows3 [][3]ids.Id
	rows4 [][4]ids.Id
	rows5 [][5]ids.Id
}

// NewFixedWidth creates an empty result with cols columns backed by the
// dense fixed-width representation. Panics unless 1 <= cols <= 5.
func NewFixedWidth(cols int) *Result {
	if cols < 1 || cols > maxFixedArity {
		panic(fmt.Sprintf("engine: unsupported fixed-width arity %d", cols))
	}
	return &Result{
		numColumns: cols,
		sortedBy:   cols,
		fixed:      &fixedStore{arity: cols},
		finished:   make(chan struct{}),
	}
}

// NewVarWidth creates an empty result with cols columns backed by the
// variable-width representation.
func NewVarWidth(cols int) *Result {
	if cols < 1 {
		panic(fmt.Sprintf("engine: invalid column count %d", cols))
	}
	return &Result{
		numColumns: cols,
		sortedBy:   cols,
		finished:   make(chan struct{}),
	}
}

// NumColumns returns the number of columns, fixed for the table's lifetime.
func (r *Result) NumColumns() int { return r.numColumns }

// SortedBy returns the column the data is physically sorted by, or a value
// >= NumColumns() when the data is unsorted.
func (r *Result) SortedBy() int { return r.sortedBy }

// SetSortedBy records the column the data is sorted by. Any value >=
// NumColumns() marks the data unsorted.
func (r *Result) SetSortedBy(col int) { r.sortedBy = col }

// SetResultTypes declares the per-column result types. Columns beyond the
// declared range default to [ResultTypeKB].
func (r *Result) SetResultTypes(types []ResultType) { r.resultTypes = types }

// ResultType returns the declared type of col, or [ResultTypeKB] if col is
// outside the declared range.
func (r *Result) ResultType(col int) ResultType {
	if col < len(r.resultTypes) {
		return r.resultTypes[col]
	}
	return ResultTypeKB
}

// Size returns the number of rows, independent of the storage
// representation.
func (r *Result) Size() int {
	if r.fixed != nil {
		return r.fixed.size()
	}
	return len(r.varSize)
}

// AppendRow adds one row. The row must have exactly NumColumns() entries;
// anything else is a defect of the producing operation.
func (r *Result) AppendRow(row ...ids.Id) {
	if len(row) != r.numColumns {
		panic(fmt.Sprintf("engine: row with %d entries appended to a %d-column result", len(row), r.numColumns))
	}
	if r.fixed != nil {
		r.fixed.appendRow(row)
		return
	}
	cp := make([]ids.Id, len(row))
	copy(cp, row)
	r.varSize = append(r.varSize, cp)
}

// At returns the value at (row, col).
func (r *Result) At(row, col int) ids.Id {
	if r.fixed != nil {
		return r.fixed.at(row, col)
	}
	return r.varSize[row][col]
}

// Clear drops all row data and resets the table to empty. The completion
// status is deliberately left untouched.
func (r *Result) Clear() {
	if r.fixed != nil {
		r.fixed = &fixedStore{arity: r.fixed.arity}
		return
	}
	r.varSize = nil
}

// RowsAsVarWidth materializes the rows into the uniform variable-width
// shape regardless of the underlying storage. For variable-width tables
// this is the stored rows themselves; callers must not mutate them.
func (r *Result) RowsAsVarWidth() [][]ids.Id {
	if r.fixed != nil {
		return r.fixed.asVarWidth()
	}
	return r.varSize
}

// Finish marks the result complete and wakes every waiter, current and
// future. Calling it again has no further effect.
func (r *Result) Finish() {
	r.finishOnce.Do(func() { close(r.finished) })
}

// IsFinished is a non-blocking snapshot of the completion status.
func (r *Result) IsFinished() bool {
	select {
	case <-r.finished:
		return true
	default:
		return false
	}
}

// AwaitFinished blocks until Finish has been called. The wait is a channel
// receive, not a spin loop. Callers that need a bounded wait should select
// on their own cancellation alongside [Result.Done].
func (r *Result) AwaitFinished() {
	<-r.finished
}

// Done exposes the completion latch for use in select statements.
func (r *Result) Done() <-chan struct{} { return r.finished }

// Clone returns a deep copy of the row data and metadata. The clone has its
// own completion latch and always starts out pending, regardless of the
// status of the receiver; two tables must never share a completion signal.
func (r *Result) Clone() *Result {
	cp := &Result{
		numColumns: r.numColumns,
		sortedBy:   r.sortedBy,
		finished:   make(chan struct{}),
	}
	if r.resultTypes != nil {
		cp.resultTypes = append([]ResultType(nil), r.resultTypes...)
	}
	if r.fixed != nil {
		cp.fixed = r.fixed.clone()
	} else if r.varSize != nil {
		cp.varSize = make([][]ids.Id, len(r.varSize))
		for i, row := range r.varSize {
			cp.varSize[i] = append([]ids.Id(nil), row...)
		}
	}
	return cp
}

func (s *fixedStore) size() int {
	switch s.arity {
	case 1:
		return len(s.rows1)
	case 2:
		return len(s.rows2)
	case 3:
		return len(s.rows3)
	case 4:
		return len(s.rows4)
	case 5:
		return len(s.rows5)
	default:
		panic(fmt.Sprintf("engine: fixed-width store with unsupported arity %d", s.arity))
	}
}

func (s *fixedStore) appendRow(row []ids.Id) {
	switch s.arity {
	case 1:
		s.rows1 = append(s.rows1, [1]ids.Id(row))
	case 2:
		s.rows2 = append(s.rows2, [2]ids.Id(row))
	case 3:
		s.rows3 = append(s.rows3, [3]ids.Id(row))
	case 4:
		s.rows4 = append(s.rows4, [4]ids.Id(row))
	case 5:
		s.rows5 = append(s.rows5, [5]ids.Id(row))
	default:
		panic(fmt.Sprintf("engine: fixed-width store with unsupported arity %d", s.arity))
	}
}

func (s *fixedStore) at(row, col int) ids.Id {
	switch s.arity {
	case 1:
		return s.rows1[row][col]
	case 2:
		return s.rows2[row][col]
	case 3:
		return s.rows3[row][col]
	case 4:
		return s.rows4[row][col]
	case 5:
		return s.rows5[row][col]
	default:
		panic(fmt.Sprintf("engine: fixed-width store with unsupported arity %d", s.arity))
	}
}

func (s *fixedStore) asVarWidth() [][]ids.Id {
	res := make([][]ids.Id, 0, s.size())
	switch s.arity {
	case 1:
		for _, row := range s.rows1 {
			res = append(res, append([]ids.Id(nil), row[:]...))
		}
	case 2:
		for _, row := range s.rows2 {
			res = append(res, append([]ids.Id(nil), row[:]...))
		}
	case 3:
		for _, row := range s.rows3 {
			res = append(res, append([]ids.Id(nil), row[:]...))
		}
	case 4:
		for _, row := range s.rows4 {
			res = append(res, append([]ids.Id(nil), row[:]...))
		}
	case 5:
		for _, row := range s.rows5 {
			res = append(res, append([]ids.Id(nil), row[:]...))
		}
	default:
		panic(fmt.Sprintf("engine: fixed-width store with unsupported arity %d", s.arity))
	}
	return res
}

func (s *fixedStore) clone() *fixedStore {
	cp := &fixedStore{arity: s.arity}
	cp.rows1 = append([][1]ids.Id(nil), s.rows1...)
	cp.rows2 = append([][2]ids.Id(nil), s.rows2...)
	cp.rows3 = append([][3]ids.Id(nil), s.rows3...)
	cp.rows4 = append([][4]ids.Id(nil), s.rows4...)
	cp.rows5 = append([][5]ids.Id(nil), s.rows5...)
	return cp
}
