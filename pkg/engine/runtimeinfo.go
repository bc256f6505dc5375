package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// RuntimeInfo collects per-operation execution statistics as a tree that
// mirrors the operation tree of a query.
type RuntimeInfo struct {
	Descriptor  string
	Rows        int
	Cols        int
	Time        time.Duration
	WasCached   bool
	ColumnNames []string
	Details     map[string]any
	Children    []*RuntimeInfo
}

// AddChild appends the runtime information of a child operation.
func (r *RuntimeInfo) AddChild(child *RuntimeInfo) {
	r.Children = append(r.Children, child)
}

// AddDetail records an operation-specific key/value pair.
func (r *RuntimeInfo) AddDetail(key string, value any) {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
}

// ChildrenTime returns the total time spent in child operations.
func (r *RuntimeInfo) ChildrenTime() time.Duration {
	var sum time.Duration
	for _, child := range r.Children {
		sum += child.Time
	}
	return sum
}

// OperationTime returns the time spent in this operation itself. A cached
// operation did not run its children, so its full time counts.
func (r *RuntimeInfo) OperationTime() time.Duration {
	if r.WasCached {
		return r.Time
	}
	return r.Time - r.ChildrenTime()
}

// String renders the tree for human consumption.
func (r *RuntimeInfo) String() string {
	var sb strings.Builder
	r.writeIndented(&sb, 0)
	return sb.String()
}

func (r *RuntimeInfo) writeIndented(sb *strings.Builder, indent int) {
	pad := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s%s\n", pad, r.Descriptor)
	fmt.Fprintf(sb, "%sresult_size: %s x %d\n", pad, humanize.Comma(int64(r.Rows)), r.Cols)
	if len(r.ColumnNames) > 0 {
		fmt.Fprintf(sb, "%scolumns: %s\n", pad, strings.Join(r.ColumnNames, ", "))
	}
	fmt.Fprintf(sb, "%stotal_time: %s\n", pad, r.Time)
	fmt.Fprintf(sb, "%soperation_time: %s\n", pad, r.OperationTime())
	fmt.Fprintf(sb, "%scached: %t\n", pad, r.WasCached)
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "%s %s: %v\n", pad, k, r.Details[k])
	}
	for _, child := range r.Children {
		child.writeIndented(sb, indent+1)
	}
}

// MarshalJSON renders the tree with stable, self-describing keys.
func (r *RuntimeInfo) MarshalJSON() ([]byte, error) {
	type jsonInfo struct {
		Description   string         `json:"description"`
		ResultRows    int            `json:"result_rows"`
		ResultCols    int            `json:"result_cols"`
		ColumnNames   []string       `json:"column_names"`
		TotalTimeMs   float64        `json:"total_time_ms"`
		OperationMs   float64        `json:"operation_time_ms"`
		WasCached     bool           `json:"was_cached"`
		Details       map[string]any `json:"details,omitempty"`
		ChildrenInfos []*RuntimeInfo `json:"children"`
	}
	return json.Marshal(jsonInfo{
		Description:   r.Descriptor,
		ResultRows:    r.Rows,
		ResultCols:    r.Cols,
		ColumnNames:   r.ColumnNames,
		TotalTimeMs:   float64(r.Time.Microseconds()) / 1000,
		OperationMs:   float64(r.OperationTime().Microseconds()) / 1000,
		WasCached:     r.WasCached,
		Details:       r.Details,
		ChildrenInfos: r.Children,
	})
}
