// Package export materializes finished result tables into Arrow records
// for downstream consumers (formatting, IPC, dataframes).
package export

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/quetzal-graph/quetzal/pkg/engine"
	"github.com/quetzal-graph/quetzal/pkg/sparqlexpr"
	"github.com/quetzal-graph/quetzal/pkg/vocab"
)

// ToArrowRecord renders every value of res through the vocabulary into one
// string column per result column. Values without a string form (UNDEF)
// become nulls. The table must be finished; converting a table that is
// still being produced is a caller bug.
//
// The caller owns the returned record and must Release it.
func ToArrowRecord(mem memory.Allocator, res *engine.Result, voc vocab.Vocabulary, local *vocab.LocalVocab, columnNames []string) (arrow.Record, error) {
	if !res.IsFinished() {
		return nil, errors.New("export: result table is not finished")
	}
	if len(columnNames) != res.NumColumns() {
		return nil, errors.Errorf("export: %d column names for a %d-column result", len(columnNames), res.NumColumns())
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := make([]arrow.Field, res.NumColumns())
	for col := range fields {
		fields[col] = arrow.Field{
			Name:     columnNames[col],
			Type:     arrow.BinaryTypes.String,
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{"result_type"},
				[]string{res.ResultType(col).String()},
			),
		}
	}
	schema := arrow.NewSchema(fields, nil)

	ec := sparqlexpr.NewEvaluationContext(res, voc)
	ec.LocalVocab = local

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	rows := res.Size()
	for col := 0; col < res.NumColumns(); col++ {
		fb := builder.Field(col).(*array.StringBuilder)
		fb.Reserve(rows)
		for row := 0; row < rows; row++ {
			s, ok := sparqlexpr.GetString(sparqlexpr.NewIdValue(res.At(row, col)), ec)
			if !ok {
				fb.AppendNull()
				continue
			}
			fb.Append(s)
		}
	}
	return builder.NewRecord(), nil
}
