package ids

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDRoundtrip(t *testing.T) {
	for _, tt := range []struct {
		name  string
		id    Id
		check func(t *testing.T, id Id)
	}{
		{
			name: "int positive",
			id:   IntID(42),
			check: func(t *testing.T, id Id) {
				require.Equal(t, DatatypeInt, id.Datatype())
				require.Equal(t, int64(42), id.Int())
			},
		},
		{
			name: "int negative",
			id:   IntID(-123456789),
			check: func(t *testing.T, id Id) {
				require.Equal(t, int64(-123456789), id.Int())
			},
		},
		{
			name: "double",
			id:   DoubleID(3.25),
			check: func(t *testing.T, id Id) {
				require.Equal(t, DatatypeDouble, id.Datatype())
				require.Equal(t, 3.25, id.Double())
			},
		},
		{
			name: "double nan",
			id:   DoubleID(math.NaN()),
			check: func(t *testing.T, id Id) {
				require.True(t, math.IsNaN(id.Double()))
			},
		},
		{
			name: "bool",
			id:   BoolID(true),
			check: func(t *testing.T, id Id) {
				require.Equal(t, DatatypeBool, id.Datatype())
				require.True(t, id.Bool())
			},
		},
		{
			name: "undefined",
			id:   Undefined(),
			check: func(t *testing.T, id Id) {
				require.True(t, id.IsUndefined())
				require.Equal(t, Id(0), id)
			},
		},
		{
			name: "vocab index",
			id:   FromVocabIndex(VocabIndex(99)),
			check: func(t *testing.T, id Id) {
				require.Equal(t, DatatypeVocabIndex, id.Datatype())
				require.Equal(t, VocabIndex(99), id.VocabIndex())
			},
		},
		{
			name: "date",
			id:   DateID(NewDate(2024, 2, 29)),
			check: func(t *testing.T, id Id) {
				require.Equal(t, DatatypeDate, id.Datatype())
				require.Equal(t, NewDate(2024, 2, 29), id.Date())
			},
		},
		{
			name: "negative large year",
			id:   DateID(NewLargeYear(-1000000)),
			check: func(t *testing.T, id Id) {
				d := id.Date()
				require.True(t, d.IsYearOnly())
				require.Equal(t, int64(-1000000), d.Year)
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.id)
		})
	}
}

func TestIDEquality(t *testing.T) {
	require.Equal(t, IntID(7), IntID(7))
	require.NotEqual(t, IntID(7), DoubleID(7))
	require.NotEqual(t, IntID(7), IntID(8))
}

func TestIDString(t *testing.T) {
	require.Equal(t, "42", IntID(42).String())
	require.Equal(t, "true", BoolID(true).String())
	require.Equal(t, "UNDEF", Undefined().String())
	require.Equal(t, "2024-02-29", DateID(NewDate(2024, 2, 29)).String())
}
