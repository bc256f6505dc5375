package ids

import (
	"fmt"
	"math"
	"strconv"
)

// An Id is the fixed-size representation of a single query value. The upper
// 4 bits hold the Datatype tag, the lower 60 bits hold the payload. Values
// that do not fit into 60 bits (vocabulary indices, dates) are a programming
// error on the side of the caller. Two Ids are equal iff their bits are
// equal; Id is a plain value type and safe to copy everywhere.
type Id uint64

const (
	tagShift    = 60
	payloadMask = (uint64(1) << tagShift) - 1
)

// Datatype is the tag stored in the upper bits of an [Id].
type Datatype uint8

const (
	DatatypeUndefined Datatype = iota
	DatatypeInt
	DatatypeDouble
	DatatypeBool
	DatatypeDate
	DatatypeVocabIndex
	DatatypeLocalVocabIndex
	DatatypeTextRecordIndex
)

var datatypeStrings = map[Datatype]string{
	DatatypeUndefined:       "undefined",
	DatatypeInt:             "int",
	DatatypeDouble:          "double",
	DatatypeBool:            "bool",
	DatatypeDate:            "date",
	DatatypeVocabIndex:      "vocab-index",
	DatatypeLocalVocabIndex: "local-vocab-index",
	DatatypeTextRecordIndex: "text-record-index",
}

// String returns the string representation of the Datatype.
func (d Datatype) String() string {
	if s, ok := datatypeStrings[d]; ok {
		return s
	}
	return fmt.Sprintf("Datatype(%d)", uint8(d))
}

func makeID(d Datatype, payload uint64) Id {
	return Id(uint64(d)<<tagShift | payload&payloadMask)
}

// Undefined returns the Id representing the UNDEF value. It is the zero
// value of Id.
func Undefined() Id { return makeID(DatatypeUndefined, 0) }

// IntID packs a signed integer. The value is truncated to 60 bits; the sign
// is restored on extraction.
func IntID(i int64) Id { return makeID(DatatypeInt, uint64(i)) }

// DoubleID packs a 64-bit float by dropping the lowest 4 mantissa bits.
func DoubleID(f float64) Id {
	return makeID(DatatypeDouble, math.Float64bits(f)>>4)
}

// BoolID packs a boolean.
func BoolID(b bool) Id {
	if b {
		return makeID(DatatypeBool, 1)
	}
	return makeID(DatatypeBool, 0)
}

// DateID packs a [Date].
func DateID(d Date) Id { return makeID(DatatypeDate, d.pack()) }

// FromVocabIndex references an entry of the external vocabulary.
func FromVocabIndex(v VocabIndex) Id {
	return makeID(DatatypeVocabIndex, uint64(v))
}

// FromLocalVocabIndex references an entry of a query-local vocabulary.
func FromLocalVocabIndex(v LocalVocabIndex) Id {
	return makeID(DatatypeLocalVocabIndex, uint64(v))
}

// FromTextRecordIndex references a full-text match record.
func FromTextRecordIndex(v TextRecordIndex) Id {
	return makeID(DatatypeTextRecordIndex, uint64(v))
}

// Datatype returns the tag of the Id.
func (id Id) Datatype() Datatype { return Datatype(uint64(id) >> tagShift) }

func (id Id) payload() uint64 { return uint64(id) & payloadMask }

// Int extracts a signed integer, sign-extending the 60-bit payload.
func (id Id) Int() int64 {
	return int64(id.payload()<<4) >> 4
}

// Double extracts the float payload.
func (id Id) Double() float64 {
	return math.Float64frombits(id.payload() << 4)
}

// Bool extracts the boolean payload.
func (id Id) Bool() bool { return id.payload() != 0 }

// Date extracts the packed [Date].
func (id Id) Date() Date { return unpackDate(id.payload()) }

// VocabIndex extracts the vocabulary index payload.
func (id Id) VocabIndex() VocabIndex { return VocabIndex(id.payload()) }

// LocalVocabIndex extracts the local-vocabulary index payload.
func (id Id) LocalVocabIndex() LocalVocabIndex { return LocalVocabIndex(id.payload()) }

// TextRecordIndex extracts the text-record index payload.
func (id Id) TextRecordIndex() TextRecordIndex { return TextRecordIndex(id.payload()) }

// Bits returns the raw bit pattern. Used for cache keys and debugging.
func (id Id) Bits() uint64 { return uint64(id) }

// IsUndefined reports whether the Id is the UNDEF value.
func (id Id) IsUndefined() bool { return id.Datatype() == DatatypeUndefined }

// Less imposes a total order on Ids by datatype first, then payload. It is
// used to break ties between values of incompatible types.
func (id Id) Less(other Id) bool { return uint64(id) < uint64(other) }

// String renders the Id for logs and error messages.
func (id Id) String() string {
	switch id.Datatype() {
	case DatatypeUndefined:
		return "UNDEF"
	case DatatypeInt:
		return strconv.FormatInt(id.Int(), 10)
	case DatatypeDouble:
		return strconv.FormatFloat(id.Double(), 'g', -1, 64)
	case DatatypeBool:
		return strconv.FormatBool(id.Bool())
	case DatatypeDate:
		return id.Date().String()
	default:
		return fmt.Sprintf("%s:%d", id.Datatype(), id.payload())
	}
}
