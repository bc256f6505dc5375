package ids

import "fmt"

// A Date is a calendar date, or a bare (possibly very large) year when Month
// and Day are zero. It packs into the 60-bit payload of an [Id] as
// [year:51][month:4][day:5].
type Date struct {
	Year  int64
	Month uint8 // 1..12, 0 when only the year is known
	Day   uint8 // 1..31, 0 when only the year is known
}

const (
	dateYearBits = 51
	dateYearMask = (uint64(1) << dateYearBits) - 1
)

// NewDate constructs a full calendar date.
func NewDate(year int64, month, day uint8) Date {
	return Date{Year: year, Month: month, Day: day}
}

// NewLargeYear constructs a year-only date, used for years outside the
// regular calendar range.
func NewLargeYear(year int64) Date { return Date{Year: year} }

// IsYearOnly reports whether the date carries no month or day.
func (d Date) IsYearOnly() bool { return d.Month == 0 && d.Day == 0 }

func (d Date) pack() uint64 {
	return (uint64(d.Year)&dateYearMask)<<9 |
		uint64(d.Month&0xf)<<5 |
		uint64(d.Day&0x1f)
}

func unpackDate(payload uint64) Date {
	year := int64(payload>>9<<(64-dateYearBits)) >> (64 - dateYearBits)
	return Date{
		Year:  year,
		Month: uint8(payload >> 5 & 0xf),
		Day:   uint8(payload & 0x1f),
	}
}

// String renders the date in xsd:date style, or a bare year.
func (d Date) String() string {
	if d.IsYearOnly() {
		return fmt.Sprintf("%d", d.Year)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
