package timemodel

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jakechorley/capacity-planner/pkg/errs"
)

// Date is a civil calendar date with no time-of-day and no zone.
// It is the key used to group allocations into days.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalising out-of-range values the same way time.Date does
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// String renders the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Weekday returns the day of the week of d
func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly before o
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// DaysUntil returns the number of calendar days from d to o (negative if o is earlier)
func (d Date) DaysUntil(o Date) int {
	return int(o.utc().Sub(d.utc()).Hours() / 24)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the strict date parser
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate("date", string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var datePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseDate strictly parses a YYYY-MM-DD string.
// field labels the value in the returned error.
func ParseDate(field, value string) (Date, error) {
	m := datePattern.FindStringSubmatch(value)
	if m == nil {
		return Date{}, errs.Malformed(field, value, "expected YYYY-MM-DD")
	}
	return buildDate(field, value, m[1], m[2], m[3])
}

func buildDate(field, value, ys, ms, ds string) (Date, error) {
	year, _ := strconv.Atoi(ys)
	month, _ := strconv.Atoi(ms)
	day, _ := strconv.Atoi(ds)

	if month < 1 || month > 12 {
		return Date{}, errs.Malformed(field, value, fmt.Sprintf("month %d out of range (1-12)", month))
	}
	maxDay := daysIn(year, time.Month(month))
	if day < 1 || day > maxDay {
		return Date{}, errs.Malformed(field, value, fmt.Sprintf("day %d out of range (1-%d)", day, maxDay))
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
