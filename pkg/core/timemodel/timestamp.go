package timemodel

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jakechorley/capacity-planner/pkg/errs"
)

// TimestampLayout is the canonical output form; the offset keeps DST fall-back hours unambiguous
const TimestampLayout = "2006-01-02T15:04:05Z07:00"

const timestampShape = "expected YYYY-MM-DD[THH:MM[:SS[.fff]][Z|±HH:MM]]"

var timestampPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})` +
		`(?:[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?(Z|[+-]\d{2}:\d{2})?)?$`)

// ParseTimestamp strictly parses an ISO-8601 timestamp at the allocation boundary.
// Values without an offset are read as local time in the zone; a date alone is local midnight.
// Out-of-range components and structurally wrong strings are rejected with a
// MalformedInputError naming field.
func (z *Zone) ParseTimestamp(field, value string) (time.Time, error) {
	m := timestampPattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, errs.Malformed(field, value, timestampShape)
	}

	d, err := buildDate(field, value, m[1], m[2], m[3])
	if err != nil {
		return time.Time{}, err
	}

	var hour, minute, second, nanos int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			second, _ = strconv.Atoi(m[6])
		}
		if m[7] != "" {
			frac := m[7]
			for len(frac) < 9 {
				frac += "0"
			}
			nanos, _ = strconv.Atoi(frac)
		}
	}
	if hour > 23 {
		return time.Time{}, errs.Malformed(field, value, fmt.Sprintf("hour %d out of range (0-23)", hour))
	}
	if minute > 59 {
		return time.Time{}, errs.Malformed(field, value, fmt.Sprintf("minute %d out of range (0-59)", minute))
	}
	if second > 59 {
		return time.Time{}, errs.Malformed(field, value, fmt.Sprintf("second %d out of range (0-59)", second))
	}

	loc := z.loc
	if offset := m[8]; offset != "" {
		if loc, err = parseOffset(field, value, offset); err != nil {
			return time.Time{}, err
		}
	}

	return time.Date(d.Year, d.Month, d.Day, hour, minute, second, nanos, loc), nil
}

// FormatTimestamp renders t in the zone using TimestampLayout
func (z *Zone) FormatTimestamp(t time.Time) string {
	return t.In(z.loc).Format(TimestampLayout)
}

func parseOffset(field, value, offset string) (*time.Location, error) {
	if offset == "Z" {
		return time.UTC, nil
	}
	hours, _ := strconv.Atoi(offset[1:3])
	minutes, _ := strconv.Atoi(offset[4:6])
	if hours > 23 || minutes > 59 {
		return nil, errs.Malformed(field, value, fmt.Sprintf("offset %s out of range", offset))
	}
	secs := hours*3600 + minutes*60
	if offset[0] == '-' {
		secs = -secs
	}
	return time.FixedZone("", secs), nil
}
