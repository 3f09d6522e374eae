package timemodel

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jakechorley/capacity-planner/pkg/errs"
)

// TimeOfDay is a local wall-clock time expressed in whole minutes since midnight.
// Free-text forms like "10h30" are parsed into it once at the storage boundary;
// all comparisons and arithmetic use the numeric value.
type TimeOfDay int

// MinutesPerDay is the largest valid TimeOfDay (24h00, end of day)
const MinutesPerDay = 24 * 60

// Fixed midday interval, [12:00, 13:00)
const (
	MiddayStartHour = 12.0
	MiddayEndHour   = 13.0
)

// Midday is the fixed unpaid midday interval
var Midday = TimeRange{Start: 12 * 60, End: 13 * 60}

// clockPiece matches "9", "9h", "9h30", "09:30"
const clockPiece = `(\d{1,2})(?:h(\d{2})?|:(\d{2}))?`

var timeOfDayPattern = regexp.MustCompile(`^` + clockPiece + `$`)

// TimeOfDayFromHours converts a decimal hour to the nearest minute
func TimeOfDayFromHours(hours float64) TimeOfDay {
	return TimeOfDay(math.Round(hours * 60))
}

// ParseTimeOfDay parses "10h30", "10h", "10:30" or "10" (surrounding whitespace allowed).
// ok is false for empty or unparseable text.
func ParseTimeOfDay(text string) (TimeOfDay, bool) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	return clockFromMatch(m[1], m[2], m[3])
}

func clockFromMatch(hs, hMin, colonMin string) (TimeOfDay, bool) {
	hour, err := strconv.Atoi(hs)
	if err != nil {
		return 0, false
	}
	minute := 0
	if ms := hMin + colonMin; ms != "" {
		if minute, err = strconv.Atoi(ms); err != nil {
			return 0, false
		}
	}
	if hour > 24 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, false
	}
	return TimeOfDay(hour*60 + minute), true
}

// Hours returns the time as a decimal hour
func (t TimeOfDay) Hours() float64 {
	return float64(t) / 60
}

// String renders the time in the "10h30" / "9h" form
func (t TimeOfDay) String() string {
	h, m := int(t)/60, int(t)%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02d", h, m)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts any form ParseTimeOfDay does
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, ok := ParseTimeOfDay(string(text))
	if !ok {
		return errs.Malformed("time", string(text), "expected a time of day like 10h30")
	}
	*t = parsed
	return nil
}

// TimeRange is a half-open local interval [Start, End) within one day
type TimeRange struct {
	Start TimeOfDay `json:"start" yaml:"start"`
	End   TimeOfDay `json:"end" yaml:"end"`
}

// Overlaps reports whether the two half-open ranges intersect
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Intersection returns the length in hours of the overlap between r and o
func (r TimeRange) Intersection(o TimeRange) float64 {
	start := max(r.Start, o.Start)
	end := min(r.End, o.End)
	if end <= start {
		return 0
	}
	return TimeOfDay(end - start).Hours()
}

// Hours returns the length of the range in hours (0 for empty or inverted ranges)
func (r TimeRange) Hours() float64 {
	if r.End <= r.Start {
		return 0
	}
	return TimeOfDay(r.End - r.Start).Hours()
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Subtract removes every range in cut from r and returns the remaining pieces in order
func (r TimeRange) Subtract(cut []TimeRange) []TimeRange {
	pieces := []TimeRange{r}
	for _, c := range cut {
		var next []TimeRange
		for _, p := range pieces {
			if !p.Overlaps(c) {
				next = append(next, p)
				continue
			}
			if p.Start < c.Start {
				next = append(next, TimeRange{Start: p.Start, End: c.Start})
			}
			if c.End < p.End {
				next = append(next, TimeRange{Start: c.End, End: p.End})
			}
		}
		pieces = next
	}
	return pieces
}

// MiddayOverlap returns the real overlap, in hours, between [startHour, endHour) and [12, 13)
func MiddayOverlap(startHour, endHour float64) float64 {
	overlap := math.Min(endHour, MiddayEndHour) - math.Max(startHour, MiddayStartHour)
	if overlap <= 0 {
		return 0
	}
	return overlap
}
