package timemodel

import (
	"fmt"
	"math"
	"time"
)

// Zone performs all instant <-> civil-calendar conversions for one fixed IANA timezone.
// The UTC offset varies by date (DST), so every conversion goes through the location
// rather than a fixed offset. A Zone is immutable and safe for concurrent use.
type Zone struct {
	loc *time.Location
}

// NewZone wraps an already loaded location
func NewZone(loc *time.Location) *Zone {
	if loc == nil {
		loc = time.UTC
	}
	return &Zone{loc: loc}
}

// LoadZone loads the named IANA timezone (e.g. "Europe/Paris")
func LoadZone(name string) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return NewZone(loc), nil
}

// Location returns the underlying location
func (z *Zone) Location() *time.Location {
	return z.loc
}

// DayKey projects an instant onto its local calendar date.
// Two instants share a key iff they fall on the same local day, whatever zone they carry.
func (z *Zone) DayKey(t time.Time) Date {
	local := t.In(z.loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Midnight returns the instant of local midnight starting the given date.
// On the rare zones that skip midnight for DST, this is the first instant of the day.
func (z *Zone) Midnight(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, z.loc)
}

// SetTimeOfDay returns the instant at the given local wall-clock decimal hour on d (7.5 = 07:30).
// Hours are resolved to the nearest second.
func (z *Zone) SetTimeOfDay(d Date, hour float64) time.Time {
	secs := int(math.Round(hour * 3600))
	return time.Date(d.Year, d.Month, d.Day, 0, 0, secs, 0, z.loc)
}

// HourOfDay returns the local wall-clock time of t as a decimal hour
func (z *Zone) HourOfDay(t time.Time) float64 {
	local := t.In(z.loc)
	return float64(local.Hour()) +
		float64(local.Minute())/60 +
		float64(local.Second())/3600 +
		float64(local.Nanosecond())/3600e9
}

// HasMeaningfulTime reports whether t carries a real time-of-day.
// Exact local midnight and local 23:59:59 are the two "no time specified" sentinels.
func (z *Zone) HasMeaningfulTime(t time.Time) bool {
	local := t.In(z.loc)
	h, m, s := local.Clock()
	if h == 0 && m == 0 && s == 0 && local.Nanosecond() == 0 {
		return false
	}
	if h == 23 && m == 59 && s == 59 {
		return false
	}
	return true
}

// ElapsedHours returns the exact signed difference to-from in decimal hours
func ElapsedHours(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}
