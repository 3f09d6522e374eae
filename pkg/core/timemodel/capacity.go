package timemodel

import (
	"math"
	"time"
)

// NetCapacity returns the schedule window's length on day minus its real overlap with
// the midday interval.
//
// When deadline is non-nil and falls on day, the window is cut at the earlier of the
// schedule end and the deadline's local time; a deadline at or before the schedule start
// leaves no capacity. A deadline on another day, or after the schedule end, is ignored.
func (z *Zone) NetCapacity(s Schedule, day Date, deadline *time.Time) float64 {
	start, end := s.StartHour, s.EndHour

	if deadline != nil && z.DayKey(*deadline) == day {
		dh := z.HourOfDay(*deadline)
		if dh <= start {
			return 0
		}
		end = math.Min(end, dh)
	}

	net := (end - start) - MiddayOverlap(start, end)
	return math.Max(net, 0)
}

// EffectiveEnd returns the instant work must stop on day: the schedule end, or a
// same-day deadline if that comes first.
func (z *Zone) EffectiveEnd(s Schedule, day Date, deadline *time.Time) time.Time {
	scheduleEnd := z.SetTimeOfDay(day, s.EndHour)
	if deadline != nil && z.DayKey(*deadline) == day && deadline.Before(scheduleEnd) {
		return *deadline
	}
	return scheduleEnd
}

// RangeNetHours returns the elapsed hours between from and to, minus each spanned
// day's own overlap with [12:00, 13:00) when subtractLunch is set.
// A non-positive span yields 0.
func (z *Zone) RangeNetHours(from, to time.Time, subtractLunch bool) float64 {
	raw := ElapsedHours(from, to)
	if raw <= 0 {
		return 0
	}
	if !subtractLunch {
		return raw
	}

	lunch := 0.0
	last := z.DayKey(to)
	for day := z.DayKey(from); !day.After(last); day = day.AddDays(1) {
		lunchStart := z.SetTimeOfDay(day, MiddayStartHour)
		lunchEnd := z.SetTimeOfDay(day, MiddayEndHour)

		overlapStart := laterOf(from, lunchStart)
		overlapEnd := earlierOf(to, lunchEnd)
		if overlapEnd.After(overlapStart) {
			lunch += ElapsedHours(overlapStart, overlapEnd)
		}
	}

	return math.Max(raw-lunch, 0)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
