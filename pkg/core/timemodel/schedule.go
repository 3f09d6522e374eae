package timemodel

import (
	"regexp"
	"strings"
)

// Schedule is a worker's daily work window in local decimal hours (7.5 = 07:30)
type Schedule struct {
	StartHour float64 `json:"startHour" yaml:"startHour"`
	EndHour   float64 `json:"endHour" yaml:"endHour"`
}

// DefaultSchedule is the 9h-17h window used whenever a schedule is missing or unparseable
func DefaultSchedule() Schedule {
	return Schedule{StartHour: 9, EndHour: 17}
}

var schedulePattern = regexp.MustCompile(`^\s*` + clockPiece + `\s*-\s*` + clockPiece + `\s*$`)

// ParseSchedule parses "7h30-15h30", "9h-17h", "09:00-17:00" and mixed forms.
// Empty or unparseable text yields DefaultSchedule; it never fails.
func ParseSchedule(text string) Schedule {
	return ParseScheduleOr(text, DefaultSchedule())
}

// ParseScheduleOr is ParseSchedule with a caller-chosen fallback
func ParseScheduleOr(text string, fallback Schedule) Schedule {
	s, ok := TryParseSchedule(text)
	if !ok {
		return fallback
	}
	return s
}

// TryParseSchedule is ParseSchedule without the fallback; ok is false when text is
// empty, malformed, or describes an empty window.
func TryParseSchedule(text string) (Schedule, bool) {
	if strings.TrimSpace(text) == "" {
		return Schedule{}, false
	}
	m := schedulePattern.FindStringSubmatch(text)
	if m == nil {
		return Schedule{}, false
	}
	start, ok := clockFromMatch(m[1], m[2], m[3])
	if !ok {
		return Schedule{}, false
	}
	end, ok := clockFromMatch(m[4], m[5], m[6])
	if !ok || end <= start {
		return Schedule{}, false
	}
	return Schedule{StartHour: start.Hours(), EndHour: end.Hours()}, true
}

// FormatSchedule renders s as "7h30-15h30"
func FormatSchedule(s Schedule) string {
	return TimeOfDayFromHours(s.StartHour).String() + "-" + TimeOfDayFromHours(s.EndHour).String()
}

func (s Schedule) String() string {
	return FormatSchedule(s)
}

// Hours returns the raw window length
func (s Schedule) Hours() float64 {
	return s.EndHour - s.StartHour
}

// Window returns the schedule as a minute-resolution TimeRange
func (s Schedule) Window() TimeRange {
	return TimeRange{Start: TimeOfDayFromHours(s.StartHour), End: TimeOfDayFromHours(s.EndHour)}
}
