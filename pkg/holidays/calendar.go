package holidays

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// Rule names a recurring non-working day, e.g. {Name: "Christmas", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"}
type Rule struct {
	Name  string
	RRule string
}

type holiday struct {
	name string
	rule *rrule.RRule
}

// Calendar answers whether a calendar date is a holiday or a working day.
// It is built once at startup and never modified, so it is safe for concurrent use.
type Calendar struct {
	zone        *timemodel.Zone
	holidays    []holiday
	workingDays map[time.Weekday]bool
}

// rules without a DTSTART recur from this date
var anchor = timemodel.NewDate(2000, time.January, 1)

// DefaultWorkingDays is Monday to Friday
var DefaultWorkingDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// NewCalendar parses every rule. An empty workingDays means DefaultWorkingDays.
func NewCalendar(zone *timemodel.Zone, rules []Rule, workingDays []time.Weekday) (*Calendar, error) {
	if len(workingDays) == 0 {
		workingDays = DefaultWorkingDays
	}

	c := &Calendar{
		zone:        zone,
		holidays:    make([]holiday, 0, len(rules)),
		workingDays: make(map[time.Weekday]bool, len(workingDays)),
	}
	for _, d := range workingDays {
		c.workingDays[d] = true
	}

	for i, r := range rules {
		rule, err := rrule.StrToRRule(r.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for holiday %d (%s): %w", i, r.Name, err)
		}
		if rule.OrigOptions.Dtstart.IsZero() {
			rule.DTStart(zone.Midnight(anchor))
		}
		c.holidays = append(c.holidays, holiday{name: r.Name, rule: rule})
	}

	return c, nil
}

// IsHoliday returns the name of the first rule with an occurrence on d
func (c *Calendar) IsHoliday(d timemodel.Date) (string, bool) {
	if c == nil {
		return "", false
	}
	from := c.zone.Midnight(d)
	to := c.zone.Midnight(d.AddDays(1)).Add(-time.Second)
	for _, h := range c.holidays {
		if len(h.rule.Between(from, to, true)) > 0 {
			return h.name, true
		}
	}
	return "", false
}

// IsWorkingDay reports whether d falls on a working weekday and is not a holiday.
// A nil calendar treats every day as a working day.
func (c *Calendar) IsWorkingDay(d timemodel.Date) bool {
	if c == nil {
		return true
	}
	if !c.workingDays[d.Weekday()] {
		return false
	}
	_, holiday := c.IsHoliday(d)
	return !holiday
}

// ParseWeekday accepts full or three-letter English weekday names and RRULE codes (MO, TU...),
// case-insensitively
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := d.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) || strings.EqualFold(name, full[:2]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
