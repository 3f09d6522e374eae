package suggestions

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jakechorley/capacity-planner/pkg/core/capacity"
	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// openDay is one working day with spare capacity for a worker
type openDay struct {
	day       timemodel.Date
	available float64
	windows   []timemodel.TimeRange
	taskIDs   map[string]bool
}

// availability is what a worker can still absorb between now and a deadline
type availability struct {
	worker model.Worker
	days   []openDay
	total  float64
}

// deadlineWindow is the range of days a task's hours may still be placed in
type deadlineWindow struct {
	from, to timemodel.Date

	// now is when the search starts; time before it on the first day is never offered
	now time.Time

	// cap restricts capacity on the last day; nil when the deadline carries no time-of-day
	cap *time.Time

	// end is the instant the task is due; the end of the deadline day for date-only deadlines
	end time.Time
}

func (e *Engine) windowFor(task model.Task) deadlineWindow {
	deadlineDay := e.zone.DayKey(task.Deadline)
	now := e.now()
	w := deadlineWindow{
		from: e.zone.DayKey(now),
		to:   deadlineDay,
		now:  now,
		end:  e.zone.Midnight(deadlineDay.AddDays(1)),
	}
	if e.zone.HasMeaningfulTime(task.Deadline) {
		deadline := task.Deadline
		w.cap = &deadline
		w.end = deadline
	}
	if limit := w.from.AddDays(e.cfg.HorizonDays - 1); w.to.After(limit) {
		w.to = limit
	}
	return w
}

// expired reports whether the deadline is already behind the search start
func (w deadlineWindow) expired() bool {
	return !w.end.After(w.now)
}

// availabilityFor scans every working day in window and sums the worker's spare hours.
// On the first day only the time left after now counts.
func (e *Engine) availabilityFor(ctx context.Context, worker model.Worker, window deadlineWindow) (*availability, error) {
	a := &availability{worker: worker}
	if window.expired() {
		return a, nil
	}

	for day := window.from; !day.After(window.to); day = day.AddDays(1) {
		if !e.calendar.IsWorkingDay(day) {
			continue
		}

		dc, err := e.calc.ForDay(ctx, worker, day, window.cap)
		if err != nil {
			return nil, fmt.Errorf("failed to compute capacity for %s on %s: %w", worker.ID, day, err)
		}
		available := dc.Available
		if day == window.from {
			left := e.zone.RangeNetHours(window.now, e.zone.EffectiveEnd(worker.Schedule, day, window.cap), true)
			available = math.Min(available, left)
		}
		if available <= capacity.Tolerance {
			continue
		}

		taskIDs := make(map[string]bool)
		for _, alloc := range dc.Allocations {
			if alloc.Kind == model.KindTask && alloc.TaskID != "" {
				taskIDs[alloc.TaskID] = true
			}
		}

		windows := dc.FreeWindows(worker.Schedule)
		if window.cap != nil && day == e.zone.DayKey(*window.cap) {
			windows = clip(windows, timemodel.TimeRange{
				Start: timemodel.TimeOfDayFromHours(e.zone.HourOfDay(*window.cap)),
				End:   timemodel.MinutesPerDay,
			})
		}
		if day == window.from {
			windows = clip(windows, timemodel.TimeRange{
				Start: 0,
				End:   timemodel.TimeOfDayFromHours(e.zone.HourOfDay(window.now)),
			})
		}

		a.days = append(a.days, openDay{
			day:       day,
			available: available,
			windows:   windows,
			taskIDs:   taskIDs,
		})
		a.total += available
	}

	return a, nil
}

// covers reports whether the worker can absorb needed hours in total
func (a *availability) covers(needed float64) bool {
	return a.total+capacity.Tolerance >= needed
}

// pick fills needed hours earliest day first, never taking more than a day has free
func (a *availability) pick(needed float64) ([]model.Slot, []openDay) {
	var slots []model.Slot
	var used []openDay
	remaining := needed

	for _, d := range a.days {
		if remaining <= capacity.Tolerance {
			break
		}
		hours := d.available
		if hours > remaining {
			hours = remaining
		}
		slots = append(slots, model.Slot{
			WorkerID:  a.worker.ID,
			Day:       d.day,
			Hours:     hours,
			Available: d.available,
			Windows:   d.windows,
		})
		used = append(used, d)
		remaining -= hours
	}

	return slots, used
}

// clip drops the parts of windows that fall inside cut
func clip(windows []timemodel.TimeRange, cut timemodel.TimeRange) []timemodel.TimeRange {
	if cut.End <= cut.Start {
		return windows
	}
	var clipped []timemodel.TimeRange
	for _, w := range windows {
		clipped = append(clipped, w.Subtract([]timemodel.TimeRange{cut})...)
	}
	return clipped
}
