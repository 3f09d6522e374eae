package conflicts

import (
	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// DeadlineTolerance is how far, in hours, an allocation may end past a same-day deadline
const DeadlineTolerance = 0.01

// DeadlineRule flags work scheduled after its task's deadline.
//
//   - Allocation day after the deadline day: conflict.
//   - Same day, deadline with a meaningful time, allocation with an end time:
//     conflict when the end is more than DeadlineTolerance past the deadline.
//   - Same day, deadline with a meaningful time, allocation without times:
//     no conflict; a notice is raised instead.
type DeadlineRule struct{}

func (DeadlineRule) Kind() model.ConflictKind {
	return model.ConflictPastDeadline
}

func (r DeadlineRule) Evaluate(ev *Evaluation) *model.Conflict {
	if ev.Task == nil {
		return nil
	}

	deadline := ev.Task.Deadline
	deadlineDay := ev.Zone.DayKey(deadline)
	day := ev.Allocation.Day

	if day.After(deadlineDay) {
		c := ev.conflict(r.Kind(), "Allocation %s on %s is after task %s's deadline day %s",
			ev.Allocation.ID, day, ev.Task.ID, deadlineDay)
		c.Context.Deadline = &deadline
		return c
	}

	if day != deadlineDay || !ev.Zone.HasMeaningfulTime(deadline) {
		return nil
	}

	deadlineHour := ev.Zone.HourOfDay(deadline)
	if ev.Allocation.End == nil {
		ev.notice(r.Kind(), "Allocation %s has no time-of-day but task %s is due at %s on the same day",
			ev.Allocation.ID, ev.Task.ID, ev.Zone.FormatTimestamp(deadline))
		return nil
	}

	end := ev.Allocation.End.Hours()
	if end <= deadlineHour+DeadlineTolerance {
		return nil
	}

	c := ev.conflict(r.Kind(), "Allocation %s ends at %s, after task %s's deadline %s",
		ev.Allocation.ID, ev.Allocation.End, ev.Task.ID, ev.Zone.FormatTimestamp(deadline))
	c.Context.Deadline = &deadline
	c.Context.Interval = ev.interval()
	return c
}
