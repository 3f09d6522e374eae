package conflicts

import (
	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// OutsideScheduleRule flags a timed allocation starting before or ending after the
// worker's schedule window. Untimed allocations are not judged.
type OutsideScheduleRule struct{}

func (OutsideScheduleRule) Kind() model.ConflictKind {
	return model.ConflictOutsideSchedule
}

func (r OutsideScheduleRule) Evaluate(ev *Evaluation) *model.Conflict {
	if ev.Worker == nil || !ev.Allocation.HasTimes() {
		return nil
	}

	schedule := ev.Worker.Schedule
	window := schedule.Window()
	interval := ev.Allocation.Interval()
	if interval.Start >= window.Start && interval.End <= window.End {
		return nil
	}

	c := ev.conflict(r.Kind(), "Allocation %s (%s) falls outside worker %s's schedule (%s)",
		ev.Allocation.ID, interval, ev.Worker.ID, timemodel.FormatSchedule(schedule))
	c.Context.Schedule = &schedule
	c.Context.Interval = &interval
	return c
}
