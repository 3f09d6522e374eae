package conflicts

import (
	"github.com/jakechorley/capacity-planner/pkg/core/capacity"
	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// CapacityRule flags a day whose TASK hours strictly exceed the worker's net capacity.
// Capacity is recomputed from the worker's schedule with no deadline restriction.
type CapacityRule struct{}

func (CapacityRule) Kind() model.ConflictKind {
	return model.ConflictCapacityExceeded
}

func (r CapacityRule) Evaluate(ev *Evaluation) *model.Conflict {
	if ev.Worker == nil {
		return nil
	}

	netCapacity := ev.Zone.NetCapacity(ev.Worker.Schedule, ev.Allocation.Day, nil)
	used := capacity.TaskHours(ev.DayAllocations)
	if used <= netCapacity+capacity.Tolerance {
		return nil
	}

	schedule := ev.Worker.Schedule
	c := ev.conflict(r.Kind(), "Worker %s has %.2fh of tasks on %s but only %.2fh of capacity (%s)",
		ev.Worker.ID, used, ev.Allocation.Day, netCapacity, schedule)
	c.Context.Capacity = netCapacity
	c.Context.HoursUsed = used
	c.Context.Schedule = &schedule
	return c
}
