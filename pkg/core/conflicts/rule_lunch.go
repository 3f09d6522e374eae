package conflicts

import (
	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// LunchRule flags a timed allocation intersecting the unpaid [12:00, 13:00) interval
type LunchRule struct{}

func (LunchRule) Kind() model.ConflictKind {
	return model.ConflictLunchEncroachment
}

func (r LunchRule) Evaluate(ev *Evaluation) *model.Conflict {
	interval := ev.interval()
	if interval == nil || !interval.Overlaps(timemodel.Midday) {
		return nil
	}

	c := ev.conflict(r.Kind(), "Allocation %s (%s) encroaches %.2fh on the midday break (%s)",
		ev.Allocation.ID, interval, interval.Intersection(timemodel.Midday), timemodel.Midday)
	c.Context.Interval = interval
	return c
}
