package conflicts

import (
	"sort"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// OverlapRule flags a timed allocation that intersects a timed block of the same worker and day.
//
// Both sides must carry a start and an end; without times no verdict is given.
// Intervals are half-open, so back-to-back ranges do not overlap.
// When several blocks overlap, the earliest one is referenced.
type OverlapRule struct{}

func (OverlapRule) Kind() model.ConflictKind {
	return model.ConflictOverlapWithBlock
}

func (r OverlapRule) Evaluate(ev *Evaluation) *model.Conflict {
	if !ev.Allocation.HasTimes() {
		return nil
	}
	interval := ev.Allocation.Interval()

	var overlapping []model.Allocation
	for _, block := range ev.Blocks {
		if block.Kind != model.KindBlock || !block.HasTimes() {
			continue
		}
		if block.WorkerID != ev.Allocation.WorkerID || block.Day != ev.Allocation.Day {
			continue
		}
		if interval.Overlaps(block.Interval()) {
			overlapping = append(overlapping, block)
		}
	}
	if len(overlapping) == 0 {
		return nil
	}

	sort.Slice(overlapping, func(i, j int) bool {
		if *overlapping[i].Start != *overlapping[j].Start {
			return *overlapping[i].Start < *overlapping[j].Start
		}
		return overlapping[i].ID < overlapping[j].ID
	})
	block := overlapping[0]
	blockInterval := block.Interval()

	c := ev.conflict(r.Kind(), "Allocation %s (%s) overlaps block %s (%s) on %s",
		ev.Allocation.ID, interval, block.ID, blockInterval, ev.Allocation.Day)
	if len(overlapping) > 1 {
		c.Message += " and other blocks"
	}
	c.Context.Interval = &interval
	c.Context.BlockID = block.ID
	return c
}
