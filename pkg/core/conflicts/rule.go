package conflicts

import (
	"fmt"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// Rule evaluates one scheduling constraint against one TASK allocation.
// Rules are independent of each other: every rule is evaluated for every allocation,
// and each yields at most one conflict per allocation.
type Rule interface {
	// Kind returns the conflict kind this rule produces
	Kind() model.ConflictKind

	// Evaluate returns the conflict raised by ev.Allocation, or nil.
	// A rule whose inputs could not be resolved (missing worker or task) returns nil.
	Evaluate(ev *Evaluation) *model.Conflict
}

// DefaultRules returns the five built-in rules in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		OverlapRule{},
		CapacityRule{},
		OutsideScheduleRule{},
		LunchRule{},
		DeadlineRule{},
	}
}

// Evaluation is the point-in-time view a rule judges an allocation against
type Evaluation struct {
	Zone       *timemodel.Zone
	Allocation model.Allocation

	// Worker is nil when the allocation's worker could not be found
	Worker *model.Worker

	// Task is nil when the allocation has no task reference or the task could not be found
	Task *model.Task

	// DayAllocations holds every allocation (tasks and blocks) of the worker on the allocation's day
	DayAllocations []model.Allocation

	// Blocks are the blocks the allocation is checked against for overlap
	Blocks []model.Allocation

	// Notices collects ambiguous cases that are surfaced for visibility but are not conflicts
	Notices []Notice
}

// Notice records a case a rule could not judge either way
type Notice struct {
	Kind         model.ConflictKind
	AllocationID string
	TaskID       string
	Message      string
}

func (ev *Evaluation) conflict(kind model.ConflictKind, format string, args ...any) *model.Conflict {
	return &model.Conflict{
		Kind:         kind,
		AllocationID: ev.Allocation.ID,
		TaskID:       ev.Allocation.TaskID,
		WorkerID:     ev.Allocation.WorkerID,
		Day:          ev.Allocation.Day,
		Hours:        ev.Allocation.Hours,
		Message:      fmt.Sprintf(format, args...),
	}
}

func (ev *Evaluation) notice(kind model.ConflictKind, format string, args ...any) {
	ev.Notices = append(ev.Notices, Notice{
		Kind:         kind,
		AllocationID: ev.Allocation.ID,
		TaskID:       ev.Allocation.TaskID,
		Message:      fmt.Sprintf(format, args...),
	})
}

func (ev *Evaluation) interval() *timemodel.TimeRange {
	if !ev.Allocation.HasTimes() {
		return nil
	}
	r := ev.Allocation.Interval()
	return &r
}
