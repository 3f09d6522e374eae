package capacity

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
)

// Status is the coarse availability bucket of a worker's day
type Status string

const (
	StatusFull       Status = "FULL"
	StatusNearlyFull Status = "NEARLY_FULL"
	StatusOpen       Status = "OPEN"
)

const (
	// Tolerance absorbs float noise when comparing hour sums against capacity
	Tolerance = 1e-6

	// NearlyFullRatio is the share of capacity above which a day is NEARLY_FULL
	NearlyFullRatio = 0.8
)

// DayCapacity is the capacity picture of one worker on one calendar day
type DayCapacity struct {
	WorkerID  string
	Day       timemodel.Date
	Capacity  float64
	Used      float64
	Available float64
	Status    Status

	// Allocations holds every allocation (tasks and blocks) recorded for the day
	Allocations []model.Allocation
}

// Calculator derives day capacity from a worker's schedule and recorded allocations.
// It only reads storage.
type Calculator struct {
	zone        *timemodel.Zone
	allocations db.AllocationReader
}

// NewCalculator creates a Calculator
func NewCalculator(zone *timemodel.Zone, allocations db.AllocationReader) *Calculator {
	return &Calculator{
		zone:        zone,
		allocations: allocations,
	}
}

// Zone returns the zone the calculator works in
func (c *Calculator) Zone() *timemodel.Zone {
	return c.zone
}

// ForDay computes used, remaining and bucketed capacity for worker on day.
// deadline, when non-nil, restricts the day's net capacity (see Zone.NetCapacity).
func (c *Calculator) ForDay(ctx context.Context, worker model.Worker, day timemodel.Date, deadline *time.Time) (*DayCapacity, error) {
	allocations, err := c.allocations.GetAllocationsFor(ctx, worker.ID, day, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for worker %s on %s: %w", worker.ID, day, err)
	}

	used := TaskHours(allocations)
	capacity := c.zone.NetCapacity(worker.Schedule, day, deadline)

	return &DayCapacity{
		WorkerID:    worker.ID,
		Day:         day,
		Capacity:    capacity,
		Used:        used,
		Available:   math.Max(capacity-used, 0),
		Status:      Classify(used, capacity),
		Allocations: allocations,
	}, nil
}

// WouldExceed reports whether adding extraHours of task work on day would push the
// worker past net capacity. Used by write-time callers before committing an allocation.
func (c *Calculator) WouldExceed(ctx context.Context, worker model.Worker, day timemodel.Date, extraHours float64) (bool, error) {
	dc, err := c.ForDay(ctx, worker, day, nil)
	if err != nil {
		return false, err
	}
	return dc.Used+extraHours > dc.Capacity+Tolerance, nil
}

// Classify buckets used hours against capacity
func Classify(used, capacity float64) Status {
	switch {
	case used >= capacity-Tolerance:
		return StatusFull
	case used >= NearlyFullRatio*capacity-Tolerance:
		return StatusNearlyFull
	default:
		return StatusOpen
	}
}

// TaskHours sums the hours of TASK allocations, ignoring blocks
func TaskHours(allocations []model.Allocation) float64 {
	total := 0.0
	for _, a := range allocations {
		if a.Kind == model.KindTask {
			total += a.Hours
		}
	}
	return total
}

// FreeWindows returns the parts of the schedule window on this day that are not taken
// by the midday interval or by any timed allocation (task or block)
func (d *DayCapacity) FreeWindows(schedule timemodel.Schedule) []timemodel.TimeRange {
	cut := []timemodel.TimeRange{timemodel.Midday}
	for _, a := range d.Allocations {
		if a.HasTimes() {
			cut = append(cut, a.Interval())
		}
	}
	return schedule.Window().Subtract(cut)
}
