package model

import (
	"time"

	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// AllocationKind distinguishes committed work from declared unavailability
type AllocationKind string

const (
	KindTask  AllocationKind = "TASK"
	KindBlock AllocationKind = "BLOCK"
)

func (k AllocationKind) IsValid() bool {
	return k == KindTask || k == KindBlock
}

// Worker is a person whose calendar day is being scheduled.
// Schedule is parsed from the stored text once, at the storage boundary.
type Worker struct {
	ID            string
	Name          string
	DailyCapacity float64
	Schedule      timemodel.Schedule
	ScheduleText  string
	Active        bool
}

// Allocation is a recorded consumption of a worker's day, either task work or a block.
// Start and End are nil when no time-of-day was recorded.
type Allocation struct {
	ID       string               `json:"id" yaml:"id"`
	WorkerID string               `json:"workerId" yaml:"workerId"`
	Day      timemodel.Date       `json:"day" yaml:"day"`
	Hours    float64              `json:"hours" yaml:"hours"`
	Start    *timemodel.TimeOfDay `json:"start,omitempty" yaml:"start,omitempty"`
	End      *timemodel.TimeOfDay `json:"end,omitempty" yaml:"end,omitempty"`
	Kind     AllocationKind       `json:"kind" yaml:"kind"`
	TaskID   string               `json:"taskId,omitempty" yaml:"taskId,omitempty"` // empty when not linked to a task
}

// HasTimes reports whether both a start and an end time-of-day were recorded
func (a Allocation) HasTimes() bool {
	return a.Start != nil && a.End != nil
}

// Interval returns the allocation's time-of-day range; only meaningful when HasTimes is true
func (a Allocation) Interval() timemodel.TimeRange {
	if !a.HasTimes() {
		return timemodel.TimeRange{}
	}
	return timemodel.TimeRange{Start: *a.Start, End: *a.End}
}

// Task is a unit of committed work with a total hour budget and a deadline
type Task struct {
	ID         string
	Name       string
	WorkerID   string
	TotalHours float64
	Deadline   time.Time
}
