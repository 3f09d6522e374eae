package db

import (
	"fmt"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// WorkerRecord is a stored worker, with the schedule still in its textual form
type WorkerRecord struct {
	ID            string  `yaml:"id" validate:"required"`
	Name          string  `yaml:"name"`
	DailyCapacity float64 `yaml:"dailyCapacity" validate:"gte=0,lte=24"`
	Schedule      string  `yaml:"schedule"`
	Active        bool    `yaml:"active"`
}

// TaskRecord is a stored task; Deadline is an ISO-8601 timestamp or date
type TaskRecord struct {
	ID         string  `yaml:"id" validate:"required"`
	Name       string  `yaml:"name"`
	WorkerID   string  `yaml:"workerId" validate:"required"`
	TotalHours float64 `yaml:"totalHours" validate:"gte=0"`
	Deadline   string  `yaml:"deadline" validate:"required"`
}

// AllocationRecord is a stored allocation.
// Day is a date or a local-midnight timestamp; TimeStart/TimeEnd are free text like "10h30".
type AllocationRecord struct {
	ID        string  `yaml:"id" validate:"required"`
	WorkerID  string  `yaml:"workerId" validate:"required"`
	Day       string  `yaml:"day" validate:"required"`
	Hours     float64 `yaml:"hours" validate:"gte=0"`
	TimeStart string  `yaml:"timeStart,omitempty"`
	TimeEnd   string  `yaml:"timeEnd,omitempty"`
	Kind      string  `yaml:"kind" validate:"required,oneof=TASK BLOCK"`
	TaskID    string  `yaml:"taskId,omitempty"`
}

// ToModel converts the record, parsing the schedule once. It never fails:
// a missing or unparseable schedule becomes fallback.
func (r WorkerRecord) ToModel(fallback timemodel.Schedule) model.Worker {
	return model.Worker{
		ID:            r.ID,
		Name:          r.Name,
		DailyCapacity: r.DailyCapacity,
		Schedule:      timemodel.ParseScheduleOr(r.Schedule, fallback),
		ScheduleText:  r.Schedule,
		Active:        r.Active,
	}
}

// ToModel converts the record, strictly parsing the deadline in zone
func (r TaskRecord) ToModel(zone *timemodel.Zone) (model.Task, error) {
	deadline, err := zone.ParseTimestamp(fmt.Sprintf("task %s deadline", r.ID), r.Deadline)
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:         r.ID,
		Name:       r.Name,
		WorkerID:   r.WorkerID,
		TotalHours: r.TotalHours,
		Deadline:   deadline,
	}, nil
}

// ToModel converts the record, projecting Day onto a calendar date in zone and
// normalising the free-text times. Unparseable times are treated as absent.
func (r AllocationRecord) ToModel(zone *timemodel.Zone) (model.Allocation, error) {
	dayInstant, err := zone.ParseTimestamp(fmt.Sprintf("allocation %s day", r.ID), r.Day)
	if err != nil {
		return model.Allocation{}, err
	}
	start, end := ParseTimes(r.TimeStart, r.TimeEnd)
	return model.Allocation{
		ID:       r.ID,
		WorkerID: r.WorkerID,
		Day:      zone.DayKey(dayInstant),
		Hours:    r.Hours,
		Start:    start,
		End:      end,
		Kind:     model.AllocationKind(r.Kind),
		TaskID:   r.TaskID,
	}, nil
}

// ParseTimes normalises a stored start/end pair. Each side is nil when empty or unparseable.
func ParseTimes(startText, endText string) (*timemodel.TimeOfDay, *timemodel.TimeOfDay) {
	return parseOptionalTime(startText), parseOptionalTime(endText)
}

func parseOptionalTime(text string) *timemodel.TimeOfDay {
	t, ok := timemodel.ParseTimeOfDay(text)
	if !ok {
		return nil
	}
	return &t
}

// CloneAllocation returns a copy of a that shares no pointers with it
func CloneAllocation(a model.Allocation) model.Allocation {
	if a.Start != nil {
		start := *a.Start
		a.Start = &start
	}
	if a.End != nil {
		end := *a.End
		a.End = &end
	}
	return a
}
