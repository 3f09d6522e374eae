package model

import (
	"time"

	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// ConflictKind identifies which scheduling rule was violated
type ConflictKind string

const (
	ConflictOverlapWithBlock  ConflictKind = "OVERLAP_WITH_BLOCK"
	ConflictCapacityExceeded  ConflictKind = "CAPACITY_EXCEEDED"
	ConflictOutsideSchedule   ConflictKind = "OUTSIDE_SCHEDULE"
	ConflictLunchEncroachment ConflictKind = "LUNCH_ENCROACHMENT"
	ConflictPastDeadline      ConflictKind = "PAST_DEADLINE"
)

// AllConflictKinds lists every kind in rule evaluation order
var AllConflictKinds = []ConflictKind{
	ConflictOverlapWithBlock,
	ConflictCapacityExceeded,
	ConflictOutsideSchedule,
	ConflictLunchEncroachment,
	ConflictPastDeadline,
}

// Conflict is a computed, never-persisted violation of one rule by one allocation
type Conflict struct {
	ID           string          `json:"id" yaml:"id"`
	Kind         ConflictKind    `json:"kind" yaml:"kind"`
	AllocationID string          `json:"allocationId" yaml:"allocationId"`
	TaskID       string          `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	WorkerID     string          `json:"workerId" yaml:"workerId"`
	Day          timemodel.Date  `json:"day" yaml:"day"`
	Hours        float64         `json:"hours" yaml:"hours"`
	Message      string          `json:"message" yaml:"message"`
	Context      ConflictContext `json:"context" yaml:"context"`
}

// ConflictContext carries the numbers a conflict was judged on; unset fields are zero/nil
type ConflictContext struct {
	Capacity  float64              `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	HoursUsed float64              `json:"hoursUsed,omitempty" yaml:"hoursUsed,omitempty"`
	Schedule  *timemodel.Schedule  `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Interval  *timemodel.TimeRange `json:"interval,omitempty" yaml:"interval,omitempty"`
	Deadline  *time.Time           `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	BlockID   string               `json:"blockId,omitempty" yaml:"blockId,omitempty"`
}

// SuggestionKind identifies the shape of a proposed correction
type SuggestionKind string

const (
	SuggestionLocalRepair  SuggestionKind = "LOCAL_REPAIR"
	SuggestionReassignment SuggestionKind = "REASSIGNMENT"
	SuggestionImpossible   SuggestionKind = "IMPOSSIBLE"
)

// ImpactBucket is the coarse disruption class of an ImpactScore
type ImpactBucket string

const (
	ImpactLow      ImpactBucket = "LOW"
	ImpactModerate ImpactBucket = "MODERATE"
	ImpactHigh     ImpactBucket = "HIGH"
)

// Slot is a proposed day for re-placing conflicting hours
type Slot struct {
	WorkerID  string                `json:"workerId" yaml:"workerId"`
	Day       timemodel.Date        `json:"day" yaml:"day"`
	Hours     float64               `json:"hours" yaml:"hours"`
	Available float64               `json:"available" yaml:"available"`
	Windows   []timemodel.TimeRange `json:"windows,omitempty" yaml:"windows,omitempty"`
}

// Candidate is an alternate worker able to absorb the conflicting hours
type Candidate struct {
	WorkerID   string  `json:"workerId" yaml:"workerId"`
	WorkerName string  `json:"workerName" yaml:"workerName"`
	Available  float64 `json:"available" yaml:"available"`
	Score      float64 `json:"score" yaml:"score"`
	Slots      []Slot  `json:"slots" yaml:"slots"`
}

// ImpactBreakdown holds the weighted, individually capped terms of an ImpactScore
type ImpactBreakdown struct {
	HoursMoved    float64 `json:"hoursMoved" yaml:"hoursMoved"`
	ExtraTasks    float64 `json:"extraTasks" yaml:"extraTasks"`
	WorkerChange  float64 `json:"workerChange" yaml:"workerChange"`
	DeadlineRisk  float64 `json:"deadlineRisk" yaml:"deadlineRisk"`
	Fragmentation float64 `json:"fragmentation" yaml:"fragmentation"`
}

// ImpactScore is a bounded [0,100] disruption estimate
type ImpactScore struct {
	Total         float64         `json:"total" yaml:"total"`
	Bucket        ImpactBucket    `json:"bucket" yaml:"bucket"`
	Breakdown     ImpactBreakdown `json:"breakdown" yaml:"breakdown"`
	Justification string          `json:"justification" yaml:"justification"`
}

// Suggestion is a non-binding, scored proposal resolving one or more conflicts
type Suggestion struct {
	ID          string         `json:"id" yaml:"id"`
	Kind        SuggestionKind `json:"kind" yaml:"kind"`
	TaskID      string         `json:"taskId" yaml:"taskId"`
	ConflictIDs []string       `json:"conflictIds" yaml:"conflictIds"`
	Slots       []Slot         `json:"slots,omitempty" yaml:"slots,omitempty"`
	Candidates  []Candidate    `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Impact      ImpactScore    `json:"impact" yaml:"impact"`
	Description string         `json:"description" yaml:"description"`
}

// Report is the combined detection and suggestion output for one block
type Report struct {
	Trigger     Allocation   `json:"trigger" yaml:"trigger"`
	Conflicts   []Conflict   `json:"conflicts" yaml:"conflicts"`
	Suggestions []Suggestion `json:"suggestions" yaml:"suggestions"`
	GeneratedAt time.Time    `json:"generatedAt" yaml:"generatedAt"`
}
