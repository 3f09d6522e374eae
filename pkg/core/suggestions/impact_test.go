package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

func TestCalculateImpact(t *testing.T) {
	tests := []struct {
		name      string
		input     ImpactInput
		breakdown model.ImpactBreakdown
		total     float64
		bucket    model.ImpactBucket
	}{
		{
			name:      "small local move with comfortable margin",
			input:     ImpactInput{HoursMoved: 1, TaskCount: 1, MarginHours: 100, SlotCount: 1},
			breakdown: model.ImpactBreakdown{HoursMoved: 2, DeadlineRisk: 5},
			total:     7,
			bucket:    model.ImpactLow,
		},
		{
			name:      "hours term rounds half hours",
			input:     ImpactInput{HoursMoved: 2.25, TaskCount: 1, MarginHours: 100, SlotCount: 1},
			breakdown: model.ImpactBreakdown{HoursMoved: 5, DeadlineRisk: 5},
			total:     10,
			bucket:    model.ImpactLow,
		},
		{
			name:      "reassignment within a day of the deadline",
			input:     ImpactInput{HoursMoved: 3, TaskCount: 2, Reassignment: true, MarginHours: 10, SlotCount: 2},
			breakdown: model.ImpactBreakdown{HoursMoved: 6, ExtraTasks: 5, WorkerChange: 15, DeadlineRisk: 15, Fragmentation: 5},
			total:     46,
			bucket:    model.ImpactModerate,
		},
		{
			name:      "every term at its cap",
			input:     ImpactInput{HoursMoved: 40, TaskCount: 12, Reassignment: true, MarginHours: 0, SlotCount: 9},
			breakdown: model.ImpactBreakdown{HoursMoved: 20, ExtraTasks: 20, WorkerChange: 15, DeadlineRisk: 30, Fragmentation: 15},
			total:     100,
			bucket:    model.ImpactHigh,
		},
		{
			name:      "zero inputs",
			input:     ImpactInput{MarginHours: 24},
			breakdown: model.ImpactBreakdown{DeadlineRisk: 5},
			total:     5,
			bucket:    model.ImpactLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := CalculateImpact(tt.input)
			assert.Equal(t, tt.breakdown, score.Breakdown)
			assert.Equal(t, tt.total, score.Total)
			assert.Equal(t, tt.bucket, score.Bucket)
			assert.NotEmpty(t, score.Justification)
		})
	}
}

func TestCalculateImpact_TermCaps(t *testing.T) {
	assert.Equal(t, maxTotal, maxHoursMoved+maxExtraTasks+workerChangeCost+riskTight+maxFragmentation)

	tests := []struct {
		tasks, slots          int
		extraTasks, fragments float64
	}{
		{tasks: 4, slots: 3, extraTasks: 15, fragments: 10},
		{tasks: 5, slots: 4, extraTasks: 20, fragments: 15},
		{tasks: 6, slots: 5, extraTasks: 20, fragments: 15},
		{tasks: 30, slots: 30, extraTasks: 20, fragments: 15},
	}

	for _, tt := range tests {
		score := CalculateImpact(ImpactInput{TaskCount: tt.tasks, SlotCount: tt.slots, MarginHours: 100})
		assert.Equal(t, tt.extraTasks, score.Breakdown.ExtraTasks, "tasks=%d", tt.tasks)
		assert.Equal(t, tt.fragments, score.Breakdown.Fragmentation, "slots=%d", tt.slots)
	}
}

func TestCalculateImpact_TotalAlwaysBounded(t *testing.T) {
	for hours := 0.0; hours <= 30; hours += 1.5 {
		for tasks := 0; tasks <= 8; tasks++ {
			for slots := 0; slots <= 6; slots++ {
				for _, margin := range []float64{-5, 0, 7.9, 8, 23.9, 24, 500} {
					for _, reassign := range []bool{false, true} {
						score := CalculateImpact(ImpactInput{
							HoursMoved:   hours,
							TaskCount:    tasks,
							Reassignment: reassign,
							MarginHours:  margin,
							SlotCount:    slots,
						})
						assert.GreaterOrEqual(t, score.Total, 0.0)
						assert.LessOrEqual(t, score.Total, 100.0)
						assert.Equal(t, BucketFor(score.Total), score.Bucket)
					}
				}
			}
		}
	}
}

func TestCalculateImpact_JustificationNamesNonZeroTerms(t *testing.T) {
	score := CalculateImpact(ImpactInput{HoursMoved: 2, TaskCount: 1, Reassignment: true, MarginHours: 4, SlotCount: 1})

	assert.Contains(t, score.Justification, "moves 2.0h")
	assert.Contains(t, score.Justification, "changes worker")
	assert.Contains(t, score.Justification, "margin")
	assert.NotContains(t, score.Justification, "other task")
	assert.NotContains(t, score.Justification, "split across")
}

func TestImpossibleImpact(t *testing.T) {
	score := ImpossibleImpact(3, 1)

	assert.Equal(t, 100.0, score.Total)
	assert.Equal(t, model.ImpactHigh, score.Bucket)
	assert.Contains(t, score.Justification, "3.0h")
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		total float64
		want  model.ImpactBucket
	}{
		{0, model.ImpactLow},
		{30, model.ImpactLow},
		{30.5, model.ImpactModerate},
		{60, model.ImpactModerate},
		{61, model.ImpactHigh},
		{100, model.ImpactHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.total), "total %.1f", tt.total)
	}
}
