package suggestions

import (
	"fmt"
	"math"
	"strings"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// Impact term weights and caps.
//
// Every term has its own ceiling, extra tasks and fragmentation included, and the
// ceilings (20 + 20 + 15 + 30 + 15) add up to maxTotal.
const (
	maxHoursMoved    = 20
	perExtraTask     = 5
	maxExtraTasks    = 20 // reached at 5 tasks on the proposed days
	workerChangeCost = 15
	perExtraSlot     = 5
	maxFragmentation = 15 // reached at 4 slots

	riskTight    = 30 // margin under 8h
	riskShort    = 15 // margin under 24h
	riskBaseline = 5

	tightMarginHours = 8
	shortMarginHours = 24

	maxTotal = 100

	lowUpperBound      = 30
	moderateUpperBound = 60
)

// ImpactInput describes the disruption a suggestion would cause
type ImpactInput struct {
	// HoursMoved is the number of conflicting hours being re-placed
	HoursMoved float64

	// TaskCount counts the moved task plus every other task already booked on the proposed days
	TaskCount int

	// Reassignment is true when the work moves to another worker
	Reassignment bool

	// MarginHours is the net time left between the end of the last proposed slot and the deadline
	MarginHours float64

	// SlotCount is the number of separate days the hours are split across
	SlotCount int
}

// CalculateImpact scores a suggestion's disruption in [0,100]. Every term is capped on its own,
// then the sum is capped at 100.
func CalculateImpact(in ImpactInput) model.ImpactScore {
	b := model.ImpactBreakdown{
		HoursMoved:    math.Min(maxHoursMoved, math.Round(math.Max(in.HoursMoved, 0)*2)),
		ExtraTasks:    math.Min(maxExtraTasks, float64(max(in.TaskCount-1, 0)*perExtraTask)),
		DeadlineRisk:  deadlineRisk(in.MarginHours),
		Fragmentation: math.Min(maxFragmentation, float64(max(in.SlotCount-1, 0)*perExtraSlot)),
	}
	if in.Reassignment {
		b.WorkerChange = workerChangeCost
	}

	total := math.Min(maxTotal, b.HoursMoved+b.ExtraTasks+b.WorkerChange+b.DeadlineRisk+b.Fragmentation)

	return model.ImpactScore{
		Total:         total,
		Bucket:        BucketFor(total),
		Breakdown:     b,
		Justification: justify(in, b),
	}
}

// ImpossibleImpact is the fixed score of a suggestion that cannot be carried out
func ImpossibleImpact(neededHours, bestAvailable float64) model.ImpactScore {
	return model.ImpactScore{
		Total:  maxTotal,
		Bucket: model.ImpactHigh,
		Breakdown: model.ImpactBreakdown{
			HoursMoved:   math.Min(maxHoursMoved, math.Round(math.Max(neededHours, 0)*2)),
			DeadlineRisk: riskTight,
		},
		Justification: fmt.Sprintf("%.1fh cannot be placed before the deadline; at most %.1fh is free", neededHours, bestAvailable),
	}
}

// BucketFor classes a total score: LOW up to 30, MODERATE up to 60, HIGH above
func BucketFor(total float64) model.ImpactBucket {
	switch {
	case total <= lowUpperBound:
		return model.ImpactLow
	case total <= moderateUpperBound:
		return model.ImpactModerate
	default:
		return model.ImpactHigh
	}
}

func deadlineRisk(marginHours float64) float64 {
	switch {
	case marginHours < tightMarginHours:
		return riskTight
	case marginHours < shortMarginHours:
		return riskShort
	default:
		return riskBaseline
	}
}

func justify(in ImpactInput, b model.ImpactBreakdown) string {
	var parts []string
	if b.HoursMoved > 0 {
		parts = append(parts, fmt.Sprintf("moves %.1fh (+%.0f)", in.HoursMoved, b.HoursMoved))
	}
	if b.ExtraTasks > 0 {
		parts = append(parts, fmt.Sprintf("shares days with %d other task(s) (+%.0f)", in.TaskCount-1, b.ExtraTasks))
	}
	if b.WorkerChange > 0 {
		parts = append(parts, fmt.Sprintf("changes worker (+%.0f)", b.WorkerChange))
	}
	if b.DeadlineRisk > 0 {
		parts = append(parts, fmt.Sprintf("%.1fh margin before deadline (+%.0f)", math.Max(in.MarginHours, 0), b.DeadlineRisk))
	}
	if b.Fragmentation > 0 {
		parts = append(parts, fmt.Sprintf("split across %d slots (+%.0f)", in.SlotCount, b.Fragmentation))
	}
	if len(parts) == 0 {
		return "no disruption"
	}
	return strings.Join(parts, ", ")
}
