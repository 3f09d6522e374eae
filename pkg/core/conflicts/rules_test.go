package conflicts

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

var testDay = timemodel.NewDate(2025, 12, 15)

func hm(hour, minute int) *timemodel.TimeOfDay {
	t := timemodel.TimeOfDay(hour*60 + minute)
	return &t
}

func timedAllocation(id string, kind model.AllocationKind, start, end *timemodel.TimeOfDay) model.Allocation {
	hours := 0.0
	if start != nil && end != nil {
		hours = end.Hours() - start.Hours()
	}
	return model.Allocation{
		ID:       id,
		WorkerID: "w1",
		Day:      testDay,
		Hours:    hours,
		Start:    start,
		End:      end,
		Kind:     kind,
		TaskID:   "t1",
	}
}

func TestOverlapRule_Property(t *testing.T) {
	// Every pair of whole-hour intervals inside a working day
	for s1 := 8; s1 < 18; s1++ {
		for e1 := s1 + 1; e1 <= 18; e1++ {
			for s2 := 8; s2 < 18; s2++ {
				for e2 := s2 + 1; e2 <= 18; e2++ {
					task := timedAllocation("a1", model.KindTask, hm(s1, 0), hm(e1, 0))
					block := timedAllocation("b1", model.KindBlock, hm(s2, 0), hm(e2, 0))
					ev := &Evaluation{Allocation: task, Blocks: []model.Allocation{block}}

					c := OverlapRule{}.Evaluate(ev)
					want := s1 < e2 && s2 < e1
					if want {
						require.NotNil(t, c, "[%d,%d) vs [%d,%d) should overlap", s1, e1, s2, e2)
						assert.Equal(t, "b1", c.Context.BlockID)
					} else {
						assert.Nil(t, c, "[%d,%d) vs [%d,%d) should not overlap", s1, e1, s2, e2)
					}
				}
			}
		}
	}
}

func TestOverlapRule_RequiresTimesOnBothSides(t *testing.T) {
	tests := []struct {
		name  string
		task  model.Allocation
		block model.Allocation
	}{
		{"untimed task", timedAllocation("a1", model.KindTask, nil, nil), timedAllocation("b1", model.KindBlock, hm(9, 0), hm(17, 0))},
		{"task without end", timedAllocation("a1", model.KindTask, hm(10, 0), nil), timedAllocation("b1", model.KindBlock, hm(9, 0), hm(17, 0))},
		{"untimed block", timedAllocation("a1", model.KindTask, hm(10, 0), hm(11, 0)), timedAllocation("b1", model.KindBlock, nil, nil)},
		{"block without start", timedAllocation("a1", model.KindTask, hm(10, 0), hm(11, 0)), timedAllocation("b1", model.KindBlock, nil, hm(17, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &Evaluation{Allocation: tt.task, Blocks: []model.Allocation{tt.block}}
			assert.Nil(t, OverlapRule{}.Evaluate(ev))
		})
	}
}

func TestOverlapRule_ReferencesEarliestBlock(t *testing.T) {
	task := timedAllocation("a1", model.KindTask, hm(9, 0), hm(17, 0))
	blocks := []model.Allocation{
		timedAllocation("b-late", model.KindBlock, hm(15, 0), hm(16, 0)),
		timedAllocation("b-early", model.KindBlock, hm(10, 0), hm(11, 0)),
	}

	c := OverlapRule{}.Evaluate(&Evaluation{Allocation: task, Blocks: blocks})
	require.NotNil(t, c)
	assert.Equal(t, "b-early", c.Context.BlockID)
}

func TestOverlapRule_IgnoresOtherWorkersAndDays(t *testing.T) {
	task := timedAllocation("a1", model.KindTask, hm(9, 0), hm(11, 0))
	otherWorker := timedAllocation("b1", model.KindBlock, hm(10, 0), hm(12, 0))
	otherWorker.WorkerID = "w2"
	otherDay := timedAllocation("b2", model.KindBlock, hm(10, 0), hm(12, 0))
	otherDay.Day = testDay.AddDays(1)

	c := OverlapRule{}.Evaluate(&Evaluation{Allocation: task, Blocks: []model.Allocation{otherWorker, otherDay}})
	assert.Nil(t, c)
}

func TestOutsideScheduleRule(t *testing.T) {
	worker := &model.Worker{ID: "w1", Schedule: timemodel.Schedule{StartHour: 7.5, EndHour: 15.5}}

	tests := []struct {
		start, end *timemodel.TimeOfDay
		want       bool
	}{
		{hm(7, 30), hm(15, 30), false},
		{hm(7, 29), hm(9, 0), true},
		{hm(14, 0), hm(15, 31), true},
		{hm(6, 0), hm(16, 0), true},
		{hm(8, 0), hm(9, 0), false},
		{nil, nil, false},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			ev := &Evaluation{Allocation: timedAllocation("a1", model.KindTask, tt.start, tt.end), Worker: worker}
			c := OutsideScheduleRule{}.Evaluate(ev)
			assert.Equal(t, tt.want, c != nil)
		})
	}
}

func TestLunchRule(t *testing.T) {
	tests := []struct {
		name       string
		start, end *timemodel.TimeOfDay
		want       bool
	}{
		{"ends at noon", hm(9, 0), hm(12, 0), false},
		{"starts at one", hm(13, 0), hm(17, 0), false},
		{"ends at half past twelve", hm(10, 0), hm(12, 30), true},
		{"inside the break", hm(12, 15), hm(12, 45), true},
		{"spans the break", hm(9, 0), hm(17, 0), true},
		{"untimed", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &Evaluation{Allocation: timedAllocation("a1", model.KindTask, tt.start, tt.end)}
			c := LunchRule{}.Evaluate(ev)
			assert.Equal(t, tt.want, c != nil)
		})
	}
}

func TestDeadlineRule(t *testing.T) {
	zone := paris(t)
	deadline, err := zone.ParseTimestamp("deadline", "2025-12-15T14:30:00")
	require.NoError(t, err)
	dateOnly, err := zone.ParseTimestamp("deadline", "2025-12-15")
	require.NoError(t, err)
	endOfDay, err := zone.ParseTimestamp("deadline", "2025-12-15T23:59:59")
	require.NoError(t, err)

	tests := []struct {
		name       string
		day        timemodel.Date
		start, end *timemodel.TimeOfDay
		want       bool
		notice     bool
	}{
		{name: "day after deadline", day: testDay.AddDays(1), want: true},
		{name: "day before deadline", day: testDay.AddDays(-1), start: hm(20, 0), end: hm(23, 0)},
		{name: "ends before deadline", day: testDay, start: hm(13, 0), end: hm(14, 0)},
		{name: "ends at deadline", day: testDay, start: hm(13, 0), end: hm(14, 30)},
		{name: "ends after deadline", day: testDay, start: hm(13, 0), end: hm(15, 0), want: true},
		{name: "untimed on deadline day", day: testDay, notice: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := timedAllocation("a1", model.KindTask, tt.start, tt.end)
			a.Day = tt.day
			ev := &Evaluation{
				Zone:       zone,
				Allocation: a,
				Task:       &model.Task{ID: "t1", Deadline: deadline},
			}

			c := DeadlineRule{}.Evaluate(ev)
			assert.Equal(t, tt.want, c != nil)
			assert.Equal(t, tt.notice, len(ev.Notices) == 1)
		})
	}

	t.Run("sentinel deadlines carry no time", func(t *testing.T) {
		for _, instant := range []time.Time{dateOnly, endOfDay} {
			a := timedAllocation("a1", model.KindTask, hm(20, 0), hm(23, 0))
			ev := &Evaluation{Zone: zone, Allocation: a, Task: &model.Task{ID: "t1", Deadline: instant}}

			assert.Nil(t, DeadlineRule{}.Evaluate(ev), instant.String())
			assert.Empty(t, ev.Notices, instant.String())
		}
	})

	t.Run("missing task", func(t *testing.T) {
		ev := &Evaluation{Zone: zone, Allocation: timedAllocation("a1", model.KindTask, nil, nil)}
		assert.Nil(t, DeadlineRule{}.Evaluate(ev))
	})
}

func TestDefaultRules_CoverEveryKind(t *testing.T) {
	var kinds []model.ConflictKind
	for _, r := range DefaultRules() {
		kinds = append(kinds, r.Kind())
	}
	assert.Equal(t, model.AllConflictKinds, kinds)
}
