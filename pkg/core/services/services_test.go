package services

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/suggestions"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/errs"
	"github.com/jakechorley/capacity-planner/pkg/holidays"
)

func testDeps(t *testing.T) (Deps, *db.FixtureStore) {
	t.Helper()

	zone, err := timemodel.LoadZone("Europe/Paris")
	require.NoError(t, err)

	store, err := db.NewFixtureStore(db.Fixtures{
		Workers: []db.WorkerRecord{
			{ID: "w1", Name: "Alice", DailyCapacity: 7, Schedule: "9h-17h", Active: true},
			{ID: "w2", Name: "Bob", DailyCapacity: 7, Schedule: "8h30-16h30", Active: true},
		},
		Tasks: []db.TaskRecord{
			{ID: "t1", Name: "Audit", WorkerID: "w1", TotalHours: 6, Deadline: "2025-12-19T17:00:00"},
			{ID: "t2", Name: "Review", WorkerID: "w1", TotalHours: 3, Deadline: "2025-12-15T14:30:00"},
		},
		Allocations: []db.AllocationRecord{
			{ID: "a1", WorkerID: "w1", Day: "2025-12-15", Hours: 2, TimeStart: "9h", TimeEnd: "11h", Kind: "TASK", TaskID: "t1"},
			{ID: "a2", WorkerID: "w1", Day: "2025-12-15", Hours: 3, TimeStart: "13h", TimeEnd: "16h", Kind: "TASK", TaskID: "t2"},
			{ID: "a3", WorkerID: "w1", Day: "2025-12-16", Hours: 4, TimeStart: "9h", TimeEnd: "13h", Kind: "TASK", TaskID: "t1"},
			{ID: "a4", WorkerID: "w1", Day: "2025-12-17", Hours: 1, Kind: "TASK", TaskID: "t1"},
			{ID: "a5", WorkerID: "w1", Day: "2025-12-18", Hours: 1, TimeStart: "10h", TimeEnd: "11h", Kind: "TASK", TaskID: "t1"},
			{ID: "b1", WorkerID: "w1", Day: "2025-12-15", Hours: 2, TimeStart: "10h", TimeEnd: "12h", Kind: "BLOCK"},
			{ID: "b2", WorkerID: "w1", Day: "2025-12-18", Hours: 1, TimeStart: "10h30", TimeEnd: "11h30", Kind: "BLOCK"},
		},
	}, zone)
	require.NoError(t, err)

	calendar, err := holidays.NewCalendar(zone, []holidays.Rule{
		{Name: "Christmas", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"},
	}, nil)
	require.NoError(t, err)

	now, err := zone.ParseTimestamp("now", "2025-12-15T08:00:00")
	require.NoError(t, err)

	return Deps{
		Zone:     zone,
		Store:    store,
		Calendar: calendar,
		Search:   suggestions.DefaultConfig(),
		Now:      func() time.Time { return now },
	}, store
}

func TestDetectConflictsForAllocation(t *testing.T) {
	deps, _ := testDeps(t)

	found, err := DetectConflictsForAllocation(context.Background(), deps, zap.NewNop(), "a2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, model.ConflictPastDeadline, found[0].Kind)
}

func TestDetectConflictsForAllocation_NoConflictsIsEmptyNotNil(t *testing.T) {
	deps, _ := testDeps(t)

	found, err := DetectConflictsForAllocation(context.Background(), deps, zap.NewNop(), "a4")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestDetectConflicts_NotFoundCarriesID(t *testing.T) {
	deps, _ := testDeps(t)

	_, err := DetectConflictsForAllocation(context.Background(), deps, zap.NewNop(), "b1")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err), "a block is not a task allocation")
	assert.Contains(t, err.Error(), "b1")

	_, err = DetectConflictsForBlock(context.Background(), deps, zap.NewNop(), "missing")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestGenerateSuggestions_EmptyInput(t *testing.T) {
	deps, _ := testDeps(t)

	result, err := GenerateSuggestions(context.Background(), deps, zap.NewNop(), []model.Conflict{})
	require.NoError(t, err)
	assert.Empty(t, result)
}

// b1 shares its day with a1, which it overlaps, and a2, which ends after t2's deadline
func TestGenerateReport(t *testing.T) {
	deps, _ := testDeps(t)

	report, err := GenerateReport(context.Background(), deps, zap.NewNop(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "b1", report.Trigger.ID)
	assert.Equal(t, model.KindBlock, report.Trigger.Kind)
	assert.True(t, deps.now().Equal(report.GeneratedAt))

	require.Len(t, report.Conflicts, 2)
	byAllocation := make(map[string]model.Conflict)
	for _, c := range report.Conflicts {
		byAllocation[c.AllocationID] = c
	}
	assert.Equal(t, model.ConflictOverlapWithBlock, byAllocation["a1"].Kind)
	assert.Equal(t, "t1", byAllocation["a1"].TaskID)
	assert.Equal(t, model.ConflictPastDeadline, byAllocation["a2"].Kind)
	assert.Equal(t, "t2", byAllocation["a2"].TaskID)

	byTask := make(map[string][]model.Suggestion)
	for _, s := range report.Suggestions {
		assert.GreaterOrEqual(t, s.Impact.Total, 0.0)
		assert.LessOrEqual(t, s.Impact.Total, 100.0)
		byTask[s.TaskID] = append(byTask[s.TaskID], s)
	}
	require.Len(t, byTask, 2)

	require.NotEmpty(t, byTask["t1"])
	assert.Equal(t, model.SuggestionLocalRepair, byTask["t1"][0].Kind)
	for _, s := range byTask["t1"] {
		assert.Equal(t, []string{byAllocation["a1"].ID}, s.ConflictIDs)
	}

	// w1 has nothing left before 14h30; w2 can still take the 3h
	require.Len(t, byTask["t2"], 1)
	reassign := byTask["t2"][0]
	assert.Equal(t, model.SuggestionReassignment, reassign.Kind)
	assert.Equal(t, []string{byAllocation["a2"].ID}, reassign.ConflictIDs)
	require.NotEmpty(t, reassign.Candidates)
	assert.Equal(t, "w2", reassign.Candidates[0].WorkerID)
}

func TestGenerateReport_OverlapOnly(t *testing.T) {
	deps, _ := testDeps(t)

	report, err := GenerateReport(context.Background(), deps, zap.NewNop(), "b2")
	require.NoError(t, err)

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, model.ConflictOverlapWithBlock, report.Conflicts[0].Kind)
	assert.Equal(t, "a5", report.Conflicts[0].AllocationID)

	require.NotEmpty(t, report.Suggestions)
	for _, s := range report.Suggestions {
		assert.Equal(t, "t1", s.TaskID)
		assert.Equal(t, []string{report.Conflicts[0].ID}, s.ConflictIDs)
	}
	assert.Equal(t, model.SuggestionLocalRepair, report.Suggestions[0].Kind)
}

func TestGenerateReport_RejectsTaskAllocation(t *testing.T) {
	deps, _ := testDeps(t)

	_, err := GenerateReport(context.Background(), deps, zap.NewNop(), "a1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidKind)
}

func TestWorkerCapacity(t *testing.T) {
	deps, _ := testDeps(t)
	day := timemodel.NewDate(2025, time.December, 15)

	result, err := WorkerCapacity(context.Background(), deps, zap.NewNop(), "w1", day, 2)
	require.NoError(t, err)
	assert.Equal(t, 7.0, result.Day.Capacity)
	assert.Equal(t, 5.0, result.Day.Used)
	assert.Equal(t, 2.0, result.Day.Available)
	assert.False(t, result.WouldExceed)
	assert.Empty(t, result.Holiday)

	result, err = WorkerCapacity(context.Background(), deps, zap.NewNop(), "w1", day, 2.5)
	require.NoError(t, err)
	assert.True(t, result.WouldExceed)

	result, err = WorkerCapacity(context.Background(), deps, zap.NewNop(), "w1", timemodel.NewDate(2025, time.December, 25), 0)
	require.NoError(t, err)
	assert.Equal(t, "Christmas", result.Holiday)
}

func TestWorkerCapacity_Errors(t *testing.T) {
	deps, _ := testDeps(t)
	day := timemodel.NewDate(2025, time.December, 15)

	_, err := WorkerCapacity(context.Background(), deps, zap.NewNop(), "nobody", day, 0)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	_, err = WorkerCapacity(context.Background(), deps, zap.NewNop(), "w1", day, -1)
	require.Error(t, err)
}

// Every planning operation must leave stored allocations exactly as they were
func TestOperations_NeverMutateAllocations(t *testing.T) {
	deps, store := testDeps(t)
	ctx := context.Background()
	logger := zap.NewNop()
	before := store.Allocations()

	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		_, err := DetectConflictsForAllocation(ctx, deps, logger, id)
		require.NoError(t, err)
	}
	found, err := DetectConflictsForBlock(ctx, deps, logger, "b1")
	require.NoError(t, err)
	_, err = GenerateSuggestions(ctx, deps, logger, found)
	require.NoError(t, err)
	_, err = GenerateReport(ctx, deps, logger, "b1")
	require.NoError(t, err)
	_, err = WorkerCapacity(ctx, deps, logger, "w1", timemodel.NewDate(2025, time.December, 15), 1)
	require.NoError(t, err)

	assert.Equal(t, before, store.Allocations())
}
