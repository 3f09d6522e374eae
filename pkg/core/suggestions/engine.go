package suggestions

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/capacity"
	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/errs"
	"github.com/jakechorley/capacity-planner/pkg/holidays"
	"github.com/jakechorley/capacity-planner/pkg/metrics"
)

// Config bounds the search for alternatives
type Config struct {
	// MaxCandidateWorkers is how many other active workers are scanned for a reassignment
	MaxCandidateWorkers int

	// MaxAlternates is how many runners-up are listed after the top candidate
	MaxAlternates int

	// HorizonDays caps how far ahead of today a deadline is scanned
	HorizonDays int
}

// DefaultConfig returns the standard search bounds
func DefaultConfig() Config {
	return Config{
		MaxCandidateWorkers: 5,
		MaxAlternates:       3,
		HorizonDays:         366,
	}
}

// Engine proposes, but never applies, corrections for detected conflicts
type Engine struct {
	zone     *timemodel.Zone
	store    db.Reader
	calc     *capacity.Calculator
	calendar *holidays.Calendar
	logger   *zap.Logger
	metrics  *metrics.Collector
	cfg      Config
	now      func() time.Time
	newID    func() string
}

// NewEngine creates an engine. calendar and collector may be nil; a nil calendar treats
// every day as a working day.
func NewEngine(zone *timemodel.Zone, store db.Reader, calendar *holidays.Calendar, logger *zap.Logger, collector *metrics.Collector, cfg Config) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultConfig()
	if cfg.MaxCandidateWorkers <= 0 {
		cfg.MaxCandidateWorkers = defaults.MaxCandidateWorkers
	}
	if cfg.MaxAlternates < 0 {
		cfg.MaxAlternates = defaults.MaxAlternates
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = defaults.HorizonDays
	}
	return &Engine{
		zone:     zone,
		store:    store,
		calc:     capacity.NewCalculator(zone, store),
		calendar: calendar,
		logger:   logger,
		metrics:  collector,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock returns a copy of the engine that reads the current time from now
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	clone.now = now
	return &clone
}

// taskGroup is the set of conflicts raised against one task
type taskGroup struct {
	taskID      string
	conflictIDs []string
	hours       float64
}

// groupByTask groups conflicts by task in order of first appearance, dropping conflicts
// without a task. An allocation's hours are counted once however many rules it broke.
func groupByTask(conflicts []model.Conflict) []*taskGroup {
	var groups []*taskGroup
	byTask := make(map[string]*taskGroup)
	seen := make(map[string]bool)

	for _, c := range conflicts {
		if c.TaskID == "" {
			continue
		}
		g, ok := byTask[c.TaskID]
		if !ok {
			g = &taskGroup{taskID: c.TaskID}
			byTask[c.TaskID] = g
			groups = append(groups, g)
		}
		g.conflictIDs = append(g.conflictIDs, c.ID)

		key := c.TaskID + "\x00" + c.AllocationID
		if !seen[key] {
			seen[key] = true
			g.hours += c.Hours
		}
	}
	return groups
}

// GenerateSuggestions proposes corrections for each task touched by conflicts.
// Per task it offers a local repair and a reassignment when each is feasible, and a single
// IMPOSSIBLE suggestion when neither is.
func (e *Engine) GenerateSuggestions(ctx context.Context, conflicts []model.Conflict) ([]model.Suggestion, error) {
	suggestions := []model.Suggestion{}
	if len(conflicts) == 0 {
		return suggestions, nil
	}

	groups := groupByTask(conflicts)
	e.logger.Debug("Generating suggestions",
		zap.Int("conflicts", len(conflicts)),
		zap.Int("tasks", len(groups)))

	for _, g := range groups {
		found, err := e.suggestForTask(ctx, g)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, found...)
	}

	for _, s := range suggestions {
		e.metrics.RecordSuggestion(string(s.Kind))
	}

	e.logger.Debug("Suggestion generation complete", zap.Int("suggestions", len(suggestions)))
	return suggestions, nil
}

func (e *Engine) suggestForTask(ctx context.Context, g *taskGroup) ([]model.Suggestion, error) {
	task, err := e.store.GetTask(ctx, g.taskID)
	if err != nil {
		if errs.IsNotFound(err) {
			e.logger.Warn("Task not found, skipping its conflicts", zap.String("task_id", g.taskID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load task %s: %w", g.taskID, err)
	}

	window := e.windowFor(*task)
	e.logger.Debug("Searching for slots",
		zap.String("task_id", task.ID),
		zap.Float64("hours", g.hours),
		zap.String("from", window.from.String()),
		zap.String("to", window.to.String()))

	var suggestions []model.Suggestion
	bestAvailable := 0.0

	worker, err := e.store.GetWorker(ctx, task.WorkerID)
	switch {
	case err == nil:
		avail, err := e.availabilityFor(ctx, *worker, window)
		if err != nil {
			return nil, err
		}
		bestAvailable = avail.total
		if avail.covers(g.hours) {
			suggestions = append(suggestions, e.localRepair(g, task, avail, window))
		}
	case errs.IsNotFound(err):
		e.logger.Warn("Task's worker not found, skipping local repair",
			zap.String("task_id", task.ID),
			zap.String("worker_id", task.WorkerID))
	default:
		return nil, fmt.Errorf("failed to load worker %s: %w", task.WorkerID, err)
	}

	reassignment, candidateBest, err := e.reassignment(ctx, g, task, window)
	if err != nil {
		return nil, err
	}
	if candidateBest > bestAvailable {
		bestAvailable = candidateBest
	}
	if reassignment != nil {
		suggestions = append(suggestions, *reassignment)
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, e.impossible(g, task, bestAvailable))
	}
	return suggestions, nil
}

func (e *Engine) localRepair(g *taskGroup, task *model.Task, avail *availability, window deadlineWindow) model.Suggestion {
	slots, used := avail.pick(g.hours)

	impact := CalculateImpact(ImpactInput{
		HoursMoved:  g.hours,
		TaskCount:   taskCount(task.ID, used),
		MarginHours: e.margin(avail.worker, slots, window),
		SlotCount:   len(slots),
	})

	return model.Suggestion{
		ID:          e.newID(),
		Kind:        model.SuggestionLocalRepair,
		TaskID:      task.ID,
		ConflictIDs: g.conflictIDs,
		Slots:       slots,
		Impact:      impact,
		Description: fmt.Sprintf("Move %.1fh of task %s to %d open day(s) for %s before %s",
			g.hours, task.ID, len(slots), avail.worker.ID, e.zone.FormatTimestamp(task.Deadline)),
	}
}

// rankedWorker is an alternate worker able to absorb the hours
type rankedWorker struct {
	avail *availability
	score float64
}

func (e *Engine) reassignment(ctx context.Context, g *taskGroup, task *model.Task, window deadlineWindow) (*model.Suggestion, float64, error) {
	workers, err := e.store.GetActiveWorkers(ctx, task.WorkerID, e.cfg.MaxCandidateWorkers)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load active workers: %w", err)
	}

	best := 0.0
	var ranked []rankedWorker
	for _, w := range workers {
		avail, err := e.availabilityFor(ctx, w, window)
		if err != nil {
			return nil, 0, err
		}
		if avail.total > best {
			best = avail.total
		}
		if !avail.covers(g.hours) {
			continue
		}
		ranked = append(ranked, rankedWorker{avail: avail, score: CandidateScore(avail.total, g.hours)})
	}

	e.logger.Debug("Scanned alternate workers",
		zap.String("task_id", task.ID),
		zap.Int("scanned", len(workers)),
		zap.Int("eligible", len(ranked)))

	if len(ranked) == 0 {
		return nil, best, nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].avail.total != ranked[j].avail.total {
			return ranked[i].avail.total > ranked[j].avail.total
		}
		return ranked[i].avail.worker.ID < ranked[j].avail.worker.ID
	})
	if len(ranked) > 1+e.cfg.MaxAlternates {
		ranked = ranked[:1+e.cfg.MaxAlternates]
	}

	candidates := make([]model.Candidate, 0, len(ranked))
	for _, r := range ranked {
		slots, _ := r.avail.pick(g.hours)
		candidates = append(candidates, model.Candidate{
			WorkerID:   r.avail.worker.ID,
			WorkerName: r.avail.worker.Name,
			Available:  r.avail.total,
			Score:      r.score,
			Slots:      slots,
		})
	}

	top := ranked[0]
	slots, used := top.avail.pick(g.hours)
	impact := CalculateImpact(ImpactInput{
		HoursMoved:   g.hours,
		TaskCount:    taskCount(task.ID, used),
		Reassignment: true,
		MarginHours:  e.margin(top.avail.worker, slots, window),
		SlotCount:    len(slots),
	})

	return &model.Suggestion{
		ID:          e.newID(),
		Kind:        model.SuggestionReassignment,
		TaskID:      task.ID,
		ConflictIDs: g.conflictIDs,
		Slots:       slots,
		Candidates:  candidates,
		Impact:      impact,
		Description: fmt.Sprintf("Reassign %.1fh of task %s to %s (%d alternate(s))",
			g.hours, task.ID, top.avail.worker.ID, len(candidates)-1),
	}, best, nil
}

func (e *Engine) impossible(g *taskGroup, task *model.Task, bestAvailable float64) model.Suggestion {
	return model.Suggestion{
		ID:          e.newID(),
		Kind:        model.SuggestionImpossible,
		TaskID:      task.ID,
		ConflictIDs: g.conflictIDs,
		Impact:      ImpossibleImpact(g.hours, bestAvailable),
		Description: fmt.Sprintf("No worker can absorb %.1fh of task %s before %s; the deadline or scope must change",
			g.hours, task.ID, e.zone.FormatTimestamp(task.Deadline)),
	}
}

// CandidateScore rates an alternate worker by how comfortably they cover the needed hours
func CandidateScore(available, needed float64) float64 {
	if needed <= capacity.Tolerance {
		return 100
	}
	score := available / needed * 100
	if score > 100 {
		return 100
	}
	return score
}

// margin is the net time between the end of the last proposed slot and the deadline
func (e *Engine) margin(worker model.Worker, slots []model.Slot, window deadlineWindow) float64 {
	from := e.now()
	if len(slots) > 0 {
		from = e.zone.EffectiveEnd(worker.Schedule, slots[len(slots)-1].Day, window.cap)
	}
	return e.zone.RangeNetHours(from, window.end, true)
}

// taskCount is the moved task plus every distinct other task booked on the given days
func taskCount(taskID string, days []openDay) int {
	others := make(map[string]bool)
	for _, d := range days {
		for id := range d.taskIDs {
			if id != taskID {
				others[id] = true
			}
		}
	}
	return 1 + len(others)
}
