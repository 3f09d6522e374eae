package conflicts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/errs"
	"github.com/jakechorley/capacity-planner/pkg/metrics"
)

// Detector evaluates the rule set against stored allocations.
// It only reads from the store; conflicts are computed on demand and never persisted.
type Detector struct {
	zone    *timemodel.Zone
	store   db.Reader
	logger  *zap.Logger
	metrics *metrics.Collector
	rules   []Rule
	newID   func() string
}

// NewDetector creates a detector running DefaultRules. collector may be nil.
func NewDetector(zone *timemodel.Zone, store db.Reader, logger *zap.Logger, collector *metrics.Collector) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		zone:    zone,
		store:   store,
		logger:  logger,
		metrics: collector,
		rules:   DefaultRules(),
		newID:   uuid.NewString,
	}
}

// WithRules returns a copy of the detector evaluating the given rules instead
func (d *Detector) WithRules(rules ...Rule) *Detector {
	clone := *d
	clone.rules = rules
	return &clone
}

// DetectForAllocation checks one TASK allocation against every rule.
// The overlap rule considers every block of the same worker and day.
func (d *Detector) DetectForAllocation(ctx context.Context, allocationID string) ([]model.Conflict, error) {
	defer d.metrics.ObserveDetection("allocation", time.Now())

	allocation, err := d.store.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation: %w", err)
	}
	if allocation.Kind != model.KindTask {
		return nil, errs.InvalidKind(allocation.ID, string(model.KindTask), string(allocation.Kind))
	}

	d.logger.Debug("Detecting conflicts for allocation",
		zap.String("allocation_id", allocation.ID),
		zap.String("worker_id", allocation.WorkerID),
		zap.String("day", allocation.Day.String()))

	dayAllocations, err := d.store.GetAllocationsFor(ctx, allocation.WorkerID, allocation.Day, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for %s on %s: %w", allocation.WorkerID, allocation.Day, err)
	}

	run := d.newRun(ctx)
	conflicts, err := run.evaluate(*allocation, dayAllocations, blocksOf(dayAllocations))
	if err != nil {
		return nil, err
	}

	d.finish(run, conflicts)
	return conflicts, nil
}

// DetectForBlock checks every TASK allocation sharing the block's worker and day.
// The overlap rule only considers the triggering block.
func (d *Detector) DetectForBlock(ctx context.Context, blockID string) ([]model.Conflict, error) {
	defer d.metrics.ObserveDetection("block", time.Now())

	block, err := d.LoadBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Detecting conflicts for block",
		zap.String("block_id", block.ID),
		zap.String("worker_id", block.WorkerID),
		zap.String("day", block.Day.String()))

	dayAllocations, err := d.store.GetAllocationsFor(ctx, block.WorkerID, block.Day, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for %s on %s: %w", block.WorkerID, block.Day, err)
	}

	tasks := make([]model.Allocation, 0, len(dayAllocations))
	for _, a := range dayAllocations {
		if a.Kind == model.KindTask {
			tasks = append(tasks, a)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	d.logger.Debug("Found task allocations sharing the block's day", zap.Int("count", len(tasks)))

	run := d.newRun(ctx)
	var conflicts []model.Conflict
	for _, task := range tasks {
		found, err := run.evaluate(task, dayAllocations, []model.Allocation{*block})
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, found...)
	}

	d.finish(run, conflicts)
	return conflicts, nil
}

// LoadBlock fetches an allocation and requires it to be a BLOCK
func (d *Detector) LoadBlock(ctx context.Context, blockID string) (*model.Allocation, error) {
	block, err := d.store.GetAllocation(ctx, blockID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NotFound("block", blockID)
		}
		return nil, fmt.Errorf("failed to load block: %w", err)
	}
	if block.Kind != model.KindBlock {
		return nil, errs.InvalidKind(block.ID, string(model.KindBlock), string(block.Kind))
	}
	return block, nil
}

func (d *Detector) finish(run *detectionRun, conflicts []model.Conflict) {
	for _, n := range run.notices {
		d.logger.Warn("Same-day deadline could not be judged without a time-of-day",
			zap.String("allocation_id", n.AllocationID),
			zap.String("task_id", n.TaskID),
			zap.String("detail", n.Message))
		d.metrics.RecordAmbiguousDeadline()
	}

	for _, c := range conflicts {
		d.metrics.RecordConflict(string(c.Kind))
	}

	d.logger.Debug("Conflict detection complete", zap.Int("conflicts", len(conflicts)))
}

// detectionRun caches workers and tasks for the duration of one detection call
type detectionRun struct {
	ctx     context.Context
	d       *Detector
	workers map[string]*model.Worker
	tasks   map[string]*model.Task
	notices []Notice
}

func (d *Detector) newRun(ctx context.Context) *detectionRun {
	return &detectionRun{
		ctx:     ctx,
		d:       d,
		workers: make(map[string]*model.Worker),
		tasks:   make(map[string]*model.Task),
	}
}

func (r *detectionRun) evaluate(allocation model.Allocation, dayAllocations, blocks []model.Allocation) ([]model.Conflict, error) {
	worker, err := r.worker(allocation.WorkerID)
	if err != nil {
		return nil, err
	}
	task, err := r.task(allocation.TaskID)
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Zone:           r.d.zone,
		Allocation:     allocation,
		Worker:         worker,
		Task:           task,
		DayAllocations: dayAllocations,
		Blocks:         blocks,
	}

	var conflicts []model.Conflict
	for _, rule := range r.d.rules {
		c := rule.Evaluate(ev)
		if c == nil {
			continue
		}
		c.ID = r.d.newID()
		conflicts = append(conflicts, *c)
	}
	r.notices = append(r.notices, ev.Notices...)
	return conflicts, nil
}

// worker returns nil without error when the worker does not exist
func (r *detectionRun) worker(id string) (*model.Worker, error) {
	if w, ok := r.workers[id]; ok {
		return w, nil
	}
	w, err := r.d.store.GetWorker(r.ctx, id)
	if err != nil {
		if !errs.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load worker %s: %w", id, err)
		}
		r.d.logger.Warn("Worker not found, skipping worker-dependent rules", zap.String("worker_id", id))
		w = nil
	}
	r.workers[id] = w
	return w, nil
}

// task returns nil without error when the id is empty or the task does not exist
func (r *detectionRun) task(id string) (*model.Task, error) {
	if id == "" {
		return nil, nil
	}
	if t, ok := r.tasks[id]; ok {
		return t, nil
	}
	t, err := r.d.store.GetTask(r.ctx, id)
	if err != nil {
		if !errs.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load task %s: %w", id, err)
		}
		r.d.logger.Warn("Task not found, skipping deadline rule", zap.String("task_id", id))
		t = nil
	}
	r.tasks[id] = t
	return t, nil
}

func blocksOf(allocations []model.Allocation) []model.Allocation {
	var blocks []model.Allocation
	for _, a := range allocations {
		if a.Kind == model.KindBlock {
			blocks = append(blocks, a)
		}
	}
	return blocks
}
