package db

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/errs"
)

// Fixtures is the YAML document read by LoadFixtures
type Fixtures struct {
	Workers     []WorkerRecord     `yaml:"workers" validate:"dive"`
	Tasks       []TaskRecord       `yaml:"tasks" validate:"dive"`
	Allocations []AllocationRecord `yaml:"allocations" validate:"dive"`
}

type workerDayKey struct {
	workerID string
	day      timemodel.Date
}

// FixtureStore is an in-memory Reader built once from Fixtures.
// It is never modified after construction, so concurrent reads need no locking.
type FixtureStore struct {
	workers     map[string]model.Worker
	workerOrder []string
	tasks       map[string]model.Task
	allocations map[string]model.Allocation
	byWorkerDay map[workerDayKey][]string
}

var validate = validator.New()

// LoadFixtures reads, validates and indexes a fixture file
func LoadFixtures(path string, zone *timemodel.Zone, opts ...Option) (*FixtureStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures file: %w", err)
	}

	return NewFixtureStore(f, zone, opts...)
}

// NewFixtureStore validates and indexes already decoded fixtures
func NewFixtureStore(f Fixtures, zone *timemodel.Zone, opts ...Option) (*FixtureStore, error) {
	o := NewOptions(opts...)
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("fixtures validation failed: %w", err)
	}

	s := &FixtureStore{
		workers:     make(map[string]model.Worker, len(f.Workers)),
		tasks:       make(map[string]model.Task, len(f.Tasks)),
		allocations: make(map[string]model.Allocation, len(f.Allocations)),
		byWorkerDay: make(map[workerDayKey][]string),
	}

	for _, w := range f.Workers {
		if _, dup := s.workers[w.ID]; dup {
			return nil, fmt.Errorf("duplicate worker id %q", w.ID)
		}
		s.workers[w.ID] = w.ToModel(o.DefaultSchedule)
		s.workerOrder = append(s.workerOrder, w.ID)
	}
	sort.Strings(s.workerOrder)

	for _, t := range f.Tasks {
		if _, dup := s.tasks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %q", t.ID)
		}
		task, err := t.ToModel(zone)
		if err != nil {
			return nil, fmt.Errorf("failed to load task %s: %w", t.ID, err)
		}
		s.tasks[t.ID] = task
	}

	for _, a := range f.Allocations {
		if _, dup := s.allocations[a.ID]; dup {
			return nil, fmt.Errorf("duplicate allocation id %q", a.ID)
		}
		alloc, err := a.ToModel(zone)
		if err != nil {
			return nil, fmt.Errorf("failed to load allocation %s: %w", a.ID, err)
		}
		s.allocations[a.ID] = alloc
		key := workerDayKey{workerID: alloc.WorkerID, day: alloc.Day}
		s.byWorkerDay[key] = append(s.byWorkerDay[key], alloc.ID)
	}
	for _, ids := range s.byWorkerDay {
		sort.Strings(ids)
	}

	return s, nil
}

// GetWorker retrieves a worker by id
func (s *FixtureStore) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	w, ok := s.workers[id]
	if !ok {
		return nil, errs.NotFound("worker", id)
	}
	return &w, nil
}

// GetActiveWorkers returns up to limit active workers other than excludeID, ordered by id
func (s *FixtureStore) GetActiveWorkers(ctx context.Context, excludeID string, limit int) ([]model.Worker, error) {
	var workers []model.Worker
	for _, id := range s.workerOrder {
		if limit > 0 && len(workers) >= limit {
			break
		}
		w := s.workers[id]
		if !w.Active || w.ID == excludeID {
			continue
		}
		workers = append(workers, w)
	}
	return workers, nil
}

// GetTask retrieves a task by id
func (s *FixtureStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, errs.NotFound("task", id)
	}
	return &t, nil
}

// GetAllocation retrieves an allocation by id
func (s *FixtureStore) GetAllocation(ctx context.Context, id string) (*model.Allocation, error) {
	a, ok := s.allocations[id]
	if !ok {
		return nil, errs.NotFound("allocation", id)
	}
	clone := CloneAllocation(a)
	return &clone, nil
}

// GetAllocationsFor returns the worker's allocations on day ordered by id, optionally filtered by kind
func (s *FixtureStore) GetAllocationsFor(ctx context.Context, workerID string, day timemodel.Date, kind model.AllocationKind) ([]model.Allocation, error) {
	var allocations []model.Allocation
	for _, id := range s.byWorkerDay[workerDayKey{workerID: workerID, day: day}] {
		a := s.allocations[id]
		if kind != "" && a.Kind != kind {
			continue
		}
		allocations = append(allocations, CloneAllocation(a))
	}
	return allocations, nil
}

// Allocations returns a copy of every allocation, ordered by id
func (s *FixtureStore) Allocations() []model.Allocation {
	allocations := make([]model.Allocation, 0, len(s.allocations))
	for _, a := range s.allocations {
		allocations = append(allocations, CloneAllocation(a))
	}
	sort.Slice(allocations, func(i, j int) bool {
		return allocations[i].ID < allocations[j].ID
	})
	return allocations
}
