package db

import (
	"context"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// The interfaces below are the only storage surface handed to the planning core.
// They expose getters exclusively: detection and suggestion code has no path to
// create, update or delete workers, tasks or allocations.
//
// Lookups of a missing id return an error matching errs.ErrNotFound.

// WorkerReader provides read-only access to workers
type WorkerReader interface {
	GetWorker(ctx context.Context, id string) (*model.Worker, error)
	// GetActiveWorkers returns up to limit active workers other than excludeID, in a stable order
	GetActiveWorkers(ctx context.Context, excludeID string, limit int) ([]model.Worker, error)
}

// TaskReader provides read-only access to tasks
type TaskReader interface {
	GetTask(ctx context.Context, id string) (*model.Task, error)
}

// AllocationReader provides read-only access to allocations
type AllocationReader interface {
	GetAllocation(ctx context.Context, id string) (*model.Allocation, error)
	// GetAllocationsFor returns the worker's allocations on day; an empty kind means every kind
	GetAllocationsFor(ctx context.Context, workerID string, day timemodel.Date, kind model.AllocationKind) ([]model.Allocation, error)
}

// Reader combines every read-only lookup.
// Both the fixture-backed FixtureStore and postgres.DB implement this interface.
type Reader interface {
	WorkerReader
	TaskReader
	AllocationReader
}
