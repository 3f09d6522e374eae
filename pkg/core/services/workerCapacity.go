package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/capacity"
	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// WorkerCapacityResult is a worker's capacity on one day and whether extra hours would fit
type WorkerCapacityResult struct {
	Worker      model.Worker
	Day         *capacity.DayCapacity
	ExtraHours  float64
	WouldExceed bool
	Holiday     string // holiday name when the day is one
}

// WorkerCapacity reports used and remaining capacity for a worker on day, and whether
// adding extraHours of task work would exceed it
func WorkerCapacity(ctx context.Context, deps Deps, logger *zap.Logger, workerID string, day timemodel.Date, extraHours float64) (*WorkerCapacityResult, error) {
	if extraHours < 0 {
		return nil, fmt.Errorf("extra hours must not be negative, got %.2f", extraHours)
	}

	worker, err := deps.Store.GetWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load worker %s: %w", workerID, err)
	}

	calc := capacity.NewCalculator(deps.Zone, deps.Store)
	dc, err := calc.ForDay(ctx, *worker, day, nil)
	if err != nil {
		return nil, err
	}

	exceeds, err := calc.WouldExceed(ctx, *worker, day, extraHours)
	if err != nil {
		return nil, err
	}

	holiday, _ := deps.Calendar.IsHoliday(day)

	logger.Debug("Computed worker capacity",
		zap.String("worker_id", worker.ID),
		zap.String("day", day.String()),
		zap.Float64("capacity", dc.Capacity),
		zap.Float64("used", dc.Used),
		zap.String("status", string(dc.Status)))

	return &WorkerCapacityResult{
		Worker:      *worker,
		Day:         dc,
		ExtraHours:  extraHours,
		WouldExceed: exceeds,
		Holiday:     holiday,
	}, nil
}
