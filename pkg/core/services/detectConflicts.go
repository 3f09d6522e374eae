package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// DetectConflictsForAllocation runs every rule against one TASK allocation.
// It fails with a not-found error when the allocation is missing or is a BLOCK.
func DetectConflictsForAllocation(ctx context.Context, deps Deps, logger *zap.Logger, allocationID string) ([]model.Conflict, error) {
	logger.Debug("Detecting conflicts for allocation", zap.String("allocation_id", allocationID))

	found, err := deps.detector(logger).DetectForAllocation(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to detect conflicts for allocation %s: %w", allocationID, err)
	}

	logger.Info("Conflict detection finished",
		zap.String("allocation_id", allocationID),
		zap.Int("conflicts", len(found)))

	return nonNil(found), nil
}

// DetectConflictsForBlock runs every rule against each TASK allocation sharing the block's
// worker and day. It fails with a not-found error when the block is missing or is a TASK.
func DetectConflictsForBlock(ctx context.Context, deps Deps, logger *zap.Logger, blockID string) ([]model.Conflict, error) {
	logger.Debug("Detecting conflicts for block", zap.String("block_id", blockID))

	found, err := deps.detector(logger).DetectForBlock(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to detect conflicts for block %s: %w", blockID, err)
	}

	logger.Info("Conflict detection finished",
		zap.String("block_id", blockID),
		zap.Int("conflicts", len(found)))

	return nonNil(found), nil
}

func nonNil(conflicts []model.Conflict) []model.Conflict {
	if conflicts == nil {
		return []model.Conflict{}
	}
	return conflicts
}
