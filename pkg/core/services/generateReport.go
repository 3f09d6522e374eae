package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// GenerateReport detects the conflicts a block introduces and proposes corrections for them
func GenerateReport(ctx context.Context, deps Deps, logger *zap.Logger, blockID string) (*model.Report, error) {
	detector := deps.detector(logger)

	block, err := detector.LoadBlock(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to load block %s: %w", blockID, err)
	}

	logger.Debug("Generating report",
		zap.String("block_id", block.ID),
		zap.String("worker_id", block.WorkerID),
		zap.String("day", block.Day.String()))

	found, err := detector.DetectForBlock(ctx, block.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to detect conflicts for block %s: %w", blockID, err)
	}

	suggestions, err := deps.engine(logger).GenerateSuggestions(ctx, found)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions for block %s: %w", blockID, err)
	}

	report := &model.Report{
		Trigger:     *block,
		Conflicts:   nonNil(found),
		Suggestions: suggestions,
		GeneratedAt: deps.now().In(deps.Zone.Location()),
	}

	logger.Info("Report generated",
		zap.String("block_id", block.ID),
		zap.Int("conflicts", len(report.Conflicts)),
		zap.Int("suggestions", len(report.Suggestions)))

	return report, nil
}
