package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// GenerateSuggestions proposes ranked corrections for conflicts; nothing is applied
func GenerateSuggestions(ctx context.Context, deps Deps, logger *zap.Logger, conflicts []model.Conflict) ([]model.Suggestion, error) {
	suggestions, err := deps.engine(logger).GenerateSuggestions(ctx, conflicts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	logger.Info("Suggestion generation finished",
		zap.Int("conflicts", len(conflicts)),
		zap.Int("suggestions", len(suggestions)))

	return suggestions, nil
}
