package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/pkg/core/conflicts"
	"github.com/jakechorley/capacity-planner/pkg/core/suggestions"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/holidays"
	"github.com/jakechorley/capacity-planner/pkg/metrics"
)

// Deps bundles the read-only collaborators shared by every planning operation.
// Store only exposes reads, so no operation here can alter workers, tasks or allocations.
type Deps struct {
	Zone     *timemodel.Zone
	Store    db.Reader
	Calendar *holidays.Calendar // nil treats every day as a working day
	Metrics  *metrics.Collector // nil records nothing
	Search   suggestions.Config
	Now      func() time.Time // nil means time.Now
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) detector(logger *zap.Logger) *conflicts.Detector {
	return conflicts.NewDetector(d.Zone, d.Store, logger, d.Metrics)
}

func (d Deps) engine(logger *zap.Logger) *suggestions.Engine {
	return suggestions.NewEngine(d.Zone, d.Store, d.Calendar, logger, d.Metrics, d.Search).WithClock(d.now)
}
