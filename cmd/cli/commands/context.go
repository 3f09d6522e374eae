package commands

import (
	"context"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/internal/config"
	"github.com/jakechorley/capacity-planner/pkg/core/services"
	"github.com/jakechorley/capacity-planner/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Deps     services.Deps
	Postgres *postgres.DB // nil when running against fixtures
	Registry *prometheus.Registry
	Logger   *zap.Logger
	Ctx      context.Context

	// Output is text, json or yaml
	Output string
	Stdout io.Writer
}

func (app *AppContext) out() io.Writer {
	if app.Stdout == nil {
		return os.Stdout
	}
	return app.Stdout
}
