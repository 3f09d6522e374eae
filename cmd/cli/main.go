package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/capacity-planner/cmd/cli/commands"
	"github.com/jakechorley/capacity-planner/internal/config"
	"github.com/jakechorley/capacity-planner/pkg/core/services"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/db"
	"github.com/jakechorley/capacity-planner/pkg/metrics"
	"github.com/jakechorley/capacity-planner/pkg/postgres"
	"github.com/jakechorley/capacity-planner/pkg/utils/logging"
)

var (
	env         string
	configPath  string
	verbose     bool
	metricsFile string
	app         = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Capacity Planner CLI - Detect scheduling conflicts and propose fixes",
		Long: `A CLI tool for checking workers' days against their schedules, blocks and deadlines,
and for proposing scored, non-binding corrections.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := commands.ValidateOutput(app.Output); err != nil {
				return err
			}
			return initApp()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (defaults to capacity_planner_config.<env>.yaml)")
	rootCmd.PersistentFlags().StringVarP(&app.Output, "output", "o", commands.OutputText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format on exit")

	rootCmd.AddCommand(commands.DetectAllocationCmd(app))
	rootCmd.AddCommand(commands.DetectBlockCmd(app))
	rootCmd.AddCommand(commands.SuggestCmd(app))
	rootCmd.AddCommand(commands.ReportCmd(app))
	rootCmd.AddCommand(commands.CapacityCmd(app))
	rootCmd.AddCommand(commands.ParseScheduleCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, metrics and the store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Starting application", zap.String("environment", env))

	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("timezone", app.Cfg.Timezone))

	zone, err := app.Cfg.Zone()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	calendar, err := app.Cfg.Calendar(zone)
	if err != nil {
		return fmt.Errorf("failed to build holiday calendar: %w", err)
	}

	app.Registry = prometheus.NewRegistry()
	collector, err := metrics.NewCollector(app.Registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	store, err := openStore(zone, db.WithDefaultSchedule(app.Cfg.Schedule()))
	if err != nil {
		return err
	}

	app.Deps = services.Deps{
		Zone:     zone,
		Store:    store,
		Calendar: calendar,
		Metrics:  collector,
		Search:   app.Cfg.SearchConfig(),
	}
	return nil
}

// openStore connects to PostgreSQL when a database URL is configured, else loads the fixture file
func openStore(zone *timemodel.Zone, opts ...db.Option) (db.Reader, error) {
	if app.Cfg.DatabaseURL != "" {
		app.Logger.Debug("Connecting to database")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, zone, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.Postgres = pg
		return pg, nil
	}

	app.Logger.Debug("Loading fixtures", zap.String("path", app.Cfg.FixturesPath))
	store, err := db.LoadFixtures(app.Cfg.FixturesPath, zone, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	return store, nil
}

func shutdown() error {
	if app.Postgres != nil {
		app.Postgres.Close()
	}

	var err error
	if metricsFile != "" && app.Registry != nil {
		err = metrics.WriteTextfile(metricsFile, app.Registry)
	}

	if app.Logger != nil {
		app.Logger.Sync()
	}
	return err
}
