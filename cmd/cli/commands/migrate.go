package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the worker, task and allocation tables in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Postgres == nil {
				return fmt.Errorf("migrate needs databaseURL; the current config uses fixtures")
			}

			applied, err := app.Postgres.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}
			app.Logger.Info("Migrations applied", zap.Strings("files", applied))

			w := app.out()
			if len(applied) == 0 {
				fmt.Fprintf(w, "\n✓ Schema is up to date\n\n")
				return nil
			}
			fmt.Fprintf(w, "\n✓ Applied %d migration(s):\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(w, "  %s\n", name)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
