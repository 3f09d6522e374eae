package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/capacity-planner/pkg/core/services"
)

// ReportCmd creates the report command
func ReportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report <block_id>",
		Short: "Build the conflict and suggestion report for a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := services.GenerateReport(app.Ctx, app.Deps, app.Logger, args[0])
			if err != nil {
				return err
			}

			return app.render(report, func(w io.Writer) {
				b := report.Trigger
				fmt.Fprintf(w, "\nReport for block %s\n\n", b.ID)
				fmt.Fprintf(w, "Worker:    %s\n", b.WorkerID)
				fmt.Fprintf(w, "Day:       %s\n", b.Day)
				if b.HasTimes() {
					fmt.Fprintf(w, "Time:      %s\n", b.Interval())
				}
				fmt.Fprintf(w, "Hours:     %.1f\n", b.Hours)
				fmt.Fprintf(w, "Generated: %s\n", app.Deps.Zone.FormatTimestamp(report.GeneratedAt))

				printConflicts(w, report.Conflicts)
				if len(report.Conflicts) > 0 {
					printSuggestions(w, report.Suggestions)
				}
			})
		},
	}
}
