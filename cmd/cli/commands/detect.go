package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/capacity-planner/pkg/core/services"
)

// DetectAllocationCmd creates the detect-allocation command
func DetectAllocationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect-allocation <allocation_id>",
		Short: "List the conflicts raised by one task allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicts, err := services.DetectConflictsForAllocation(app.Ctx, app.Deps, app.Logger, args[0])
			if err != nil {
				return err
			}

			return app.render(conflicts, func(w io.Writer) {
				printConflicts(w, conflicts)
			})
		},
	}
}

// DetectBlockCmd creates the detect-block command
func DetectBlockCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect-block <block_id>",
		Short: "List the conflicts a block introduces on its worker's day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicts, err := services.DetectConflictsForBlock(app.Ctx, app.Deps, app.Logger, args[0])
			if err != nil {
				return err
			}

			return app.render(conflicts, func(w io.Writer) {
				printConflicts(w, conflicts)
			})
		},
	}
}
