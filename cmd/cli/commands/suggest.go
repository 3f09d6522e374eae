package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
	"github.com/jakechorley/capacity-planner/pkg/core/services"
)

// suggestOutput is what the suggest command prints in structured formats
type suggestOutput struct {
	Conflicts   []model.Conflict   `json:"conflicts" yaml:"conflicts"`
	Suggestions []model.Suggestion `json:"suggestions" yaml:"suggestions"`
}

// SuggestCmd creates the suggest command
func SuggestCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <allocation_id>",
		Short: "Detect conflicts for an allocation (or block) and propose corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, _ := cmd.Flags().GetBool("block")

			var conflicts []model.Conflict
			var err error
			if block {
				conflicts, err = services.DetectConflictsForBlock(app.Ctx, app.Deps, app.Logger, args[0])
			} else {
				conflicts, err = services.DetectConflictsForAllocation(app.Ctx, app.Deps, app.Logger, args[0])
			}
			if err != nil {
				return err
			}

			suggestions, err := services.GenerateSuggestions(app.Ctx, app.Deps, app.Logger, conflicts)
			if err != nil {
				return err
			}

			return app.render(suggestOutput{Conflicts: conflicts, Suggestions: suggestions}, func(w io.Writer) {
				printConflicts(w, conflicts)
				if len(conflicts) > 0 {
					printSuggestions(w, suggestions)
				}
			})
		},
	}

	cmd.Flags().Bool("block", false, "Treat the id as a block and scan every task on its day")

	return cmd
}
