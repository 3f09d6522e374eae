package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

type scheduleOutput struct {
	Input     string  `json:"input" yaml:"input"`
	Valid     bool    `json:"valid" yaml:"valid"`
	Schedule  string  `json:"schedule" yaml:"schedule"`
	StartHour float64 `json:"startHour" yaml:"startHour"`
	EndHour   float64 `json:"endHour" yaml:"endHour"`
	NetHours  float64 `json:"netHours" yaml:"netHours"`
}

// ParseScheduleCmd creates the parse-schedule command
func ParseScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-schedule <text>",
		Short: "Show how schedule text such as \"7h30-15h30\" is understood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := timemodel.TryParseSchedule(args[0])
			if !ok {
				s = timemodel.ParseSchedule(args[0])
			}

			out := scheduleOutput{
				Input:     args[0],
				Valid:     ok,
				Schedule:  timemodel.FormatSchedule(s),
				StartHour: s.StartHour,
				EndHour:   s.EndHour,
				NetHours:  s.Hours() - timemodel.MiddayOverlap(s.StartHour, s.EndHour),
			}

			return app.render(out, func(w io.Writer) {
				if !ok {
					fmt.Fprintf(w, "\n⚠️  %q is not a schedule, the default applies\n", out.Input)
				}
				fmt.Fprintf(w, "\nSchedule: %s\n", out.Schedule)
				fmt.Fprintf(w, "Net:      %.2fh after the midday break\n\n", out.NetHours)
			})
		},
	}
}
