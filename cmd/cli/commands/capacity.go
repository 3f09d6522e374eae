package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/capacity-planner/pkg/core/services"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
)

// capacityOutput is what the capacity command prints in structured formats
type capacityOutput struct {
	WorkerID    string                `json:"workerId" yaml:"workerId"`
	Day         timemodel.Date        `json:"day" yaml:"day"`
	Schedule    string                `json:"schedule" yaml:"schedule"`
	Capacity    float64               `json:"capacity" yaml:"capacity"`
	Used        float64               `json:"used" yaml:"used"`
	Available   float64               `json:"available" yaml:"available"`
	Status      string                `json:"status" yaml:"status"`
	FreeWindows []timemodel.TimeRange `json:"freeWindows" yaml:"freeWindows"`
	ExtraHours  float64               `json:"extraHours,omitempty" yaml:"extraHours,omitempty"`
	WouldExceed bool                  `json:"wouldExceed" yaml:"wouldExceed"`
	Holiday     string                `json:"holiday,omitempty" yaml:"holiday,omitempty"`
}

// CapacityCmd creates the capacity command
func CapacityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity <worker_id> <day>",
		Short: "Show a worker's capacity for a day (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := timemodel.ParseDate("day", args[1])
			if err != nil {
				return err
			}
			extra, _ := cmd.Flags().GetFloat64("extra")

			result, err := services.WorkerCapacity(app.Ctx, app.Deps, app.Logger, args[0], day, extra)
			if err != nil {
				return err
			}

			out := capacityOutput{
				WorkerID:    result.Worker.ID,
				Day:         day,
				Schedule:    timemodel.FormatSchedule(result.Worker.Schedule),
				Capacity:    result.Day.Capacity,
				Used:        result.Day.Used,
				Available:   result.Day.Available,
				Status:      string(result.Day.Status),
				FreeWindows: result.Day.FreeWindows(result.Worker.Schedule),
				ExtraHours:  extra,
				WouldExceed: result.WouldExceed,
				Holiday:     result.Holiday,
			}

			return app.render(out, func(w io.Writer) {
				fmt.Fprintf(w, "\n%s on %s", out.WorkerID, out.Day)
				if out.Holiday != "" {
					fmt.Fprintf(w, " (%s)", out.Holiday)
				}
				fmt.Fprintf(w, "\n\n")
				fmt.Fprintf(w, "Schedule:  %s\n", out.Schedule)
				fmt.Fprintf(w, "Capacity:  %.2fh\n", out.Capacity)
				fmt.Fprintf(w, "Used:      %.2fh\n", out.Used)
				fmt.Fprintf(w, "Available: %.2fh\n", out.Available)
				fmt.Fprintf(w, "Status:    %s\n", out.Status)
				for _, window := range out.FreeWindows {
					fmt.Fprintf(w, "  free %s\n", window)
				}
				if extra > 0 {
					verdict := "fits"
					if out.WouldExceed {
						verdict = "would exceed capacity"
					}
					fmt.Fprintf(w, "\n+%.2fh %s\n", extra, verdict)
				}
				fmt.Fprintln(w)
			})
		},
	}

	cmd.Flags().Float64("extra", 0, "Hours of task work to test against the remaining capacity")

	return cmd
}
