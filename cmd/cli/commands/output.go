package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/capacity-planner/pkg/core/model"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// ValidateOutput rejects unknown output formats
func ValidateOutput(format string) error {
	switch format {
	case OutputText, OutputJSON, OutputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// render writes v in the app's format, using text for the human-readable form
func (app *AppContext) render(v any, text func(w io.Writer)) error {
	w := app.out()
	switch app.Output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func printConflicts(w io.Writer, conflicts []model.Conflict) {
	if len(conflicts) == 0 {
		fmt.Fprintf(w, "\n✓ No conflicts\n\n")
		return
	}

	fmt.Fprintf(w, "\n⚠️  %d conflict(s):\n\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(w, "  %-20s %s on %s (%.1fh)\n", c.Kind, c.AllocationID, c.Day, c.Hours)
		fmt.Fprintf(w, "  %-20s %s\n", "", c.Message)
	}
	fmt.Fprintln(w)
}

func printSuggestions(w io.Writer, suggestions []model.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintf(w, "No suggestions\n\n")
		return
	}

	fmt.Fprintf(w, "%d suggestion(s):\n\n", len(suggestions))
	for i, s := range suggestions {
		fmt.Fprintf(w, "  %2d. [%s %.0f] %s\n", i+1, s.Impact.Bucket, s.Impact.Total, s.Description)
		fmt.Fprintf(w, "      %s\n", s.Impact.Justification)
		for _, slot := range s.Slots {
			fmt.Fprintf(w, "      - %s %s: %.1fh of %.1fh free%s\n",
				slot.WorkerID, slot.Day, slot.Hours, slot.Available, formatWindows(slot))
		}
		for j, c := range s.Candidates {
			marker := "alternate"
			if j == 0 {
				marker = "proposed"
			}
			fmt.Fprintf(w, "      * %s (%s) score %.0f, %.1fh free [%s]\n", c.WorkerName, c.WorkerID, c.Score, c.Available, marker)
		}
	}
	fmt.Fprintln(w)
}

func formatWindows(slot model.Slot) string {
	if len(slot.Windows) == 0 {
		return ""
	}
	parts := make([]string, 0, len(slot.Windows))
	for _, w := range slot.Windows {
		parts = append(parts, w.String())
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
