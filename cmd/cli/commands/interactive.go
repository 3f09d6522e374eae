package commands

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load config and store once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against the same store.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Parent(), cmd.InOrStdin(), app.out())
		},
	}
}

// runSession reads command lines from in and dispatches them to root's subcommands
func runSession(root *cobra.Command, in io.Reader, w io.Writer) error {
	fmt.Fprintln(w, "\n🚀 Starting interactive session...")
	fmt.Fprintln(w, "Type 'help' for available commands, 'exit' or 'quit' to leave")

	commands := make(map[string]*cobra.Command)
	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help":
		default:
			commands[sub.Name()] = sub
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts, err := parseCommandLine(line)
		if err != nil {
			fmt.Fprintf(w, "❌ Error parsing command: %v\n\n", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		name, cmdArgs := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "👋 Goodbye!")
			return nil
		case "help":
			printInteractiveHelp(w, commands)
			continue
		}

		target, ok := commands[name]
		if !ok {
			fmt.Fprintf(w, "❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
			continue
		}
		if err := runDirect(target, cmdArgs); err != nil {
			fmt.Fprintf(w, "❌ Error: %v\n\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runDirect parses args into cmd and calls its RunE, skipping the root's pre-run so the
// app is not initialised again
func runDirect(cmd *cobra.Command, args []string) error {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	args = cmd.Flags().Args()

	if cmd.Args != nil {
		if err := cmd.Args(cmd, args); err != nil {
			return err
		}
	}

	if cmd.RunE != nil {
		return cmd.RunE(cmd, args)
	}
	if cmd.Run != nil {
		cmd.Run(cmd, args)
	}
	return nil
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-40s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(w, "\n  help                                     Show this help message")
	fmt.Fprintln(w, "  exit, quit                               Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args, nil
}
