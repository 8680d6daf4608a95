package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

func newInteractiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"shell", "repl"},
		Short:   "Run an interactive trading session",
		Long: `Start a prompt that dispatches commands against one long-lived
session. Staged baskets, pending orders and open positions persist
across commands until you exit, so a full lifecycle works end to end:

  optionsim> basket add --strike 21400 --type CALL --action SELL
  optionsim> basket execute
  optionsim> positions
  optionsim> positions squareoff 1

Type 'exit' or press Ctrl+D to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			return runInteractive(cmd, app)
		},
	}
}

func runInteractive(cmd *cobra.Command, app *App) error {
	output := NewOutput(cmd)
	output.Bold("optionsim v%s | %s", Version, app.Session.Symbol())
	output.Dim("Type a command ('chain', 'trade', 'basket add', ...), 'help', or 'exit'.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		output.Printf("optionsim> ")
		if !scanner.Scan() {
			output.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		args := strings.Fields(line)
		switch args[0] {
		case "interactive", "shell", "repl":
			output.Warning("Already in an interactive session.")
			continue
		}

		if err := dispatchLine(cmd, app, args); err != nil {
			output.Error("%v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	output.Dim("Session closed.")
	return nil
}

// dispatchLine runs one command line against app's shared session. A
// fresh command tree is built per line so flag values never leak from
// one invocation into the next.
func dispatchLine(cmd *cobra.Command, app *App, args []string) error {
	sub := newRootCommand(app)
	sub.SetArgs(args)
	sub.SetIn(cmd.InOrStdin())
	sub.SetOut(cmd.OutOrStdout())
	sub.SetErr(cmd.ErrOrStderr())
	return sub.ExecuteContext(cmd.Context())
}
