package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/market"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

func newWatchCmd(app *App) *cobra.Command {
	var symbol string
	var rows int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the option chain with live refresh",
		Long: `Continuously re-render the option chain. Each tick drifts the spot and
regenerates premiums, OI and volume. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if symbol != "" {
				if err := app.Session.SetSymbol(strings.ToUpper(symbol)); err != nil {
					return err
				}
			}
			if interval <= 0 {
				interval = app.Config.Market.RefreshInterval
			}

			return runWatch(cmd, app, output, rows, interval)
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol")
	cmd.Flags().IntVarP(&rows, "rows", "n", 11, "strikes to display around ATM")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "refresh interval (default: config refresh_interval)")
	return cmd
}

func runWatch(cmd *cobra.Command, app *App, output *Output, rows int, interval time.Duration) error {
	render := func() {
		// Clear screen and home the cursor between frames.
		output.Printf("\033[2J\033[H")
		chain, err := app.Session.Chain()
		if err != nil {
			output.Error("chain: %v", err)
			return
		}
		renderChain(output, chain, rows, app.Config.UI.Professional)
		status := utils.GetMarketStatus()
		if utils.IsMarketOpen() {
			output.Dim("Market: %s | Refreshing every %s | Ctrl+C to exit", status, interval)
		} else {
			output.Dim("Market: %s | Next open %s IST | Ctrl+C to exit",
				status, utils.NextMarketOpen().Format("Mon 02 Jan 15:04"))
		}
	}

	refresher := market.NewRefresher(interval, func() {
		app.Session.RefreshTick()
		render()
	}, app.Logger)

	ctx := cmd.Context()
	refresher.Start(ctx)
	defer refresher.Stop()

	render()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case <-sigCh:
		output.Println()
		output.Dim("Stopped.")
	}
	return nil
}
