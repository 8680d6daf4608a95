package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/store"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/trading"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

func newPositionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show open positions with live P&L",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			summary := app.Session.PositionSummary()
			if output.IsJSON() {
				return output.JSON(summary)
			}
			if summary.PositionCount == 0 {
				output.Dim("No open positions.")
				return nil
			}

			table := NewTable(output, "#", "SYMBOL", "STRIKE", "TYPE", "ACTION", "QTY", "AVG", "LTP", "DELTA", "P&L")
			for _, d := range summary.Positions {
				table.AddRow(
					fmt.Sprintf("%d", d.ID),
					d.Symbol,
					utils.FormatStrike(d.Strike),
					string(d.OptionType),
					string(d.Action),
					fmt.Sprintf("%d", d.Quantity),
					fmt.Sprintf("%.2f", d.AvgPrice),
					fmt.Sprintf("%.2f", d.CurrentPrice),
					fmt.Sprintf("%.2f", d.Delta),
					output.FormatPnL(d.PnL),
				)
			}
			table.Render()

			output.Println()
			output.Printf("Total P&L:   %s\n", output.FormatPnL(summary.TotalPnL))
			output.Printf("Margin used: %s\n", utils.FormatIndianCurrency(summary.MarginUsed))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "squareoff <position-id>",
		Short: "Close a position at the current price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid position id %q", args[0])
			}

			entry, err := app.Session.SquareOff(cmd.Context(), id)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(entry)
			}
			output.Success("Position closed: %s %s %s @ %.2f",
				entry.Symbol, utils.FormatStrike(entry.Strike), entry.OptionType, entry.Price)
			output.Printf("Realized P&L: %s\n", output.FormatPnL(entry.RealizedPnL))
			return nil
		},
	})

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var symbol string
	var sinceStr string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the trade ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			entries := app.Session.History()

			// The ledger serves filtered queries; fall back to the
			// in-memory history when it is unavailable.
			if app.Ledger != nil && (symbol != "" || sinceStr != "") {
				filter := store.TradeFilter{Symbol: strings.ToUpper(symbol)}
				if sinceStr != "" {
					since, err := time.Parse("2006-01-02", sinceStr)
					if err != nil {
						return fmt.Errorf("invalid date %q, want YYYY-MM-DD", sinceStr)
					}
					filter.Since = since
				}
				filtered, err := app.Ledger.Trades(cmd.Context(), filter)
				if err != nil {
					return err
				}
				entries = filtered
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Dim("No trades yet.")
				return nil
			}

			table := NewTable(output, "TIME", "ORDER ID", "SYMBOL", "STRIKE", "TYPE", "ACTION", "QTY", "PRICE", "REALIZED P&L")
			var realized float64
			for _, e := range entries {
				pnl := ""
				if e.RealizedPnL != 0 {
					pnl = output.FormatPnL(e.RealizedPnL)
				}
				realized += e.RealizedPnL
				table.AddRow(
					e.Date.Format("02 Jan 15:04:05"),
					e.OrderID,
					e.Symbol,
					utils.FormatStrike(e.Strike),
					string(e.OptionType),
					string(e.Action),
					fmt.Sprintf("%d", e.Quantity),
					fmt.Sprintf("%.2f", e.Price),
					pnl,
				)
			}
			table.Render()
			output.Println()
			output.Printf("Realized P&L: %s\n", output.FormatPnL(realized))
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "filter by symbol")
	cmd.Flags().StringVar(&sinceStr, "since", "", "filter from date (YYYY-MM-DD)")
	return cmd
}

func newMarginCmd(app *App) *cobra.Command {
	var symbol, optTypeStr, actionStr string
	var strike, price float64
	var quantity int

	cmd := &cobra.Command{
		Use:   "margin",
		Short: "Estimate margin for a prospective trade",
		Long: `Estimate the capital required for a trade before placing it. Long
options pay the premium; short options post an approximate span plus
exposure margin net of premium received.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			optType, err := parseOptionType(optTypeStr)
			if err != nil {
				return err
			}
			action, err := parseSide(actionStr)
			if err != nil {
				return err
			}

			estimate, err := app.Session.Margin(trading.OrderRequest{
				Symbol:     strings.ToUpper(symbol),
				Strike:     strike,
				OptionType: optType,
				Action:     action,
				Quantity:   quantity,
				Price:      price,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(estimate)
			}

			output.Bold("Margin estimate")
			output.Printf("  Required:  %s\n", utils.FormatIndianCurrency(estimate.Required))
			if estimate.SpanMargin > 0 {
				output.Printf("  Span:      %s\n", utils.FormatIndianCurrency(estimate.SpanMargin))
				output.Printf("  Exposure:  %s\n", utils.FormatIndianCurrency(estimate.ExposureMargin))
			}
			output.Printf("  Premium:   %s\n", utils.FormatIndianCurrency(estimate.Premium))
			output.Printf("  Breakeven: %s\n", utils.FormatIndianCurrency(estimate.Breakeven))
			output.Dim("Approximation only, not an exchange margin figure.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol (default: active symbol)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price (required)")
	cmd.Flags().StringVarP(&optTypeStr, "type", "t", "", "option type: CALL or PUT (required)")
	cmd.Flags().StringVarP(&actionStr, "action", "a", "", "BUY or SELL (required)")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity in lots")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "premium (default: theoretical quote)")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("action")
	return cmd
}
