package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/trading"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

func newBasketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Stage and execute multi-leg orders",
		Long: `Stage option legs into a basket and execute them together. Each leg
fills or rejects independently; a rejected leg does not roll back the
rest of the basket.`,
	}

	cmd.AddCommand(newBasketAddCmd(app))
	cmd.AddCommand(newBasketShowCmd(app))
	cmd.AddCommand(newBasketRemoveCmd(app))
	cmd.AddCommand(newBasketClearCmd(app))
	cmd.AddCommand(newBasketExecuteCmd(app))
	return cmd
}

func newBasketAddCmd(app *App) *cobra.Command {
	var symbol, optTypeStr, actionStr string
	var strike, price float64
	var quantity int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Stage a leg into the basket",
		Example: `  optionsim basket add --strike 21400 --type CALL --action SELL
  optionsim basket add --strike 21600 --type CALL --action BUY --qty 2
  optionsim basket add --strike 21400 --type PUT`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			optType, err := parseOptionType(optTypeStr)
			if err != nil {
				return err
			}

			var item models.BasketItem
			if actionStr == "" {
				// Quick add: 1-lot BUY MARKET at the theoretical quote.
				item, err = app.Session.AddDefaultToBasket(strike, optType)
			} else {
				var action models.OrderSide
				if action, err = parseSide(actionStr); err != nil {
					return err
				}
				item, err = app.Session.AddToBasket(trading.OrderRequest{
					Symbol:     strings.ToUpper(symbol),
					Strike:     strike,
					OptionType: optType,
					Action:     action,
					Quantity:   quantity,
					Price:      price,
				})
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(item)
			}
			output.Success("Leg #%d staged: %s %d x %s %s %s @ %.2f (premium %s)",
				item.ID, item.Action, item.Quantity, item.Symbol,
				utils.FormatStrike(item.Strike), item.OptionType, item.Price,
				utils.FormatIndianCurrency(item.Premium()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol (default: active symbol)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price (required)")
	cmd.Flags().StringVarP(&optTypeStr, "type", "t", "", "option type: CALL or PUT (required)")
	cmd.Flags().StringVarP(&actionStr, "action", "a", "", "BUY or SELL (omit for a 1-lot BUY MARKET quick add)")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity in lots")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "price (default: theoretical quote)")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("type")
	return cmd
}

func newBasketShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"list"},
		Short:   "Show the staged basket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			items := app.Session.BasketItems()
			summary := app.Session.BasketSummary()

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"items":   items,
					"summary": summary,
				})
			}
			if len(items) == 0 {
				output.Dim("Basket is empty.")
				return nil
			}

			table := NewTable(output, "#", "SYMBOL", "STRIKE", "TYPE", "ACTION", "QTY", "PRICE", "PREMIUM")
			for _, item := range items {
				table.AddRow(
					fmt.Sprintf("%d", item.ID),
					item.Symbol,
					utils.FormatStrike(item.Strike),
					string(item.OptionType),
					string(item.Action),
					fmt.Sprintf("%d", item.Quantity),
					fmt.Sprintf("%.2f", item.Price),
					utils.FormatIndianCurrency(item.Premium()),
				)
			}
			table.Render()

			output.Println()
			output.Printf("Net premium: %s ", output.FormatPnL(summary.NetPremium))
			if summary.NetPremium >= 0 {
				output.Println("(credit)")
			} else {
				output.Println("(debit)")
			}
			output.Printf("Max profit:  %s\n", utils.FormatIndianCurrency(summary.MaxProfit))
			output.Printf("Max loss:    %s\n", utils.FormatIndianCurrency(summary.MaxLoss))
			return nil
		},
	}
}

func newBasketRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <leg-id>",
		Short: "Remove a staged leg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid leg id %q", args[0])
			}
			if err := app.Session.RemoveFromBasket(id); err != nil {
				return err
			}
			output.Success("Leg #%d removed.", id)
			return nil
		},
	}
}

func newBasketClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all staged legs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			app.Session.ClearBasket()
			output.Success("Basket cleared.")
			return nil
		},
	}
}

func newBasketExecuteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "execute",
		Short: "Execute all staged legs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			executed, total, err := app.Session.ExecuteBasket(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{
					"executed": executed,
					"total":    total,
				})
			}
			if executed == total {
				output.Success("All %d legs executed.", total)
			} else {
				output.Warning("%d of %d legs executed; the rest were rejected.", executed, total)
			}
			output.Dim("See 'optionsim positions' for open exposure.")
			return nil
		},
	}
}
