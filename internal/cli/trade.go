package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/trading"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

func newTradeCmd(app *App) *cobra.Command {
	var symbol, optTypeStr, actionStr, orderTypeStr string
	var strike, price float64
	var quantity int

	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Place a single option order",
		Long: `Place a single simulated option order. The order enters PENDING and
fills or rejects after the configured latency. Price defaults to the
theoretical quote when omitted.`,
		Example: `  optionsim trade --strike 21400 --type CALL --action BUY --qty 2
  optionsim trade -s BANKNIFTY --strike 46500 --type PUT --action SELL --price 310.5`,
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

			order, err := app.Session.PlaceOrder(cmd.Context(), trading.OrderRequest{
				Symbol:     strings.ToUpper(symbol),
				Strike:     strike,
				OptionType: optType,
				Action:     action,
				Quantity:   quantity,
				Price:      price,
				OrderType:  models.OrderType(strings.ToUpper(orderTypeStr)),
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if order.Status == models.OrderPending {
					if order, err = app.Session.WaitForOrder(cmd.Context(), order.OrderID); err != nil {
						return err
					}
				}
				return output.JSON(order)
			}

			output.Success("Order %s placed: %s %d x %s %s %s @ %s",
				order.OrderID, order.Action, order.Quantity, order.Symbol,
				utils.FormatStrike(order.Strike), order.OptionType,
				utils.FormatIndianCurrency(order.Price))
			if order.Status == models.OrderPending {
				output.Dim("Status: PENDING, awaiting fill (%s)...", app.Config.Execution.OrderLatency)
				order, err = app.Session.WaitForOrder(cmd.Context(), order.OrderID)
				if err != nil {
					return err
				}
			}
			output.Printf("Status: %s\n", output.ColoredString(output.StatusColor(string(order.Status)), string(order.Status)))
			if order.Status == models.OrderExecuted {
				output.Dim("See 'optionsim positions' for open exposure.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol (default: active symbol)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price (required)")
	cmd.Flags().StringVarP(&optTypeStr, "type", "t", "", "option type: CALL or PUT (required)")
	cmd.Flags().StringVarP(&actionStr, "action", "a", "", "BUY or SELL (required)")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity in lots")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "limit price (default: theoretical quote)")
	cmd.Flags().StringVar(&orderTypeStr, "order-type", "MARKET", "order type: MARKET, LIMIT, SL, SL-M")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("action")
	return cmd
}

func newOrdersCmd(app *App) *cobra.Command {
	var pendingOnly bool
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			var orders []models.Order
			if pendingOnly {
				orders = app.Session.PendingOrders()
			} else {
				orders = app.Session.Orders()
			}
			if statusFilter != "" {
				want := models.OrderStatus(strings.ToUpper(statusFilter))
				filtered := orders[:0]
				for _, o := range orders {
					if o.Status == want {
						filtered = append(filtered, o)
					}
				}
				orders = filtered
			}

			if output.IsJSON() {
				return output.JSON(orders)
			}
			if len(orders) == 0 {
				output.Dim("No orders.")
				return nil
			}

			table := NewTable(output, "ORDER ID", "TIME", "SYMBOL", "STRIKE", "TYPE", "ACTION", "QTY", "PRICE", "STATUS")
			for _, o := range orders {
				table.AddRow(
					o.OrderID,
					o.PlacedAt.Format("15:04:05"),
					o.Symbol,
					utils.FormatStrike(o.Strike),
					string(o.OptionType),
					string(o.Action),
					fmt.Sprintf("%d", o.Quantity),
					fmt.Sprintf("%.2f", o.Price),
					output.ColoredString(output.StatusColor(string(o.Status)), string(o.Status)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "show only pending orders")
	cmd.Flags().StringVar(&statusFilter, "status", "", "filter by status: PENDING, EXECUTED, REJECTED, CANCELLED")

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			order, err := app.Session.CancelOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(order)
			}
			output.Success("Order %s cancelled.", order.OrderID)
			return nil
		},
	})

	return cmd
}
