package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/CHIBOLAR/Options-chain-prototype/internal/errors"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
	"github.com/CHIBOLAR/Options-chain-prototype/pkg/utils"
)

// requireSession fails fast when session initialization failed at
// startup.
func (app *App) requireSession() error {
	if app.Session == nil {
		return fmt.Errorf("trading session unavailable")
	}
	return nil
}

// parseOptionType parses CALL/PUT (case-insensitive, CE/PE accepted).
func parseOptionType(s string) (models.OptionType, error) {
	switch strings.ToUpper(s) {
	case "CALL", "CE", "C":
		return models.OptionCall, nil
	case "PUT", "PE", "P":
		return models.OptionPut, nil
	default:
		return "", apperrors.NewValidationError("type", s, "must be CALL or PUT")
	}
}

// parseSide parses BUY/SELL (case-insensitive).
func parseSide(s string) (models.OrderSide, error) {
	switch strings.ToUpper(s) {
	case "BUY", "B":
		return models.OrderSideBuy, nil
	case "SELL", "S":
		return models.OrderSideSell, nil
	default:
		return "", apperrors.NewValidationError("action", s, "must be BUY or SELL")
	}
}

func newChainCmd(app *App) *cobra.Command {
	var symbol, expiryStr string
	var rows int

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Display the option chain",
		Long: `Display the synthetic option chain for the active symbol and expiry.
Premiums are Black-Scholes theoretical values; OI and volume are generated.`,
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
			if expiryStr != "" {
				expiry, err := time.Parse("2006-01-02", expiryStr)
				if err != nil {
					return apperrors.Wrap(apperrors.ErrInvalidExpiry, expiryStr)
				}
				if err := app.Session.SetExpiry(expiry); err != nil {
					return err
				}
			}

			chain, err := app.Session.Chain()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(chain)
			}

			renderChain(output, chain, rows, app.Config.UI.Professional)
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol (NIFTY, BANKNIFTY, ...)")
	cmd.Flags().StringVarP(&expiryStr, "expiry", "e", "", "expiry date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "limit to N strikes around ATM (0 = all)")
	return cmd
}

// renderChain prints the chain as a two-sided table with calls on the
// left and puts on the right.
func renderChain(output *Output, chain *models.OptionChain, limit int, professional bool) {
	output.Bold("%s  Spot: %s  Expiry: %s  Market: %s",
		chain.Symbol,
		utils.FormatIndianCurrency(chain.SpotPrice),
		chain.Expiry.Format("02 Jan 2006"),
		utils.GetMarketStatus())
	output.Println()

	rows := chain.Rows
	if limit > 0 && len(rows) > limit {
		atm := 0
		for i, row := range rows {
			if row.ATM {
				atm = i
				break
			}
		}
		lo := atm - limit/2
		if lo < 0 {
			lo = 0
		}
		hi := lo + limit
		if hi > len(rows) {
			hi = len(rows)
			lo = hi - limit
			if lo < 0 {
				lo = 0
			}
		}
		rows = rows[lo:hi]
	}

	var table *Table
	if professional {
		table = NewTable(output, "LIQ", "OI", "VOL", "IV", "DELTA", "CALL LTP", "STRIKE", "PUT LTP", "DELTA", "IV", "VOL", "OI")
	} else {
		table = NewTable(output, "OI", "CALL LTP", "STRIKE", "PUT LTP", "OI")
	}

	for _, row := range rows {
		strike := utils.FormatStrike(row.Strike)
		if row.ATM {
			strike = output.Yellow(strike + " *")
		}
		callLTP := fmt.Sprintf("%.2f", row.Call.TheoreticalPrice)
		putLTP := fmt.Sprintf("%.2f", row.Put.TheoreticalPrice)
		if row.Call.ITM {
			callLTP = output.Green(callLTP)
		}
		if row.Put.ITM {
			putLTP = output.Green(putLTP)
		}

		if professional {
			table.AddRow(
				row.Call.LiquidityRating(chain.SpotPrice),
				utils.FormatQuantity(row.Call.OpenInterest),
				utils.FormatQuantity(row.Call.Volume),
				fmt.Sprintf("%.1f%%", row.Call.ImpliedVolatility),
				fmt.Sprintf("%.2f", row.Call.Delta),
				callLTP,
				strike,
				putLTP,
				fmt.Sprintf("%.2f", row.Put.Delta),
				fmt.Sprintf("%.1f%%", row.Put.ImpliedVolatility),
				utils.FormatQuantity(row.Put.Volume),
				utils.FormatQuantity(row.Put.OpenInterest),
			)
		} else {
			table.AddRow(
				utils.FormatQuantity(row.Call.OpenInterest),
				callLTP,
				strike,
				putLTP,
				utils.FormatQuantity(row.Put.OpenInterest),
			)
		}
	}
	table.Render()
	output.Dim("* ATM strike. ITM premiums in green. All figures simulated.")
}
