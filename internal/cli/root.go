package cli

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/config"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/market"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/notify"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/store"
	"github.com/CHIBOLAR/Options-chain-prototype/internal/trading"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-01-15"
)

// App holds the application dependencies. One App backs every command
// tree built from it, so the session, basket and ledger are shared
// across commands dispatched in the same process.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Session  *trading.Session
	Ledger   *store.Ledger
	Notifier *notify.TerminalNotifier
}

// NewApp builds the shared application state: ledger, notifier and
// trading session.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	ledger, err := store.NewLedger(cfg.Storage.LedgerPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize trade ledger, history queries unavailable")
	} else {
		app.Ledger = ledger
	}

	app.Notifier = notify.NewTerminalNotifier(100)
	app.Notifier.SetBellEnabled(false)
	app.Notifier.AddHandler(notify.DefaultHandler(cfg.UI.ColorEnabled))

	var rng *rand.Rand
	if cfg.Market.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Market.Seed))
	}

	var expiry time.Time
	if cfg.Market.DefaultExpiry != "" {
		if parsed, perr := time.Parse("2006-01-02", cfg.Market.DefaultExpiry); perr == nil {
			expiry = parsed
		} else {
			logger.Warn().Str("expiry", cfg.Market.DefaultExpiry).Msg("Ignoring unparseable default expiry")
		}
	}

	registry := market.NewRegistry(cfg.Instruments(market.DefaultInstruments()))
	session, err := trading.NewSession(trading.Options{
		Registry:        registry,
		RiskFreeRate:    cfg.Market.RiskFreeRate,
		FillProbability: cfg.Execution.FillProbability,
		OrderLatency:    cfg.Execution.OrderLatency,
		Symbol:          cfg.Market.DefaultSymbol,
		Expiry:          expiry,
		Rand:            rng,
		Ledger:          app.Ledger,
		Notifier:        app.Notifier,
		Logger:          logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize trading session")
	} else {
		app.Session = session
	}

	return app
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCommand(NewApp(cfg, logger))
}

// newRootCommand builds a command tree bound to app. The interactive
// loop builds a fresh tree per input line so flag state never leaks
// between commands; all trees share the same App.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optionsim",
		Short: "Options chain simulator for Indian derivatives",
		Long: `optionsim is a simulated options trading terminal for Indian index
and stock derivatives (NIFTY, BANKNIFTY, FINNIFTY and select equities).

Chains, premiums, open interest and fills are all synthetic: premiums
come from Black-Scholes, liquidity figures are generated, and orders
fill against a configurable probability. No real market data or broker
connectivity is involved.

Session state (basket, orders, positions) lives in memory for the life
of the process: run 'optionsim interactive' to work through a full
trade lifecycle in one session.

Use 'optionsim help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if app.Notifier != nil {
				app.Notifier.Start(cmd.Context())
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionsim)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newOrdersCmd(app))
	rootCmd.AddCommand(newBasketCmd(app))
	rootCmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newMarginCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newInteractiveCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("optionsim v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}

			output.Bold("Market")
			output.Printf("  Risk-free rate:   %.2f%%\n", app.Config.Market.RiskFreeRate*100)
			output.Printf("  Refresh interval: %s\n", app.Config.Market.RefreshInterval)
			output.Printf("  Default symbol:   %s\n", app.Config.Market.DefaultSymbol)
			output.Bold("Execution")
			output.Printf("  Fill probability: %.0f%%\n", app.Config.Execution.FillProbability*100)
			output.Printf("  Order latency:    %s\n", app.Config.Execution.OrderLatency)
			output.Bold("Storage")
			if app.Config.Storage.LedgerPath == "" {
				output.Printf("  Ledger:           in-memory\n")
			} else {
				output.Printf("  Ledger:           %s\n", app.Config.Storage.LedgerPath)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration directory",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			output.Println(config.DefaultConfigDir())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the loaded configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"status": "valid"})
			}
			output.Success("Configuration is valid.")
			return nil
		},
	})

	return cmd
}
