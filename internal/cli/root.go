// Package cli implements the command surface: market/limit/oco
// subcommands, the interactive menu, and result rendering.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amirphl/futures-cli/internal/config"
	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
	"github.com/amirphl/futures-cli/internal/logging"
	"github.com/amirphl/futures-cli/internal/notifier"
	"github.com/amirphl/futures-cli/internal/trader"
)

// App holds the global flag values and the wired dependencies shared by
// all commands.
type App struct {
	interactive bool
	testnet     bool
	verbose     bool
	configFile  string

	cfg    config.Config
	log    *zap.Logger
	trader *trader.Trader

	out io.Writer
	in  io.Reader
}

// Execute runs the CLI and returns the process exit code: 0 on success,
// 1 on fatal startup or connection failure.
func Execute() int {
	app := &App{out: os.Stdout, in: os.Stdin}
	root := app.newRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "futures-cli",
		Short:         "Futures trading assistant for Binance USDT-margined contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand falls through to the menu, like -i.
			return a.runInteractive(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.interactive, "interactive", "i", false, "Interactive menu mode")
	cmd.PersistentFlags().BoolVar(&a.testnet, "testnet", true, "Use the futures testnet endpoint")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to YAML config file")

	cmd.AddCommand(a.newMarketCmd())
	cmd.AddCommand(a.newLimitCmd())
	cmd.AddCommand(a.newOCOCmd())

	return cmd
}

// setup loads configuration, builds the logger and the exchange client,
// and verifies connectivity. Any failure here is fatal for the process.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile, a.testnet, a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logging.New(logging.Options{
		Verbose:  cfg.Verbose,
		FilePath: cfg.LogFile,
	})

	rec := journal.NewZapRecorder(a.log)
	ex := exchange.NewBinanceFutures(cfg.APIKey, cfg.SecretKey, cfg.Testnet, a.log)

	var n notifier.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		n = notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID,
			cfg.NotificationRetries, cfg.NotificationDelay, a.log)
	}

	a.trader = trader.New(ex, rec, a.log, trader.Options{
		MarginFloorUSD:  cfg.MarginFloorUSD,
		MinNotionalUSD:  cfg.MinNotionalUSD,
		DefaultLeverage: cfg.DefaultLeverage,
		Notifier:        n,
	})

	banner(a.out)
	a.log.Info("exchange client initialized", zap.Bool("testnet", cfg.Testnet))

	if !a.trader.CheckConnection(cmd.Context()) {
		fmt.Fprintln(a.out, "API connection failed. Check credentials.")
		return errors.New("connection check failed")
	}
	return nil
}

// runOrMenu lets the global -i flag take over a subcommand invocation,
// matching the reference CLI's behavior.
func (a *App) runOrMenu(cmd *cobra.Command, run func() error) error {
	if a.interactive {
		return a.runInteractive(cmd.Context())
	}
	return run()
}

// reportFailure tells the user an order was not placed. The error was
// already logged on the way up.
func (a *App) reportFailure(what string, err error) {
	fmt.Fprintf(a.out, "%s not placed: %v\n", what, err)
	fmt.Fprintln(a.out, "No response received. Check logs.")
}
