package cli

import (
	"github.com/spf13/cobra"
)

// marketOptions holds the flag values for the market command.
type marketOptions struct {
	symbol   string
	side     string
	qty      float64
	leverage int
}

func (a *App) newMarketCmd() *cobra.Command {
	opts := &marketOptions{}

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Place a market order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOrMenu(cmd, func() error {
				ack, err := a.trader.Market(cmd.Context(), opts.symbol, opts.side, opts.qty, opts.leverage)
				if err != nil {
					a.reportFailure("Market order", err)
					return nil
				}
				renderAck(a.out, "Market Order Result", ack)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "Trading pair, e.g. BTCUSDT")
	cmd.Flags().StringVar(&opts.side, "side", "", "BUY or SELL")
	cmd.Flags().Float64Var(&opts.qty, "qty", 0, "Quantity of the base asset")
	cmd.Flags().IntVar(&opts.leverage, "leverage", 0, "Account leverage for the symbol (default from config)")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("qty")

	return cmd
}
