package cli

import (
	"github.com/spf13/cobra"
)

// limitOptions holds the flag values for the limit command.
type limitOptions struct {
	symbol string
	side   string
	qty    float64
	price  float64
	tif    string
}

func (a *App) newLimitCmd() *cobra.Command {
	opts := &limitOptions{}

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Place a limit order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOrMenu(cmd, func() error {
				ack, err := a.trader.Limit(cmd.Context(), opts.symbol, opts.side, opts.qty, opts.price, opts.tif)
				if err != nil {
					a.reportFailure("Limit order", err)
					return nil
				}
				renderAck(a.out, "Limit Order Result", ack)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "Trading pair, e.g. BTCUSDT")
	cmd.Flags().StringVar(&opts.side, "side", "", "BUY or SELL")
	cmd.Flags().Float64Var(&opts.qty, "qty", 0, "Quantity of the base asset")
	cmd.Flags().Float64Var(&opts.price, "price", 0, "Limit price in the quote asset")
	cmd.Flags().StringVar(&opts.tif, "tif", "GTC", "Time in force: GTC, IOC or FOK")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}
