package cli

import (
	"github.com/spf13/cobra"
)

// ocoOptions holds the flag values for the oco command.
type ocoOptions struct {
	symbol string
	side   string
	qty    float64
	tp     float64
	sl     float64
}

func (a *App) newOCOCmd() *cobra.Command {
	opts := &ocoOptions{}

	cmd := &cobra.Command{
		Use:   "oco",
		Short: "Place a stop-loss/take-profit bracket (two unlinked conditional orders)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOrMenu(cmd, func() error {
				pair, err := a.trader.OCO(cmd.Context(), opts.symbol, opts.side, opts.qty, opts.tp, opts.sl)
				if err != nil {
					a.reportFailure("Bracket", err)
					return nil
				}
				renderAck(a.out, "OCO Stop Order", pair.StopLoss)
				renderAck(a.out, "OCO Take Profit Order", pair.TakeProfit)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "Trading pair, e.g. BTCUSDT")
	cmd.Flags().StringVar(&opts.side, "side", "", "Side of the position being bracketed: BUY or SELL")
	cmd.Flags().Float64Var(&opts.qty, "qty", 0, "Quantity of the base asset")
	cmd.Flags().Float64Var(&opts.tp, "tp", 2, "Take profit offset in percent")
	cmd.Flags().Float64Var(&opts.sl, "sl", 2, "Stop loss offset in percent")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("qty")

	return cmd
}
