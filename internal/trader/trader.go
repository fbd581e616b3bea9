// Package trader wires the validation gate, the bounds adjuster and the
// bracket placer into the per-order submission flows.
package trader

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amirphl/futures-cli/internal/exchange"
	"github.com/amirphl/futures-cli/internal/journal"
	"github.com/amirphl/futures-cli/internal/notifier"
	"github.com/amirphl/futures-cli/internal/oco"
	"github.com/amirphl/futures-cli/internal/order"
	"github.com/amirphl/futures-cli/internal/validate"
)

// Options tunes the trader. Notifier may be nil.
type Options struct {
	MarginFloorUSD  float64
	MinNotionalUSD  float64
	DefaultLeverage int
	Notifier        notifier.Notifier
}

type Trader struct {
	ex       exchange.Exchange
	gate     *validate.Gate
	bounds   *validate.BoundsAdjuster
	brackets *oco.Placer
	rec      journal.Recorder
	log      *zap.Logger
	notify   notifier.Notifier
	defLev   int
}

func New(ex exchange.Exchange, rec journal.Recorder, log *zap.Logger, opts Options) *Trader {
	return &Trader{
		ex:       ex,
		gate:     validate.NewGate(ex, rec, opts.MarginFloorUSD),
		bounds:   validate.NewBoundsAdjuster(ex, rec, opts.MinNotionalUSD),
		brackets: oco.NewPlacer(ex, rec),
		rec:      rec,
		log:      log,
		notify:   opts.Notifier,
		defLev:   opts.DefaultLeverage,
	}
}

// Market validates the intent, sets account leverage for the symbol,
// clamps the quantity into the acceptable range and submits a MARKET
// order. The leverage change is exchange state and is not rolled back if
// anything after it fails.
func (t *Trader) Market(ctx context.Context, symbol, side string, quantity float64, leverage int) (order.Ack, error) {
	if leverage == 0 {
		leverage = t.defLev
	}

	in, err := t.gate.Check(ctx, order.Intent{
		Symbol:   symbol,
		Side:     order.Side(side),
		Type:     order.TypeMarket,
		Quantity: decimal.NewFromFloat(quantity),
		Leverage: leverage,
	})
	if err != nil {
		return order.Ack{}, err
	}

	t.log.Info("placing market order",
		zap.String("symbol", in.Symbol),
		zap.String("side", string(in.Side)),
		zap.String("quantity", in.Quantity.String()),
		zap.Int("leverage", in.Leverage),
	)

	if err := t.ex.SetLeverage(ctx, in.Symbol, in.Leverage); err != nil {
		t.record(ctx, "error", "leverage change failed", map[string]any{"symbol": in.Symbol, "error": err.Error()})
		return order.Ack{}, fmt.Errorf("setting leverage: %w", err)
	}
	t.record(ctx, "info", "account leverage set", map[string]any{"symbol": in.Symbol, "leverage": in.Leverage})

	adj, err := t.bounds.Clamp(ctx, in.Symbol, in.Quantity, in.Leverage)
	if err != nil {
		return order.Ack{}, fmt.Errorf("adjusting quantity: %w", err)
	}
	in.Quantity = adj.Value

	ack, err := t.ex.CreateOrder(ctx, in)
	if err != nil {
		t.record(ctx, "error", "market order submission failed", map[string]any{"symbol": in.Symbol, "error": err.Error()})
		return order.Ack{}, fmt.Errorf("submitting market order: %w", err)
	}

	t.record(ctx, "info", "market order placed", map[string]any{
		"symbol":   ack.Symbol,
		"order_id": ack.OrderID,
		"status":   ack.Status,
	})
	t.announce(fmt.Sprintf("Market order %d placed: %s %s %s", ack.OrderID, ack.Side, ack.Quantity, ack.Symbol))
	return ack, nil
}

// Limit validates the intent and submits a LIMIT order with the given
// time-in-force (GTC when empty).
func (t *Trader) Limit(ctx context.Context, symbol, side string, quantity, price float64, tif string) (order.Ack, error) {
	timeInForce := order.TimeInForce(tif)
	if timeInForce == "" {
		timeInForce = order.GTC
	}

	in, err := t.gate.Check(ctx, order.Intent{
		Symbol:      symbol,
		Side:        order.Side(side),
		Type:        order.TypeLimit,
		Quantity:    decimal.NewFromFloat(quantity),
		Price:       decimal.NewFromFloat(price),
		TimeInForce: timeInForce,
	})
	if err != nil {
		return order.Ack{}, err
	}

	t.log.Info("placing limit order",
		zap.String("symbol", in.Symbol),
		zap.String("side", string(in.Side)),
		zap.String("quantity", in.Quantity.String()),
		zap.String("price", in.Price.String()),
		zap.String("tif", string(in.TimeInForce)),
	)

	ack, err := t.ex.CreateOrder(ctx, in)
	if err != nil {
		t.record(ctx, "error", "limit order submission failed", map[string]any{"symbol": in.Symbol, "error": err.Error()})
		return order.Ack{}, fmt.Errorf("submitting limit order: %w", err)
	}

	t.record(ctx, "info", "limit order placed", map[string]any{
		"symbol":   ack.Symbol,
		"order_id": ack.OrderID,
		"status":   ack.Status,
	})
	t.announce(fmt.Sprintf("Limit order %d placed: %s %s %s @ %s", ack.OrderID, ack.Side, ack.Quantity, ack.Symbol, ack.Price))
	return ack, nil
}

// OCO validates the intent and places the synthetic bracket: a stop-loss
// and a take-profit order derived from the current price. See the oco
// package doc for the linkage caveat.
func (t *Trader) OCO(ctx context.Context, symbol, side string, quantity, tpPercent, slPercent float64) (*oco.Pair, error) {
	in, err := t.gate.Check(ctx, order.Intent{
		Symbol:   symbol,
		Side:     order.Side(side),
		Type:     order.TypeMarket,
		Quantity: decimal.NewFromFloat(quantity),
	})
	if err != nil {
		return nil, err
	}

	t.log.Info("placing bracket orders",
		zap.String("symbol", in.Symbol),
		zap.String("side", string(in.Side)),
		zap.String("quantity", in.Quantity.String()),
		zap.Float64("tp_percent", tpPercent),
		zap.Float64("sl_percent", slPercent),
	)

	pair, err := t.brackets.Place(ctx, in.Symbol, in.Side, in.Quantity, tpPercent, slPercent)
	if err != nil {
		return nil, err
	}

	t.announce(fmt.Sprintf("Bracket placed on %s: SL order %d, TP order %d",
		in.Symbol, pair.StopLoss.OrderID, pair.TakeProfit.OrderID))
	return pair, nil
}

// CheckConnection probes the account endpoint, the same check the
// reference client uses at startup.
func (t *Trader) CheckConnection(ctx context.Context) bool {
	acct, err := t.ex.AccountInfo(ctx)
	if err != nil {
		t.log.Error("connection check failed", zap.Error(err))
		return false
	}
	t.log.Info("connection check passed",
		zap.String("wallet_balance", acct.TotalWalletBalance.String()),
		zap.Bool("can_trade", acct.CanTrade),
	)
	return true
}

func (t *Trader) announce(msg string) {
	if t.notify == nil {
		return
	}
	if err := t.notify.SendWithRetry(msg); err != nil {
		t.log.Warn("notification delivery failed", zap.Error(err))
	}
}

func (t *Trader) record(ctx context.Context, level, description string, data map[string]any) {
	t.rec.Record(ctx, journal.Event{
		Time:        time.Now().UTC(),
		Type:        "order",
		Level:       level,
		Description: description,
		Data:        data,
	})
}
